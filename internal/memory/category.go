package memory

import (
	"fmt"
	"strconv"
)

const (
	CategoryZodiac         = "Zodiac Signs"
	CategoryCelestial      = "Celestial Bodies"
	CategoryConstellations = "Constellations"
)

// Label pools are ordered: a board always draws the first pairCount
// entries, so the selection is deterministic per category and only the
// card positions are random.
var categoryLabels = map[string][]string{
	CategoryZodiac: {
		"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
		"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
	},
	CategoryCelestial: {
		"Sun", "Mercury", "Venus", "Earth", "Mars", "Jupiter",
		"Saturn", "Uranus", "Neptune", "Pluto", "Moon", "Comet",
		"Void", "Sedna", "Deimos", "Eris", "Ceres", "Europa",
	},
	CategoryConstellations: {
		"UrsaMajor", "Orion", "Cassiopeia", "Draco", "Pegasus", "Perseus",
		"Andromeda", "Cygnus", "Lyra", "Centaurus", "Hercules", "Aquila",
		"Delphinus", "Vulpecula", "Lacerta", "Cepheus", "Bootes", "CanisMajor",
	},
}

func Categories() []string {
	return []string{CategoryZodiac, CategoryCelestial, CategoryConstellations}
}

func KnownCategory(category string) bool {
	_, ok := categoryLabels[category]
	return ok
}

// pairLabels returns exactly pairCount distinct labels for a category.
// Unknown categories fall back to "1".."pairCount"; known but undersized
// pools are padded with "Extra N" labels. Never fails.
func pairLabels(category string, pairCount int) []string {
	labels := make([]string, 0, pairCount)

	pool, ok := categoryLabels[category]
	if !ok {
		for i := 1; i <= pairCount; i++ {
			labels = append(labels, strconv.Itoa(i))
		}
		return labels
	}

	for i := 0; i < pairCount && i < len(pool); i++ {
		labels = append(labels, pool[i])
	}
	for i := len(labels) + 1; i <= pairCount; i++ {
		labels = append(labels, fmt.Sprintf("Extra %d", i))
	}
	return labels
}
