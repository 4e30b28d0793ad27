package memory

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestPairLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		category  string
		pairCount int
		want      []string
	}{
		{
			name:      "zodiac takes first labels in order",
			category:  CategoryZodiac,
			pairCount: 4,
			want:      []string{"Aries", "Taurus", "Gemini", "Cancer"},
		},
		{
			name:      "undersized pool padded with extras",
			category:  CategoryZodiac,
			pairCount: 14,
			want: []string{
				"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
				"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
				"Extra 13", "Extra 14",
			},
		},
		{
			name:      "unknown category falls back to numbers",
			category:  "Mythical Beasts",
			pairCount: 3,
			want:      []string{"1", "2", "3"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, pairLabels(test.category, test.pairCount))
		})
	}
}

func TestNewGameBoards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		category string
		rows     int
		columns  int
	}{
		{"2x2 zodiac", CategoryZodiac, 2, 2},
		{"4x4 zodiac", CategoryZodiac, 4, 4},
		{"4x5 celestial", CategoryCelestial, 4, 5},
		{"6x6 constellations", CategoryConstellations, 6, 6},
		{"3x4 unknown", "Unknown", 3, 4},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			g, err := NewGame("ada", test.category, test.rows, test.columns, time.Minute, testRand())
			require.NoError(t, err)
			require.Len(t, g.Cards, test.rows*test.columns)

			byValue := map[string]int{}
			ids := map[string]bool{}
			for _, c := range g.Cards {
				byValue[c.Value]++
				assert.False(t, ids[c.ID], "duplicate card id %s", c.ID)
				ids[c.ID] = true
				assert.False(t, c.Flipped)
				assert.False(t, c.Matched)
			}
			assert.Len(t, byValue, test.rows*test.columns/2)
			for value, n := range byValue {
				assert.Equal(t, 2, n, "label %q must appear exactly twice", value)
			}
		})
	}
}

func TestNewGameZodiac4x4Scenario(t *testing.T) {
	t.Parallel()

	g, err := NewGame("ada", CategoryZodiac, 4, 4, time.Minute, testRand())
	require.NoError(t, err)
	require.Len(t, g.Cards, 16)

	firstEight := map[string]bool{
		"Aries": true, "Taurus": true, "Gemini": true, "Cancer": true,
		"Leo": true, "Virgo": true, "Libra": true, "Scorpio": true,
	}
	seen := map[string]int{}
	for _, c := range g.Cards {
		assert.True(t, firstEight[c.Value], "unexpected label %q", c.Value)
		seen[c.Value]++
	}
	assert.Len(t, seen, 8)
}

func TestNewGameRejectsBadDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rows    int
		columns int
	}{
		{"odd product", 3, 3},
		{"too few rows", 1, 4},
		{"too few columns", 4, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewGame("ada", CategoryZodiac, test.rows, test.columns, time.Minute, testRand())
			assert.Error(t, err)
		})
	}
}

func TestShuffleIsAPermutation(t *testing.T) {
	t.Parallel()

	r := testRand()
	cards := make([]*Card, 0, 12)
	before := map[string]int{}
	for _, label := range pairLabels(CategoryCelestial, 6) {
		a, b := NewCard(label), NewCard(label)
		cards = append(cards, a, b)
		before[a.ID]++
		before[b.ID]++
	}

	shuffleCards(cards, r)

	after := map[string]int{}
	for _, c := range cards {
		after[c.ID]++
	}
	assert.Equal(t, before, after)
}

func TestShuffleIsRoughlyUniform(t *testing.T) {
	t.Parallel()

	const runs = 4000
	r := testRand()

	// Track how often each of four cards lands in position 0. Expected
	// share is 25%; allow a wide band to keep the test stable.
	counts := map[string]int{}
	for range runs {
		cards := []*Card{
			{Value: "a", ID: "a"}, {Value: "b", ID: "b"},
			{Value: "c", ID: "c"}, {Value: "d", ID: "d"},
		}
		shuffleCards(cards, r)
		counts[cards[0].ID]++
	}

	for id, n := range counts {
		share := float64(n) / runs
		assert.InDelta(t, 0.25, share, 0.05, "card %s share %f", id, share)
	}
}

func TestRestoreGameAdoptsSavedCards(t *testing.T) {
	t.Parallel()

	a1 := RestoreCard("Aries", "a1", true, true)
	a2 := RestoreCard("Aries", "a2", true, true)
	b1 := RestoreCard("Taurus", "b1", false, false)
	b2 := RestoreCard("Taurus", "b2", true, false)
	saved := []*Card{a1, b1, a2, b2}

	g, err := RestoreGame("ada", CategoryZodiac, 2, 2, time.Minute, saved, testRand())
	require.NoError(t, err)

	require.Len(t, g.Cards, 4)
	assert.Same(t, a1, g.Cards[0])
	assert.Same(t, b2, g.Cards[3])
	assert.Equal(t, 1, g.MatchesFound)
}

func TestRestoreGameFallsBackOnWrongLength(t *testing.T) {
	t.Parallel()

	saved := []*Card{RestoreCard("Aries", "a1", false, false)}
	g, err := RestoreGame("ada", CategoryZodiac, 2, 2, time.Minute, saved, testRand())
	require.NoError(t, err)

	require.Len(t, g.Cards, 4)
	assert.Equal(t, 0, g.MatchesFound)
	for _, c := range g.Cards {
		assert.False(t, c.Flipped)
	}
}

func TestAdjustStartTimeResumesElapsed(t *testing.T) {
	t.Parallel()

	g, err := NewGame("ada", CategoryZodiac, 2, 2, time.Minute, testRand())
	require.NoError(t, err)

	g.AdjustStartTime(42 * time.Second)
	assert.Equal(t, 42*time.Second, g.Elapsed)

	g.UpdateElapsed(time.Now())
	assert.GreaterOrEqual(t, g.Elapsed, 42*time.Second)
	assert.Less(t, g.Elapsed, 43*time.Second)
}

func TestRemainingTimeClampsAtZero(t *testing.T) {
	t.Parallel()

	g, err := NewGame("ada", CategoryZodiac, 2, 2, time.Minute, testRand())
	require.NoError(t, err)

	g.Elapsed = 20 * time.Second
	assert.Equal(t, 40*time.Second, g.RemainingTime())
	assert.False(t, g.TimeExpired())

	g.Elapsed = time.Minute
	assert.Equal(t, time.Duration(0), g.RemainingTime())
	assert.True(t, g.TimeExpired())

	g.Elapsed = 2 * time.Minute
	assert.Equal(t, time.Duration(0), g.RemainingTime())
}

func TestGameGobRoundTrip(t *testing.T) {
	t.Parallel()

	g, err := NewGame("ada", CategoryConstellations, 4, 4, 3*time.Minute, testRand())
	require.NoError(t, err)
	g.Cards[0].Flip()
	g.Cards[1].SetMatched()
	g.Moves = 7
	g.MatchesFound = 1

	b, err := g.Bytes()
	require.NoError(t, err)

	got, err := DecodeGame(b)
	require.NoError(t, err)
	assert.Equal(t, g.Moves, got.Moves)
	assert.Equal(t, g.MatchesFound, got.MatchesFound)
	require.Len(t, got.Cards, len(g.Cards))
	for i := range g.Cards {
		assert.Equal(t, *g.Cards[i], *got.Cards[i])
	}
}
