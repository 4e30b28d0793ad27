package memory

import "github.com/google/uuid"

// Card is one tile on the board. Exactly two cards on a board share a
// Value; ID is unique per card and survives save/restore.
type Card struct {
	Value   string
	ID      string
	Flipped bool
	Matched bool
}

func NewCard(value string) *Card {
	return &Card{Value: value, ID: uuid.NewString()}
}

// RestoreCard rebuilds a card from persisted state. A missing id gets a
// fresh one so restored boards never carry duplicate empty ids.
func RestoreCard(value, id string, flipped, matched bool) *Card {
	if id == "" {
		id = uuid.NewString()
	}
	return &Card{Value: value, ID: id, Flipped: flipped, Matched: matched}
}

// Flip toggles the card face up/down. Matched cards are flip-immune.
func (c *Card) Flip() {
	if !c.Matched {
		c.Flipped = !c.Flipped
	}
}

// SetMatched marks the card as part of a resolved pair and forces it
// face up. Idempotent.
func (c *Card) SetMatched() {
	c.Matched = true
	c.Flipped = true
}

func (c *Card) Matches(other *Card) bool {
	return c.Value == other.Value
}
