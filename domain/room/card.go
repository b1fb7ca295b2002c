package room

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/paulhankin/poker"
)

// Suit names used as styling tokens.
const (
	SuitClubs    = "clubs"
	SuitDiamonds = "diamonds"
	SuitHearts   = "hearts"
	SuitSpades   = "spades"
)

// Card is an opaque display token. The client never interprets rank or suit
// beyond picking a style for it.
type Card struct {
	Display string `json:"display"`
	Suit    string `json:"suit"`
}

// engineCard is the numeric form emitted by the game engine: suits 0-3
// (clubs, diamonds, hearts, spades) and ranks 2-14 (ace high).
type engineCard struct {
	Suit int `json:"suit"`
	Rank int `json:"rank"`
}

var suitNames = [4]string{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}
var suitSymbols = [4]string{"♣", "♦", "♥", "♠"}

// UnmarshalJSON accepts both the display form {display, suit} and the
// engine form {suit:int, rank:int}.
func (c *Card) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	suit, hasSuit := probe["suit"]
	if _, ok := probe["display"]; ok || (hasSuit && bytes.HasPrefix(bytes.TrimSpace(suit), []byte(`"`))) {
		type plain Card
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*c = Card(p)
		return nil
	}
	var ec engineCard
	if err := json.Unmarshal(data, &ec); err != nil {
		return err
	}
	card, err := CardFromEngine(ec.Suit, ec.Rank)
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// CardFromEngine converts an engine-coded card into display tokens.
func CardFromEngine(suit, rank int) (Card, error) {
	if suit < 0 || suit > 3 {
		return Card{}, fmt.Errorf("invalid card suit %d", suit)
	}
	// paulhankin/poker ranks aces low (1..13)
	r := rank
	if r == 14 {
		r = 1
	}
	if r < 1 || r > 13 {
		return Card{}, fmt.Errorf("invalid card rank %d", rank)
	}
	if _, err := poker.MakeCard(poker.Suit(suit), poker.Rank(r)); err != nil {
		return Card{}, fmt.Errorf("invalid card %d, %d: %w", suit, rank, err)
	}
	var rankStr string
	switch r {
	case 1:
		rankStr = "A"
	case 11:
		rankStr = "J"
	case 12:
		rankStr = "Q"
	case 13:
		rankStr = "K"
	default:
		rankStr = fmt.Sprintf("%d", r)
	}
	return Card{Display: rankStr + suitSymbols[suit], Suit: suitNames[suit]}, nil
}
