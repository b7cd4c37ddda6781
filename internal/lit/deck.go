// Package lit implements the rules of the card game LIT: deck construction,
// dealing, the request-card and declare-set protocols, turn claims, and win
// determination. All randomness is taken from an injected *rand.Rand so
// shuffles and tie-breaks are reproducible in tests.
package lit

import (
	"errors"
	"math/rand"

	"github.com/litcards/lit-backend/internal/entity"
)

const (
	// DeckSize is 4 suits x 12 ranks; the four 7s never enter play.
	DeckSize = 48

	// SetSize is the number of cards in one (suit, setType) set.
	SetSize = 6

	// TotalSets is the number of capturable sets in a game.
	TotalSets = 8
)

var ErrUnevenDeal = errors.New("deck does not split evenly between players")

// BuildDeck returns the 48-card deck in construction order. Card ids are
// unique and stable for the lifetime of the deck.
func BuildDeck() []entity.Card {
	deck := make([]entity.Card, 0, DeckSize)

	id := 0
	for _, suit := range entity.Suits {
		for _, rank := range entity.LowerRanks {
			deck = append(deck, entity.Card{ID: id, Suit: suit, Rank: rank, SetType: entity.SetTypeLower})
			id++
		}
		for _, rank := range entity.UpperRanks {
			deck = append(deck, entity.Card{ID: id, Suit: suit, Rank: rank, SetType: entity.SetTypeUpper})
			id++
		}
	}

	return deck
}

// Shuffle permutes the deck in place with a uniform Fisher-Yates pass.
func Shuffle(deck []entity.Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Deal splits the deck into contiguous equal blocks in seating order:
// 8 cards per player for 6 players, 6 per player for 8. The deck must be
// exhausted exactly.
func Deal(deck []entity.Card, players []*entity.Player) error {
	if len(players) == 0 || len(deck)%len(players) != 0 {
		return ErrUnevenDeal
	}

	handSize := len(deck) / len(players)
	for i, player := range players {
		hand := make([]entity.Card, handSize)
		copy(hand, deck[i*handSize:(i+1)*handSize])
		player.Hand = hand
	}

	return nil
}

// ShuffleTeams permutes the seat list with a uniform Fisher-Yates pass, then
// assigns the first half of the seats to red and the rest to blue.
func ShuffleTeams(room *entity.Room, rng *rand.Rand) {
	players := room.Players
	for i := len(players) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		players[i], players[j] = players[j], players[i]
	}

	for i, player := range players {
		if i < room.TeamSize() {
			player.Team = entity.TeamRed
		} else {
			player.Team = entity.TeamBlue
		}
	}
}
