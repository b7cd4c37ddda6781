package entity

const (
	SuitSpades   = "spades"
	SuitHearts   = "hearts"
	SuitDiamonds = "diamonds"
	SuitClubs    = "clubs"

	SetTypeLower = "lower"
	SetTypeUpper = "upper"
)

var (
	Suits = []string{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

	LowerRanks = []string{"A", "2", "3", "4", "5", "6"}
	UpperRanks = []string{"8", "9", "10", "J", "Q", "K"}
)

// Card is one of the 48 cards in play. The 7s are left out, which splits
// every suit into a lower set (A-6) and an upper set (8-K) of six cards each.
type Card struct {
	ID      int    `json:"id"`
	Suit    string `json:"suit"`
	Rank    string `json:"rank"`
	SetType string `json:"set_type"`
}

// SameSet reports whether the card belongs to the given (suit, setType) set.
func (that *Card) SameSet(suit, setType string) bool {
	return that.Suit == suit && that.SetType == setType
}

// SetRanks returns the six ranks a complete set of the given type requires.
func SetRanks(setType string) []string {
	if setType == SetTypeUpper {
		return UpperRanks
	}
	return LowerRanks
}
