package entity

const (
	TeamUnassigned = "unassigned"
	TeamRed        = "red"
	TeamBlue       = "blue"
)

// Player is a seat in a room. ID is the stable key used for turn and admin
// references; ConnectionID is volatile and rebound when the same Name
// reconnects. Seats are never removed once created.
type Player struct {
	ID           string `json:"id"`
	ConnectionID string `json:"connection_id"`
	Name         string `json:"name"`
	Team         string `json:"team"`
	Hand         []Card `json:"hand,omitempty"`
	Connected    bool   `json:"connected"`
	CanClaimTurn bool   `json:"can_claim_turn"`
}

func NewPlayer(id, connectionID, name string) *Player {
	return &Player{
		ID:           id,
		ConnectionID: connectionID,
		Name:         name,
		Team:         TeamUnassigned,
		Connected:    true,
	}
}

// Rebind attaches a fresh connection to the seat after a disconnect.
func (that *Player) Rebind(connectionID string) {
	that.ConnectionID = connectionID
	that.Connected = true
}

// HasCard reports whether the hand contains the exact (suit, rank, setType).
func (that *Player) HasCard(suit, rank, setType string) bool {
	for i := range that.Hand {
		if that.Hand[i].Suit == suit && that.Hand[i].Rank == rank && that.Hand[i].SetType == setType {
			return true
		}
	}
	return false
}

// HasCardOfSet reports whether the hand contains any card of (suit, setType).
func (that *Player) HasCardOfSet(suit, setType string) bool {
	for i := range that.Hand {
		if that.Hand[i].SameSet(suit, setType) {
			return true
		}
	}
	return false
}

// TakeCard removes and returns the exact card from the hand.
// The second return value is false if the card is not held.
func (that *Player) TakeCard(suit, rank, setType string) (Card, bool) {
	for i := range that.Hand {
		if that.Hand[i].Suit == suit && that.Hand[i].Rank == rank && that.Hand[i].SetType == setType {
			card := that.Hand[i]
			that.Hand = append(that.Hand[:i], that.Hand[i+1:]...)
			return card, true
		}
	}
	return Card{}, false
}

// DropSet removes every card of (suit, setType) from the hand.
func (that *Player) DropSet(suit, setType string) {
	kept := that.Hand[:0]
	for i := range that.Hand {
		if !that.Hand[i].SameSet(suit, setType) {
			kept = append(kept, that.Hand[i])
		}
	}
	that.Hand = kept
}
