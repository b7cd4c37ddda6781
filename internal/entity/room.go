package entity

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"

	WinnerDraw = "draw"
)

// CapturedSet records one adjudicated declaration.
type CapturedSet struct {
	Suit        string `json:"suit"`
	SetType     string `json:"set_type"`
	WinningTeam string `json:"winning_team"`
}

// Room is the authoritative state of one game. Players is an ordered,
// fixed-capacity seat list; seats are appended on join and never removed.
type Room struct {
	Name                string        `json:"name"`
	Players             []*Player     `json:"players"`
	CurrentTurnPlayerID string        `json:"current_turn_player_id,omitempty"`
	CapturedSets        []CapturedSet `json:"captured_sets"`
	Status              string        `json:"status"`
	Winner              string        `json:"winner,omitempty"`
	AdminID             string        `json:"admin_id"`
	LastAction          string        `json:"last_action,omitempty"`
	PlayerCount         int           `json:"player_count"`
}

func NewRoom(name string, playerCount int, creator *Player) *Room {
	return &Room{
		Name:        name,
		Players:     []*Player{creator},
		Status:      StatusWaiting,
		AdminID:     creator.ID,
		PlayerCount: playerCount,
	}
}

// Clone deep-copies the room: seats, hands and captured sets included. The
// registry hands clones to the transport layer so broadcasts never read a
// room that another action is mutating.
func (that *Room) Clone() *Room {
	clone := *that

	clone.Players = make([]*Player, len(that.Players))
	for i, player := range that.Players {
		seat := *player
		seat.Hand = append([]Card(nil), player.Hand...)
		clone.Players[i] = &seat
	}

	clone.CapturedSets = append([]CapturedSet(nil), that.CapturedSets...)

	return &clone
}

func (that *Room) IsWaiting() bool  { return that.Status == StatusWaiting }
func (that *Room) IsPlaying() bool  { return that.Status == StatusPlaying }
func (that *Room) IsFinished() bool { return that.Status == StatusFinished }

func (that *Room) IsFull() bool {
	return len(that.Players) >= that.PlayerCount
}

// TeamSize is the number of seats in a room's half, playerCount/2.
func (that *Room) TeamSize() int {
	return that.PlayerCount / 2
}

// PlayerByID finds a seat by its stable id.
func (that *Room) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}
	return nil
}

// PlayerByConnectionID finds a seat by its current connection.
func (that *Room) PlayerByConnectionID(connectionID string) *Player {
	for _, player := range that.Players {
		if player.ConnectionID == connectionID {
			return player
		}
	}
	return nil
}

// PlayerByName finds a seat by its stable name key.
func (that *Room) PlayerByName(name string) *Player {
	for _, player := range that.Players {
		if player.Name == name {
			return player
		}
	}
	return nil
}

// TeamCount counts the seats assigned to a team.
func (that *Room) TeamCount(team string) int {
	count := 0
	for _, player := range that.Players {
		if player.Team == team {
			count++
		}
	}
	return count
}

// Teammates returns every seat on the given team.
func (that *Room) Teammates(team string) []*Player {
	var players []*Player
	for _, player := range that.Players {
		if player.Team == team {
			players = append(players, player)
		}
	}
	return players
}

// ClearClaims resets every seat's claim-eligibility flag. A fresh action
// supersedes any pending claim window.
func (that *Room) ClearClaims() {
	for _, player := range that.Players {
		player.CanClaimTurn = false
	}
}

// NextConnectedAfter walks the seat list in seating order starting after the
// seat with the given id and returns the first connected seat. It returns nil
// when no other seat is connected.
func (that *Room) NextConnectedAfter(id string) *Player {
	start := -1
	for i, player := range that.Players {
		if player.ID == id {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	for offset := 1; offset < len(that.Players); offset++ {
		candidate := that.Players[(start+offset)%len(that.Players)]
		if candidate.Connected {
			return candidate
		}
	}
	return nil
}

// FirstConnected returns the first connected seat in seating order, if any.
func (that *Room) FirstConnected() *Player {
	for _, player := range that.Players {
		if player.Connected {
			return player
		}
	}
	return nil
}

// SetsWonBy counts the captured sets credited to a team.
func (that *Room) SetsWonBy(team string) int {
	count := 0
	for i := range that.CapturedSets {
		if that.CapturedSets[i].WinningTeam == team {
			count++
		}
	}
	return count
}
