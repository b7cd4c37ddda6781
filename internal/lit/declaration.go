package lit

import (
	"fmt"
	"math/rand"

	"github.com/litcards/lit-backend/internal/apperror"
	"github.com/litcards/lit-backend/internal/entity"
)

// TeamHasCompleteSet reports whether the union of the team's hands covers all
// six ranks of the (suit, setType) set.
func TeamHasCompleteSet(room *entity.Room, team, suit, setType string) bool {
	for _, rank := range entity.SetRanks(setType) {
		found := false
		for _, player := range room.Teammates(team) {
			if player.HasCard(suit, rank, setType) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DeclareSet adjudicates a set declaration by any connected seat. A correct
// declaration credits the declarer's team and the declarer keeps the turn; an
// incorrect one credits the opposing team and the turn moves to a uniformly
// random opposing seat that can act. Either way the captured set's cards are
// stripped from every hand and the win condition is re-evaluated.
func DeclareSet(room *entity.Room, declarerID, suit, setType string, rng *rand.Rand) (entity.CapturedSet, error) {
	if err := confirmPlaying(room); err != nil {
		return entity.CapturedSet{}, err
	}

	declarer := room.PlayerByID(declarerID)
	if declarer == nil || !declarer.Connected {
		return entity.CapturedSet{}, apperror.ErrPlayerNotFound
	}

	if !declarer.HasCardOfSet(suit, setType) {
		return entity.CapturedSet{}, fmt.Errorf("%w: you hold no card of the %s %s set", apperror.ErrInvalidDeclare, setType, suit)
	}

	correct := TeamHasCompleteSet(room, declarer.Team, suit, setType)

	opposing := entity.TeamBlue
	if declarer.Team == entity.TeamBlue {
		opposing = entity.TeamRed
	}

	if correct {
		room.ClearClaims()
		room.CurrentTurnPlayerID = declarer.ID
		for _, mate := range room.Teammates(declarer.Team) {
			if mate.ID != declarer.ID && mate.Connected && len(mate.Hand) > 0 {
				mate.CanClaimTurn = true
			}
		}
	} else {
		// Prefer opposing seats invested in the declared set; fall back to
		// any opposing seat still holding cards.
		var holders, invested []*entity.Player
		for _, opponent := range room.Teammates(opposing) {
			if !opponent.Connected || len(opponent.Hand) == 0 {
				continue
			}
			holders = append(holders, opponent)
			if opponent.HasCardOfSet(suit, setType) {
				invested = append(invested, opponent)
			}
		}

		if len(holders) == 0 {
			return entity.CapturedSet{}, apperror.ErrNoOpposingCards
		}

		pool := invested
		if len(pool) == 0 {
			pool = holders
		}

		room.ClearClaims()
		next := pool[rng.Intn(len(pool))]
		room.CurrentTurnPlayerID = next.ID
		for _, opponent := range pool {
			if opponent.ID != next.ID {
				opponent.CanClaimTurn = true
			}
		}
	}

	winningTeam := declarer.Team
	if !correct {
		winningTeam = opposing
	}

	captured := entity.CapturedSet{Suit: suit, SetType: setType, WinningTeam: winningTeam}
	room.CapturedSets = append(room.CapturedSets, captured)

	for _, player := range room.Players {
		player.DropSet(suit, setType)
	}

	if correct {
		room.LastAction = fmt.Sprintf("%s declared the %s %s set correctly for team %s", declarer.Name, setType, suit, winningTeam)
	} else {
		room.LastAction = fmt.Sprintf("%s declared the %s %s set incorrectly, team %s captures it", declarer.Name, setType, suit, winningTeam)
	}

	UpdateWinState(room)

	return captured, nil
}

// UpdateWinState applies the win rule after a capture: a team wins outright
// at five sets; once all eight are captured the higher count wins and a 4-4
// split is a draw. On a decision the room moves to finished, the turn is
// cleared, and every claim flag is dropped.
func UpdateWinState(room *entity.Room) {
	red := room.SetsWonBy(entity.TeamRed)
	blue := room.SetsWonBy(entity.TeamBlue)

	majority := TotalSets/2 + 1

	var winner string
	switch {
	case red >= majority:
		winner = entity.TeamRed
	case blue >= majority:
		winner = entity.TeamBlue
	case red+blue == TotalSets:
		switch {
		case red > blue:
			winner = entity.TeamRed
		case blue > red:
			winner = entity.TeamBlue
		default:
			winner = entity.WinnerDraw
		}
	default:
		return
	}

	room.Status = entity.StatusFinished
	room.Winner = winner
	room.CurrentTurnPlayerID = ""
	room.ClearClaims()

	if winner == entity.WinnerDraw {
		room.LastAction = "game over: draw"
	} else {
		room.LastAction = fmt.Sprintf("game over: team %s wins %d-%d", winner, max(red, blue), min(red, blue))
	}
}
