package lit

import (
	"fmt"
	"math/rand"

	"github.com/litcards/lit-backend/internal/apperror"
	"github.com/litcards/lit-backend/internal/entity"
)

// Start deals a fresh game into a full, team-balanced room and hands the
// first turn to a uniformly random seat. The room is left untouched on error.
func Start(room *entity.Room, rng *rand.Rand) error {
	if room.IsPlaying() {
		return apperror.ErrGameAlreadyStarted
	}

	if room.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !room.IsFull() {
		return apperror.ErrRoomNotFull
	}

	if room.TeamCount(entity.TeamRed) != room.TeamSize() || room.TeamCount(entity.TeamBlue) != room.TeamSize() {
		return apperror.ErrTeamsUnbalanced
	}

	deck := BuildDeck()
	Shuffle(deck, rng)

	if err := Deal(deck, room.Players); err != nil {
		return err
	}

	first := room.Players[rng.Intn(len(room.Players))]
	room.CurrentTurnPlayerID = first.ID
	room.Status = entity.StatusPlaying
	room.LastAction = fmt.Sprintf("game started, %s goes first", first.Name)

	return nil
}

// ValidateRequest applies the card-request legality rules. The requester may
// only ask an opposing, non-empty-handed seat for a card they do not already
// hold, in a set they are already invested in.
func ValidateRequest(requester, target *entity.Player, suit, rank, setType string) error {
	if target.Team == requester.Team || target.Team == entity.TeamUnassigned {
		return fmt.Errorf("%w: %s is not on the opposing team", apperror.ErrInvalidRequest, target.Name)
	}

	if len(target.Hand) == 0 {
		return fmt.Errorf("%w: %s has no cards", apperror.ErrInvalidRequest, target.Name)
	}

	if requester.HasCard(suit, rank, setType) {
		return fmt.Errorf("%w: you already hold the %s of %s", apperror.ErrInvalidRequest, rank, suit)
	}

	if !requester.HasCardOfSet(suit, setType) {
		return fmt.Errorf("%w: you hold no card of the %s %s set", apperror.ErrInvalidRequest, setType, suit)
	}

	return nil
}

// RequestCard executes one card request by the current turn holder against an
// opposing seat. On a hit the card moves to the requester, who keeps the
// turn; on a miss the turn passes to the asked seat. It returns whether the
// card changed hands.
func RequestCard(room *entity.Room, requesterID, targetID, suit, rank, setType string) (bool, error) {
	if err := confirmPlaying(room); err != nil {
		return false, err
	}

	requester := room.PlayerByID(requesterID)
	if requester == nil {
		return false, apperror.ErrPlayerNotFound
	}

	target := room.PlayerByID(targetID)
	if target == nil {
		return false, apperror.ErrPlayerNotFound
	}

	if room.CurrentTurnPlayerID != requester.ID {
		return false, apperror.ErrNotYourTurn
	}

	if err := ValidateRequest(requester, target, suit, rank, setType); err != nil {
		return false, err
	}

	room.ClearClaims()

	card, ok := target.TakeCard(suit, rank, setType)
	if !ok {
		room.CurrentTurnPlayerID = target.ID
		room.LastAction = fmt.Sprintf("%s asked %s for the %s of %s and missed", requester.Name, target.Name, rank, suit)
		return false, nil
	}

	requester.Hand = append(requester.Hand, card)
	room.LastAction = fmt.Sprintf("%s took the %s of %s from %s", requester.Name, rank, suit, target.Name)

	return true, nil
}

// ClaimTurn hands the turn to a claim-eligible seat and closes the claim
// window for everyone else.
func ClaimTurn(room *entity.Room, playerID string) error {
	if err := confirmPlaying(room); err != nil {
		return err
	}

	player := room.PlayerByID(playerID)
	if player == nil {
		return apperror.ErrPlayerNotFound
	}

	if !player.Connected || !player.CanClaimTurn {
		return apperror.ErrIneligibleClaim
	}

	room.ClearClaims()
	room.CurrentTurnPlayerID = player.ID
	room.LastAction = fmt.Sprintf("%s claimed the turn", player.Name)

	return nil
}

func confirmPlaying(room *entity.Room) error {
	switch {
	case room.IsWaiting():
		return apperror.ErrGameNotStarted
	case room.IsFinished():
		return apperror.ErrGameFinished
	default:
		return nil
	}
}
