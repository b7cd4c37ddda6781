package apperror

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomAlreadyExists  = errors.New("room already exists")
	ErrRoomFull           = errors.New("room is full")
	ErrRoomNotFull        = errors.New("room is not full yet")
	ErrNameTaken          = errors.New("player name is already taken")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrNotAdmin           = errors.New("only the room admin can do that")
	ErrTeamsUnbalanced    = errors.New("teams are not balanced")
	ErrTeamFull           = errors.New("team is full")
	ErrInvalidRequest     = errors.New("invalid card request")
	ErrInvalidDeclare     = errors.New("invalid declaration")
	ErrIneligibleClaim    = errors.New("not eligible to claim the turn")
	ErrNoOpposingCards    = errors.New("no opposing player holds any cards")
	ErrGameNotStarted     = errors.New("game is not started")
	ErrGameAlreadyStarted = errors.New("game is already started")
	ErrGameFinished       = errors.New("game is already finished")
)
