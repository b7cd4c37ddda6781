package lit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litcards/lit-backend/internal/apperror"
	"github.com/litcards/lit-backend/internal/entity"
)

// dealCompleteSet spreads the six spades-lower cards over the three red seats.
func dealCompleteSet(room *entity.Room) {
	ranks := entity.LowerRanks
	for i, rank := range ranks {
		seat := room.PlayerByID("p" + string(rune('0'+i%3)))
		seat.Hand = append(seat.Hand, card(100+i, entity.SuitSpades, rank, entity.SetTypeLower))
	}
}

func TestTeamHasCompleteSet(t *testing.T) {
	t.Run("true when the team covers all six ranks", func(t *testing.T) {
		room := playingRoom()
		dealCompleteSet(room)

		assert.True(t, TeamHasCompleteSet(room, entity.TeamRed, entity.SuitSpades, entity.SetTypeLower))
		assert.False(t, TeamHasCompleteSet(room, entity.TeamBlue, entity.SuitSpades, entity.SetTypeLower))
	})

	t.Run("false when one rank is missing", func(t *testing.T) {
		room := playingRoom()
		dealCompleteSet(room)
		room.PlayerByID("p0").TakeCard(entity.SuitSpades, "A", entity.SetTypeLower)

		assert.False(t, TeamHasCompleteSet(room, entity.TeamRed, entity.SuitSpades, entity.SetTypeLower))
	})

	t.Run("false when a rank sits with the other team", func(t *testing.T) {
		room := playingRoom()
		dealCompleteSet(room)
		moved, ok := room.PlayerByID("p0").TakeCard(entity.SuitSpades, "A", entity.SetTypeLower)
		require.True(t, ok)
		room.PlayerByID("p3").Hand = append(room.PlayerByID("p3").Hand, moved)

		assert.False(t, TeamHasCompleteSet(room, entity.TeamRed, entity.SuitSpades, entity.SetTypeLower))
	})
}

func TestDeclareSet_Correct(t *testing.T) {
	room := playingRoom()
	dealCompleteSet(room)
	// give two teammates cards outside the set so they stay claim-eligible
	room.PlayerByID("p1").Hand = append(room.PlayerByID("p1").Hand, card(200, entity.SuitHearts, "K", entity.SetTypeUpper))
	room.PlayerByID("p2").Hand = append(room.PlayerByID("p2").Hand, card(201, entity.SuitClubs, "9", entity.SetTypeUpper))
	room.CurrentTurnPlayerID = "p3"

	captured, err := DeclareSet(room, "p0", entity.SuitSpades, entity.SetTypeLower, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// Then: the declarer's team captures the set and the declarer keeps the turn
	assert.Equal(t, entity.TeamRed, captured.WinningTeam)
	assert.Equal(t, "p0", room.CurrentTurnPlayerID)
	require.Len(t, room.CapturedSets, 1)

	// Then: no seat still holds a card of the declared set
	for _, player := range room.Players {
		assert.False(t, player.HasCardOfSet(entity.SuitSpades, entity.SetTypeLower), "seat %s", player.ID)
	}

	// Then: card-holding teammates may claim the turn, the declarer may not
	assert.False(t, room.PlayerByID("p0").CanClaimTurn)
	assert.True(t, room.PlayerByID("p1").CanClaimTurn)
	assert.True(t, room.PlayerByID("p2").CanClaimTurn)
	assert.False(t, room.PlayerByID("p3").CanClaimTurn)
}

func TestDeclareSet_Incorrect(t *testing.T) {
	t.Run("opposing seat invested in the set takes over", func(t *testing.T) {
		room := playingRoom()
		room.PlayerByID("p0").Hand = []entity.Card{card(1, entity.SuitSpades, "A", entity.SetTypeLower)}
		room.PlayerByID("p3").Hand = []entity.Card{card(2, entity.SuitSpades, "2", entity.SetTypeLower)}
		room.PlayerByID("p4").Hand = []entity.Card{card(3, entity.SuitHearts, "K", entity.SetTypeUpper)}

		captured, err := DeclareSet(room, "p0", entity.SuitSpades, entity.SetTypeLower, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		// Then: the opposing team captures the set
		assert.Equal(t, entity.TeamBlue, captured.WinningTeam)

		// Then: the only invested opposing seat holds the turn
		assert.Equal(t, "p3", room.CurrentTurnPlayerID)

		// Then: the set is stripped everywhere, p3's hand included
		assert.Empty(t, room.PlayerByID("p0").Hand)
		assert.Empty(t, room.PlayerByID("p3").Hand)
		assert.Len(t, room.PlayerByID("p4").Hand, 1)
	})

	t.Run("falls back to any opposing card holder", func(t *testing.T) {
		room := playingRoom()
		room.PlayerByID("p0").Hand = []entity.Card{card(1, entity.SuitSpades, "A", entity.SetTypeLower)}
		room.PlayerByID("p4").Hand = []entity.Card{card(2, entity.SuitHearts, "K", entity.SetTypeUpper)}

		_, err := DeclareSet(room, "p0", entity.SuitSpades, entity.SetTypeLower, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		assert.Equal(t, "p4", room.CurrentTurnPlayerID)
	})

	t.Run("other qualifying opposing seats become claim-eligible", func(t *testing.T) {
		room := playingRoom()
		room.PlayerByID("p0").Hand = []entity.Card{card(1, entity.SuitSpades, "A", entity.SetTypeLower)}
		room.PlayerByID("p3").Hand = []entity.Card{card(2, entity.SuitSpades, "2", entity.SetTypeLower)}
		room.PlayerByID("p4").Hand = []entity.Card{card(3, entity.SuitSpades, "3", entity.SetTypeLower)}

		_, err := DeclareSet(room, "p0", entity.SuitSpades, entity.SetTypeLower, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		holder := room.PlayerByID(room.CurrentTurnPlayerID)
		require.Contains(t, []string{"p3", "p4"}, holder.ID)

		other := room.PlayerByID("p3")
		if holder.ID == "p3" {
			other = room.PlayerByID("p4")
		}
		assert.False(t, holder.CanClaimTurn)
		assert.True(t, other.CanClaimTurn)
	})

	t.Run("disconnected opposing seats are skipped", func(t *testing.T) {
		room := playingRoom()
		room.PlayerByID("p0").Hand = []entity.Card{card(1, entity.SuitSpades, "A", entity.SetTypeLower)}
		room.PlayerByID("p3").Hand = []entity.Card{card(2, entity.SuitSpades, "2", entity.SetTypeLower)}
		room.PlayerByID("p3").Connected = false
		room.PlayerByID("p4").Hand = []entity.Card{card(3, entity.SuitHearts, "K", entity.SetTypeUpper)}

		_, err := DeclareSet(room, "p0", entity.SuitSpades, entity.SetTypeLower, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		assert.Equal(t, "p4", room.CurrentTurnPlayerID)
	})

	t.Run("rejected when no opposing seat holds any card", func(t *testing.T) {
		room := playingRoom()
		room.PlayerByID("p0").Hand = []entity.Card{card(1, entity.SuitSpades, "A", entity.SetTypeLower)}

		_, err := DeclareSet(room, "p0", entity.SuitSpades, entity.SetTypeLower, rand.New(rand.NewSource(1)))

		require.ErrorIs(t, err, apperror.ErrNoOpposingCards)
		assert.Empty(t, room.CapturedSets)
		assert.Equal(t, "p0", room.CurrentTurnPlayerID)
		assert.Len(t, room.PlayerByID("p0").Hand, 1)
	})
}

func TestDeclareSet_Preconditions(t *testing.T) {
	t.Run("declarer must hold a card of the set", func(t *testing.T) {
		room := playingRoom()
		room.PlayerByID("p0").Hand = []entity.Card{card(1, entity.SuitHearts, "K", entity.SetTypeUpper)}
		room.PlayerByID("p3").Hand = []entity.Card{card(2, entity.SuitSpades, "2", entity.SetTypeLower)}

		_, err := DeclareSet(room, "p0", entity.SuitSpades, entity.SetTypeLower, rand.New(rand.NewSource(1)))

		require.ErrorIs(t, err, apperror.ErrInvalidDeclare)
		assert.Empty(t, room.CapturedSets)
	})

	t.Run("a non-turn-holder may declare", func(t *testing.T) {
		room := playingRoom()
		dealCompleteSet(room)
		room.PlayerByID("p3").Hand = []entity.Card{card(2, entity.SuitHearts, "K", entity.SetTypeUpper)}
		room.CurrentTurnPlayerID = "p3"

		_, err := DeclareSet(room, "p1", entity.SuitSpades, entity.SetTypeLower, rand.New(rand.NewSource(1)))

		require.NoError(t, err)
		assert.Equal(t, "p1", room.CurrentTurnPlayerID)
	})
}

func TestUpdateWinState(t *testing.T) {
	sets := func(red, blue int) []entity.CapturedSet {
		var captured []entity.CapturedSet
		for i := 0; i < red; i++ {
			captured = append(captured, entity.CapturedSet{WinningTeam: entity.TeamRed})
		}
		for i := 0; i < blue; i++ {
			captured = append(captured, entity.CapturedSet{WinningTeam: entity.TeamBlue})
		}
		return captured
	}

	tests := []struct {
		name       string
		red, blue  int
		wantStatus string
		wantWinner string
	}{
		{name: "five to three is a red win", red: 5, blue: 3, wantStatus: entity.StatusFinished, wantWinner: entity.TeamRed},
		{name: "three to five is a blue win", red: 3, blue: 5, wantStatus: entity.StatusFinished, wantWinner: entity.TeamBlue},
		{name: "four all is a draw", red: 4, blue: 4, wantStatus: entity.StatusFinished, wantWinner: entity.WinnerDraw},
		{name: "three to two keeps playing", red: 3, blue: 2, wantStatus: entity.StatusPlaying, wantWinner: ""},
		{name: "four to three keeps playing", red: 4, blue: 3, wantStatus: entity.StatusPlaying, wantWinner: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := playingRoom()
			room.PlayerByID("p1").CanClaimTurn = true
			room.CapturedSets = sets(tt.red, tt.blue)

			UpdateWinState(room)

			assert.Equal(t, tt.wantStatus, room.Status)
			assert.Equal(t, tt.wantWinner, room.Winner)

			if tt.wantStatus == entity.StatusFinished {
				assert.Empty(t, room.CurrentTurnPlayerID)
				assert.False(t, room.PlayerByID("p1").CanClaimTurn)
			} else {
				assert.Equal(t, "p0", room.CurrentTurnPlayerID)
			}
		})
	}
}

// Card conservation: after a full deal, every card id lives in exactly one
// hand, and a capture removes exactly the six cards of the declared set.
func TestCardConservation(t *testing.T) {
	room := playingRoom()
	room.Status = entity.StatusWaiting
	require.NoError(t, Start(room, rand.New(rand.NewSource(3))))

	countCards := func() map[int]int {
		held := make(map[int]int)
		for _, player := range room.Players {
			for _, c := range player.Hand {
				held[c.ID]++
			}
		}
		return held
	}

	held := countCards()
	require.Len(t, held, DeckSize)
	for id, n := range held {
		require.Equal(t, 1, n, "card %d", id)
	}

	// find a declarer invested in spades-lower and force an adjudication
	var declarer *entity.Player
	for _, player := range room.Players {
		if player.HasCardOfSet(entity.SuitSpades, entity.SetTypeLower) {
			declarer = player
			break
		}
	}
	require.NotNil(t, declarer)

	_, err := DeclareSet(room, declarer.ID, entity.SuitSpades, entity.SetTypeLower, rand.New(rand.NewSource(4)))
	require.NoError(t, err)

	held = countCards()
	assert.Len(t, held, DeckSize-SetSize)
	for _, player := range room.Players {
		assert.False(t, player.HasCardOfSet(entity.SuitSpades, entity.SetTypeLower))
	}
}
