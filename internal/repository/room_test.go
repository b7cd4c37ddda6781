package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litcards/lit-backend/internal/entity"
	"github.com/litcards/lit-backend/testing/suite"
)

func TestRoomRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Storage)

	// Given: a waiting room with one seat
	room := entity.NewRoom("R1", 6, entity.NewPlayer("p0", "c0", "Alice"))

	// When: CreateOrUpdate is called
	err := roomRepo.CreateOrUpdate(ctx, room)

	// Then: no error should be returned, and the snapshot is stored
	require.NoError(t, err)
}

func TestRoomRepository_GetByName(t *testing.T) {
	t.Run("GetByName_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.Storage)

		// Given: a stored room snapshot with hands and a captured set
		room := entity.NewRoom("R1", 6, entity.NewPlayer("p0", "c0", "Alice"))
		room.Status = entity.StatusPlaying
		room.CurrentTurnPlayerID = "p0"
		room.Players[0].Team = entity.TeamRed
		room.Players[0].Hand = []entity.Card{
			{ID: 1, Suit: entity.SuitSpades, Rank: "A", SetType: entity.SetTypeLower},
		}
		room.CapturedSets = []entity.CapturedSet{
			{Suit: entity.SuitHearts, SetType: entity.SetTypeUpper, WinningTeam: entity.TeamRed},
		}

		err := roomRepo.CreateOrUpdate(ctx, room)
		require.NoError(t, err)

		// When: GetByName is called with the existing name
		retrieved, err := roomRepo.GetByName(ctx, room.Name)

		// Then: the snapshot round-trips intact
		require.NoError(t, err)
		require.Equal(t, room.Name, retrieved.Name)
		require.Equal(t, room.Status, retrieved.Status)
		require.Equal(t, room.CurrentTurnPlayerID, retrieved.CurrentTurnPlayerID)
		require.Len(t, retrieved.Players, 1)
		assert.Equal(t, room.Players[0].Hand, retrieved.Players[0].Hand)
		assert.Equal(t, room.CapturedSets, retrieved.CapturedSets)
	})

	t.Run("GetByName_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		roomRepo := NewRoomRepository(st.Storage)

		// When: GetByName is called with a name that was never stored
		_, err := roomRepo.GetByName(ctx, "missing")

		// Then: the repository reports a missing snapshot
		require.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestRoomRepository_DeleteByName(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Storage)

	room := entity.NewRoom("R1", 6, entity.NewPlayer("p0", "c0", "Alice"))
	require.NoError(t, roomRepo.CreateOrUpdate(ctx, room))

	// When: the snapshot is deleted
	err := roomRepo.DeleteByName(ctx, room.Name)
	require.NoError(t, err)

	// Then: it can no longer be fetched
	_, err = roomRepo.GetByName(ctx, room.Name)
	require.ErrorIs(t, err, ErrRoomNotFound)
}
