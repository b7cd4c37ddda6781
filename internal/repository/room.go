package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/litcards/lit-backend/internal/entity"
)

var ErrRoomNotFound = errors.New("room snapshot not found")

// RoomRepository stores room snapshots keyed by room name. The in-memory
// registry stays authoritative; these snapshots exist for inspection and
// recovery tooling.
type RoomRepository interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByName(ctx context.Context, name string) (*entity.Room, error)
	DeleteByName(ctx context.Context, name string) error
}

type dbRoom struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) RoomRepository {
	return &dbRoom{
		client: client,
	}
}

func (that *dbRoom) CreateOrUpdate(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	roomKey := "room:" + room.Name
	if err = that.client.Set(ctx, roomKey, roomJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByName(ctx context.Context, name string) (*entity.Room, error) {
	roomKey := "room:" + name

	response, err := that.client.Get(ctx, roomKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by name: %w", err)
	}

	var room entity.Room
	if err = json.Unmarshal([]byte(response), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &room, nil
}

func (that *dbRoom) DeleteByName(ctx context.Context, name string) error {
	roomKey := "room:" + name

	if err := that.client.Del(ctx, roomKey).Err(); err != nil {
		return fmt.Errorf("failed to delete room by name: %w", err)
	}

	return nil
}
