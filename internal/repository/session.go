package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	sessionKeyPrefix = "session:"
	// sessionTTL bounds how long a snapshot outlives a server that never got to delete it.
	sessionTTL = time.Hour
)

var ErrSessionNotFound = fmt.Errorf("session %w", apperror.ErrNotFound)

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, snapshot *entity.SessionSnapshot) error
	GetByID(ctx context.Context, id string) (*entity.SessionSnapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, snapshot *entity.SessionSnapshot) error {
	sessionJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	err = that.client.Set(ctx, sessionKeyPrefix+snapshot.ID, sessionJSON, sessionTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.SessionSnapshot, error) {
	response, err := that.client.Get(ctx, sessionKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	var snapshot entity.SessionSnapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &snapshot, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	if deleted == 0 {
		return ErrSessionNotFound
	}

	return nil
}
