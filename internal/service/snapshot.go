package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	defaultQueueSize = 256
	writeTimeout     = 2 * time.Second
)

// SnapshotService mirrors live sessions into storage off the game path.
// Record and Forget never block; when the queue is full the job is dropped.
type SnapshotService interface {
	Record(snapshot *entity.SessionSnapshot)
	Forget(sessionID string)
	Run(ctx context.Context) error

	GetByID(ctx context.Context, id string) (*entity.SessionSnapshot, error)
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, snapshot *entity.SessionSnapshot) error
	GetByID(ctx context.Context, id string) (*entity.SessionSnapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

type snapshotJob struct {
	snapshot *entity.SessionSnapshot
	forgetID string
}

type snapshotService struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	jobs        chan snapshotJob
}

func NewSnapshotService(logger *slog.Logger, sessionRepo sessionRepo, queueSize int) SnapshotService {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	return &snapshotService{
		logger:      logger.With("component", "snapshot_service"),
		sessionRepo: sessionRepo,
		jobs:        make(chan snapshotJob, queueSize),
	}
}

func (that *snapshotService) Record(snapshot *entity.SessionSnapshot) {
	that.enqueue(snapshotJob{snapshot: snapshot})
}

func (that *snapshotService) Forget(sessionID string) {
	that.enqueue(snapshotJob{forgetID: sessionID})
}

func (that *snapshotService) enqueue(job snapshotJob) {
	select {
	case that.jobs <- job:
	default:
		that.logger.Warn("snapshot queue is full, dropping job", "method", "enqueue")
	}
}

// Run applies queued jobs in order until ctx is cancelled.
func (that *snapshotService) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	log.Info("snapshot worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info("snapshot worker stopped")
			return nil
		case job := <-that.jobs:
			if err := that.apply(ctx, job); err != nil {
				log.Error("failed to mirror session", "error", err)
			}
		}
	}
}

func (that *snapshotService) apply(ctx context.Context, job snapshotJob) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if job.snapshot != nil {
		if err := that.sessionRepo.CreateOrUpdate(ctx, job.snapshot); err != nil {
			return fmt.Errorf("failed to save session %s: %w", job.snapshot.ID, err)
		}

		return nil
	}

	err := that.sessionRepo.DeleteByID(ctx, job.forgetID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("failed to delete session %s: %w", job.forgetID, err)
	}

	return nil
}

func (that *snapshotService) GetByID(ctx context.Context, id string) (*entity.SessionSnapshot, error) {
	snapshot, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve session from storage: %w", err)
	}

	return snapshot, nil
}
