package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	StatsHandler(w http.ResponseWriter, _ *http.Request)
	SessionHandler(w http.ResponseWriter, r *http.Request)
}

type gameManager interface {
	Stats() usecase.Stats
	Snapshot(sessionID string) (*entity.SessionSnapshot, error)
}

type snapshotService interface {
	GetByID(ctx context.Context, id string) (*entity.SessionSnapshot, error)
}

type handlers struct {
	logger          *slog.Logger
	gameManager     gameManager
	snapshotService snapshotService
}

// NewHandlers builds the HTTP handlers. snapshotService may be nil, in which
// case session lookups are answered from the live game manager.
func NewHandlers(logger *slog.Logger, gameManager gameManager, snapshotService snapshotService) Handlers {
	return &handlers{
		logger:          logger.With("component", "rest"),
		gameManager:     gameManager,
		snapshotService: snapshotService,
	}
}

func (that *handlers) StatsHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.gameManager.Stats())
}

func (that *handlers) SessionHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "SessionHandler")

	id := r.PathValue("id")

	var (
		snapshot *entity.SessionSnapshot
		err      error
	)
	if that.snapshotService != nil {
		snapshot, err = that.snapshotService.GetByID(r.Context(), id)
	} else {
		snapshot, err = that.gameManager.Snapshot(id)
	}

	switch {
	case errors.Is(err, apperror.ErrNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case err != nil:
		log.Error("failed to get session", "sessionID", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	default:
		that.writeJSON(w, http.StatusOK, snapshot)
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "method", "writeJSON", "error", err)
	}
}
