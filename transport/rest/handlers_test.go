package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

type mockGameManager struct {
	mock.Mock
}

func (that *mockGameManager) Stats() usecase.Stats {
	return that.Called().Get(0).(usecase.Stats)
}

func (that *mockGameManager) Snapshot(sessionID string) (*entity.SessionSnapshot, error) {
	args := that.Called(sessionID)

	snapshot, _ := args.Get(0).(*entity.SessionSnapshot)

	return snapshot, args.Error(1)
}

type mockSnapshotService struct {
	mock.Mock
}

func (that *mockSnapshotService) GetByID(ctx context.Context, id string) (*entity.SessionSnapshot, error) {
	args := that.Called(ctx, id)

	snapshot, _ := args.Get(0).(*entity.SessionSnapshot)

	return snapshot, args.Error(1)
}

func newRouter(manager gameManager, snapshots snapshotService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ws := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	return NewRouter(NewHandlers(logger, manager, snapshots), ws)
}

func serve(handler http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandlers_Ping(t *testing.T) {
	rec := serve(newRouter(&mockGameManager{}, nil), "/ping")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestHandlers_Stats(t *testing.T) {
	// Given: a manager with one session and a waiting player
	manager := &mockGameManager{}
	manager.On("Stats").Return(usecase.Stats{ActiveSessions: 1, Waiting: true}).Once()

	// When: requesting stats
	rec := serve(newRouter(manager, nil), "/stats")

	// Then: the counts are returned as JSON
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"active_sessions":1,"waiting":true}`, rec.Body.String())
	manager.AssertExpectations(t)
}

func TestHandlers_Session(t *testing.T) {
	t.Run("Served from the mirror when enabled", func(t *testing.T) {
		// Given: a mirrored snapshot
		snapshots := &mockSnapshotService{}
		snapshots.On("GetByID", mock.Anything, "abc").
			Return(&entity.SessionSnapshot{ID: "abc", Phase: entity.PhasePlaying}, nil).
			Once()

		// When: requesting it
		rec := serve(newRouter(&mockGameManager{}, snapshots), "/sessions/abc")

		// Then: it is returned
		require.Equal(t, http.StatusOK, rec.Code)
		var snapshot entity.SessionSnapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		assert.Equal(t, "abc", snapshot.ID)
		assert.Equal(t, entity.PhasePlaying, snapshot.Phase)
		snapshots.AssertExpectations(t)
	})

	t.Run("Served from the live manager without a mirror", func(t *testing.T) {
		manager := &mockGameManager{}
		manager.On("Snapshot", "abc").Return(&entity.SessionSnapshot{ID: "abc"}, nil).Once()

		rec := serve(newRouter(manager, nil), "/sessions/abc")

		require.Equal(t, http.StatusOK, rec.Code)
		manager.AssertExpectations(t)
	})

	t.Run("Unknown session", func(t *testing.T) {
		manager := &mockGameManager{}
		manager.On("Snapshot", "nope").Return(nil, apperror.ErrNotFound).Once()

		rec := serve(newRouter(manager, nil), "/sessions/nope")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Storage failure", func(t *testing.T) {
		snapshots := &mockSnapshotService{}
		snapshots.On("GetByID", mock.Anything, "abc").Return(nil, assert.AnError).Once()

		rec := serve(newRouter(&mockGameManager{}, snapshots), "/sessions/abc")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestNewRouter_MountsWebsocket(t *testing.T) {
	rec := serve(newRouter(&mockGameManager{}, nil), "/ws")

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
