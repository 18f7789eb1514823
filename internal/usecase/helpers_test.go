package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const waitTimeout = time.Second

type fakeConn struct {
	id     string
	open   atomic.Bool
	events chan entity.Event
}

func newFakeConn(id string) *fakeConn {
	conn := &fakeConn{id: id, events: make(chan entity.Event, 64)}
	conn.open.Store(true)

	return conn
}

func (that *fakeConn) ID() string { return that.id }

func (that *fakeConn) IsOpen() bool { return that.open.Load() }

func (that *fakeConn) Close() { that.open.Store(false) }

func (that *fakeConn) Send(event entity.Event) error {
	if !that.IsOpen() {
		return apperror.ErrConnectionClosed
	}

	that.events <- event

	return nil
}

func (that *fakeConn) next(t *testing.T) entity.Event {
	t.Helper()

	select {
	case event := <-that.events:
		return event
	case <-time.After(waitTimeout):
		t.Fatalf("connection %s: no event received", that.id)
		return nil
	}
}

func (that *fakeConn) expectText(t *testing.T, eventType, message string) {
	t.Helper()

	require.Equal(t, entity.TextEvent{Type: eventType, Message: message}, that.next(t))
}

func (that *fakeConn) expectUpdate(t *testing.T) entity.UpdateEvent {
	t.Helper()

	event := that.next(t)
	update, ok := event.(entity.UpdateEvent)
	require.Truef(t, ok, "expected update, got %#v", event)

	return update
}

func (that *fakeConn) expectNothing(t *testing.T) {
	t.Helper()

	select {
	case event := <-that.events:
		t.Fatalf("connection %s: unexpected event %#v", that.id, event)
	case <-time.After(50 * time.Millisecond):
	}
}

type mockRecorder struct {
	mock.Mock
}

func (that *mockRecorder) Record(snapshot *entity.SessionSnapshot) {
	that.Called(snapshot)
}

func (that *mockRecorder) Forget(sessionID string) {
	that.Called(sessionID)
}

func newTestManager(t *testing.T, opts Options, recorder snapshotRecorder) (*GameManager, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClock()
	opts.Clock = clock

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewGameManager(logger, opts, recorder), clock
}

// advance waits for a pending timer and moves the clock past it.
func advance(t *testing.T, clock *clockwork.FakeClock, d time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(d)
}

func intPtr(v int) *int {
	return &v
}

func moveMsg(row, col int) *entity.Inbound {
	return &entity.Inbound{Type: entity.InboundMove, Row: intPtr(row), Col: intPtr(col)}
}

func chatMsg(text string) *entity.Inbound {
	return &entity.Inbound{Type: entity.InboundChat, Message: text}
}

// pair connects two fresh connections and drains the pairing announcements.
func pair(t *testing.T, manager *GameManager, first, second *fakeConn) {
	t.Helper()

	require.NoError(t, manager.Connect(first))
	first.expectText(t, entity.EventMessage, msgFindingPlayer)

	require.NoError(t, manager.Connect(second))
	require.Equal(t, entity.NewInitEvent(entity.PlayerX), first.next(t))
	first.expectText(t, entity.EventMessage, msgGameFound)
	require.Equal(t, entity.NewInitEvent(entity.PlayerO), second.next(t))
	second.expectText(t, entity.EventMessage, msgGameFound)
}

// playUntilStarted runs the countdown to completion and drains it from both connections.
func playUntilStarted(t *testing.T, clock *clockwork.FakeClock, opts Options, conns ...*fakeConn) {
	t.Helper()

	for k := opts.CountdownFrom; k >= 1; k-- {
		advance(t, clock, opts.TickInterval)
		for _, conn := range conns {
			conn.expectText(t, entity.EventCountdown, countdownText(k))
		}
	}

	advance(t, clock, opts.TickInterval)
	for _, conn := range conns {
		update := conn.expectUpdate(t)
		require.Equal(t, entity.NewUpdateEvent(entity.Board{}, entity.PlayerX, nil), update)
	}
}

func countdownText(k int) string {
	return fmt.Sprintf(msgCountdownFmt, k)
}
