package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/tictactoe-arena/internal/config"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-arena/internal/service"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-arena/transport/rest"
	"github.com/rocketscienceinc/tictactoe-arena/transport/websocket"
)

const snapshotQueueSize = 1024

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	// stays nil when the mirror is disabled
	var snapshots service.SnapshotService
	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisClient(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		snapshots = service.NewSnapshotService(logger, repository.NewSessionRepository(redisStorage), snapshotQueueSize)
		go func() {
			if err := snapshots.Run(ctx); err != nil {
				log.Error("snapshot worker failed", "error", err)
			}
		}()
	}

	gameManager := usecase.NewGameManager(logger, newGameOptions(conf), snapshots)
	defer gameManager.Shutdown()

	handlers := rest.NewHandlers(logger, gameManager, snapshots)
	router := rest.NewRouter(handlers, websocket.New(logger, gameManager))

	log.Info("Starting HTTP server", "port", conf.Port)
	if err := rest.Start(ctx, conf.Port, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newGameOptions(conf *config.Config) usecase.Options {
	return usecase.Options{
		CountdownFrom: conf.Game.CountdownFrom,
		TickInterval:  conf.Game.TickInterval,
		ResetDelay:    conf.Game.ResetDelay,
		ChatPolicy:    conf.Game.ChatPolicy,
		MaxSessions:   conf.Game.MaxSessions,
		Clock:         clockwork.NewRealClock(),
	}
}
