// Command gameserver is the CLI entrypoint: it loads the map/gameplay
// config, wires the leaderboard (Postgres, optionally Redis-cached), starts
// the HTTP façade and the tick/snapshot loops, and shuts everything down
// gracefully on SIGINT/SIGTERM. Flags are parsed with urfave/cli/v3; startup
// does godotenv load, component wiring, then a signal-handling,
// WaitGroup-bounded shutdown sequence over an http.Server with explicit
// timeouts.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/Proger1298/gaming-server/internal/app"
	"github.com/Proger1298/gaming-server/internal/config"
	"github.com/Proger1298/gaming-server/internal/httpapi"
	"github.com/Proger1298/gaming-server/internal/metrics"
	"github.com/Proger1298/gaming-server/internal/snapshot"
	"github.com/Proger1298/gaming-server/internal/spectate"
	"github.com/Proger1298/gaming-server/internal/store"
)

const (
	pgConnectTimeout    = 5 * time.Second
	redisConnectTimeout = 2 * time.Second
	cacheTTL            = 30 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", err)
	}

	cmd := &cli.Command{
		Name:  "gameserver",
		Usage: "authoritative loot-collection game server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-file", Required: true, Usage: "path to the map/gameplay config JSON"},
			&cli.StringFlag{Name: "www-root", Required: true, Usage: "directory of static client files"},
			&cli.IntFlag{Name: "tick-period", Value: 0, Usage: "ms between automatic ticks; 0 enables the manual /api/v1/game/tick endpoint instead"},
			&cli.BoolFlag{Name: "randomize-spawn-points", Value: false},
			&cli.StringFlag{Name: "state-file", Usage: "path to the persisted game-state snapshot"},
			&cli.IntFlag{Name: "save-state-period", Value: 0, Usage: "ms between periodic snapshot saves; 0 disables periodic saves (shutdown still saves once)"},
			&cli.StringFlag{Name: "http-addr", Value: ":8080"},
			&cli.DurationFlag{Name: "shutdown-timeout", Value: 10 * time.Second},
			&cli.StringFlag{Name: "redis-addr", Usage: "optional Redis address fronting the leaderboard reads"},
			&cli.BoolFlag{Name: "strict-retirement", Value: false},
			&cli.BoolFlag{Name: "debug", Value: false},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "gameserver: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return fmt.Errorf("gameserver: build logger: %w", err)
	}
	defer logger.Sync()

	loaded, err := config.Load(cmd.String("config-file"), cmd.Bool("randomize-spawn-points"))
	if err != nil {
		return fmt.Errorf("gameserver: load config: %w", err)
	}

	seed := time.Now().UnixNano()
	g, err := config.BuildGame(loaded, seed)
	if err != nil {
		return fmt.Errorf("gameserver: build game: %w", err)
	}

	leaderboard, closeLeaderboard, err := buildLeaderboard(ctx, cmd, logger)
	if err != nil {
		return fmt.Errorf("gameserver: build leaderboard: %w", err)
	}
	defer closeLeaderboard()

	application := app.New(g, leaderboard, logger, cmd.Bool("strict-retirement"), seed, seed+1)

	snap := snapshot.New(cmd.String("state-file"))
	if err := snap.EnsureDir(); err != nil {
		return fmt.Errorf("gameserver: prepare state directory: %w", err)
	}
	if err := snap.Load(application); err != nil {
		return fmt.Errorf("gameserver: load state file: %w", err)
	}

	stop := make(chan struct{})
	hub := spectate.NewHub(logger)
	go hub.Run(stop)

	tickPeriodMs := float64(cmd.Int("tick-period"))
	broadcast := func() {
		digest := buildDigest(application)
		data, err := json.Marshal(digest)
		if err != nil {
			return
		}
		hub.Broadcast(data)
	}

	server := httpapi.NewServer(application, logger, cmd.String("www-root"),
		httpapi.WithSpectateHub(hub),
		httpapi.WithManualTicksDisabled(tickPeriodMs > 0),
		httpapi.WithOnTick(broadcast),
	)

	httpServer := &http.Server{
		Addr:         cmd.String("http-addr"),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		serveErr <- httpServer.ListenAndServe()
	}()

	if tickPeriodMs > 0 {
		go runTickLoop(stop, application, tickPeriodMs, broadcast)
	}
	if saveMs := cmd.Int("save-state-period"); saveMs > 0 && cmd.String("state-file") != "" {
		go runSaveLoop(stop, snap, application, logger, time.Duration(saveMs)*time.Millisecond)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", zap.Error(err))
		}
	case s := <-sig:
		logger.Info("received shutdown signal", zap.String("signal", s.String()))
	}

	close(stop)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.Duration("shutdown-timeout"))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}

	if err := snap.Save(application); err != nil {
		logger.Warn("final state save failed", zap.Error(err))
	}

	logger.Info("gameserver stopped")
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildLeaderboard connects to the required Postgres-backed store and, if
// --redis-addr is set, wraps it with a read-through cache. A Postgres
// failure aborts startup; a Redis failure only disables the cache.
func buildLeaderboard(ctx context.Context, cmd *cli.Command, logger *zap.Logger) (app.Leaderboard, func(), error) {
	dbURL := os.Getenv("GAME_DB_URL")
	if dbURL == "" {
		logger.Warn("GAME_DB_URL not set: leaderboard persistence disabled")
		return nil, func() {}, nil
	}

	pgCtx, cancel := context.WithTimeout(ctx, pgConnectTimeout)
	defer cancel()

	pg, err := store.NewPostgres(pgCtx, dbURL)
	if err != nil {
		return nil, nil, err
	}

	var leaderboard app.Leaderboard = pg
	closeFn := func() { pg.Close() }

	if addr := cmd.String("redis-addr"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		pingCtx, pingCancel := context.WithTimeout(ctx, redisConnectTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Warn("redis unreachable, leaderboard cache disabled", zap.Error(err))
		} else {
			leaderboard = store.NewCachedLeaderboard(pg, client, cacheTTL)
			prevClose := closeFn
			closeFn = func() {
				client.Close()
				prevClose()
			}
		}
	}

	return leaderboard, closeFn, nil
}

func runTickLoop(stop <-chan struct{}, application *app.Application, periodMs float64, afterTick func()) {
	ticker := time.NewTicker(time.Duration(periodMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			application.Tick(periodMs)
			metrics.TickDuration.Observe(time.Since(start).Seconds())
			afterTick()
		case <-stop:
			return
		}
	}
}

func runSaveLoop(stop <-chan struct{}, snap *snapshot.Store, application *app.Application, logger *zap.Logger, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := snap.Save(application); err != nil {
				logger.Warn("periodic state save failed", zap.Error(err))
			}
		case <-stop:
			return
		}
	}
}

func buildDigest(application *app.Application) spectate.Digest {
	sessions := application.Sessions()
	digest := spectate.Digest{Sessions: make([]spectate.SessionDigest, 0, len(sessions))}
	for _, sess := range sessions {
		sd := spectate.SessionDigest{ID: sess.ID, MapID: sess.MapID, Dogs: make([]spectate.DogDigest, 0, len(sess.Dogs))}
		for _, d := range sess.Dogs {
			sd.Dogs = append(sd.Dogs, spectate.DogDigest{
				ID: d.ID, Name: d.Name, X: d.Position.X, Y: d.Position.Y, Score: d.Score,
			})
		}
		digest.Sessions = append(digest.Sessions, sd)
	}
	return digest
}
