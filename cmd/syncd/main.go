package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sonic "github.com/bytedance/sonic"

	"github.com/hooplabs/nba-sync/internal/app"
	"github.com/hooplabs/nba-sync/internal/config"
	"github.com/hooplabs/nba-sync/internal/observability"
	"github.com/hooplabs/nba-sync/internal/platform/logging"
	"github.com/hooplabs/nba-sync/internal/usecase"
)

func main() {
	kind := flag.String("kind", "", "sync kind: scoreboard, final-results, player-game-stats, players, player-season-teams, injury-report")
	date := flag.String("date", "", "civil game date YYYY-MM-DD (scoreboard; defaults to today)")
	gameID := flag.String("game", "", "provider game id (final-results, player-game-stats)")
	season := flag.Int("season", 0, "season starting year (players, player-season-teams; defaults to current)")
	jobID := flag.String("job", "", "job id recorded on conflict rows")
	includePlayers := flag.Bool("include-players", false, "also sync player lines during final-results")
	flag.Parse()

	if *kind == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("shutdown uptrace", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Error("stop pyroscope", "error", err)
		}
	}()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("close app", "error", err)
		}
	}()

	summary, err := application.Sync.RunSync(ctx, *kind, usecase.SyncParams{
		Date:           *date,
		GameID:         *gameID,
		Season:         *season,
		JobID:          *jobID,
		IncludePlayers: *includePlayers,
	})
	if err != nil {
		logger.ErrorContext(ctx, "sync run failed", "kind", *kind, "error", err)
		os.Exit(1)
	}

	out, err := sonic.Marshal(summary)
	if err != nil {
		logger.Error("encode summary", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
