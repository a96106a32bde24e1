package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"falcon-odds/internal/api"
	"falcon-odds/internal/buildinfo"
	"falcon-odds/internal/config"
	"falcon-odds/internal/db"
	"falcon-odds/internal/engine"
	"falcon-odds/internal/logger"
	"falcon-odds/internal/metrics"
)

const usage = `usage:
  falcon-odds <millennium-falcon.json> <empire.json>   print the odds of success
  falcon-odds -serve <millennium-falcon.json>          run the HTTP server
  falcon-odds -seed <universe.db>                      write the example universe
  falcon-odds -version`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("falcon-odds", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprintln(stderr, usage) }
	serve := flags.Bool("serve", false, "run the HTTP server for the given mission file")
	seed := flags.String("seed", "", "write the example universe to this SQLite file and exit")
	showVersion := flags.Bool("version", false, "print version and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	switch {
	case *showVersion:
		info := buildinfo.Info()
		fmt.Fprintf(stdout, "falcon-odds %s %s %s\n", info["version"], info["commit"], info["builtAt"])
		return 0
	case *seed != "":
		if err := db.Seed(*seed, db.ExampleRoutes); err != nil {
			logger.Error("Seed", err.Error())
			return 1
		}
		logger.Success("Seed", fmt.Sprintf("Wrote %d routes to %s", len(db.ExampleRoutes), *seed))
		return 0
	case *serve:
		if flags.NArg() != 1 {
			flags.Usage()
			return 2
		}
		if err := runServer(flags.Arg(0)); err != nil {
			logger.Error("Server", err.Error())
			return 1
		}
		return 0
	}

	if flags.NArg() != 2 {
		flags.Usage()
		return 2
	}
	// stdout carries only the result.
	logger.SetOutput(stderr)
	defer logger.SetOutput(nil)
	p, err := computeFromFiles(context.Background(), flags.Arg(0), flags.Arg(1))
	if err != nil {
		logger.Error("Odds", err.Error())
		return 1
	}
	fmt.Fprintln(stdout, strconv.FormatFloat(p*100, 'f', -1, 64))
	return 0
}

// loadMission reads the mission file and builds the route network from its
// routes database.
func loadMission(ctx context.Context, path string) (*engine.Mission, error) {
	mission, err := config.ReadMission(path)
	if err != nil {
		return nil, err
	}
	database, err := db.Open(mission.RoutesDB)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	rows, err := database.LoadRoutes(ctx)
	if err != nil {
		return nil, err
	}
	routes, registry := db.BuildGraph(rows)
	logger.Info("Mission", fmt.Sprintf("%s -> %s, autonomy %d, %d planets, %d routes",
		mission.Departure, mission.Arrival, mission.Autonomy, registry.Len(), len(rows)))
	return engine.NewMission(routes, registry, mission.Autonomy, mission.Departure, mission.Arrival)
}

func computeFromFiles(ctx context.Context, missionPath, empirePath string) (float64, error) {
	m, err := loadMission(ctx, missionPath)
	if err != nil {
		return 0, err
	}
	empire, err := config.ReadEmpire(empirePath)
	if err != nil {
		return 0, err
	}
	sched, _ := empire.Schedule(m.Registry)
	res, err := m.ComputeOdds(sched, empire.Countdown)
	if err != nil {
		return 0, err
	}
	return res.Probability, nil
}

func runServer(missionPath string) error {
	logger.Banner(buildinfo.Version)
	cfg := config.Load()

	if cfg.LogDir != "" {
		f, err := logger.NewDailyFile(cfg.LogDir, "falcon-odds")
		if err != nil {
			logger.Warn("Log", fmt.Sprintf("File logging disabled: %v", err))
		} else {
			defer f.Close()
			logger.SetOutput(io.MultiWriter(os.Stdout, f))
			defer logger.SetOutput(nil)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := loadMission(ctx, missionPath)
	if err != nil {
		return fmt.Errorf("load mission: %w", err)
	}
	if !m.Resolved() {
		logger.Warn("Mission", "Departure or arrival is not on the map; every request will answer 0%")
	}

	opts := []api.Option{api.WithRateLimit(cfg.RateRPS, cfg.RateBurst)}
	if cfg.RedisURL != "" {
		rc, err := api.NewRedisCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return err
		}
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("Cache", fmt.Sprintf("Redis not reachable yet: %v", err))
		} else {
			logger.Success("Cache", "Using Redis result cache")
		}
		opts = append(opts, api.WithCache(rc))
	} else {
		opts = append(opts, api.WithCache(api.NewMemoryCache(cfg.CacheTTL)))
	}

	metrics.RegisterDefault()
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(m, opts...).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Section("Settings")
	logger.Stats("Rate limit (rps)", cfg.RateRPS)
	logger.Stats("Rate burst", cfg.RateBurst)
	logger.Stats("Cache TTL", cfg.CacheTTL)

	errCh := make(chan error, 1)
	go func() {
		logger.Server(cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Server", "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
