package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/EyalShechtman/AWSHackDay/internal/api"
	"github.com/EyalShechtman/AWSHackDay/internal/api/handlers"
	"github.com/EyalShechtman/AWSHackDay/internal/scheduler"
	"github.com/EyalShechtman/AWSHackDay/internal/scheduler/jobs"
)

// apiCmd serves the dashboard API
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the dashboard API and websocket state stream",
	Long: `Serves the dashboard API.

Endpoints:
  GET  /health        health check
  GET  /api/session   session state snapshot
  PUT  /api/strategy  update the investment strategy
  POST /api/cycle     start an investment cycle (409 while one runs)
  GET  /ws            websocket state stream

When CYCLE_SCHEDULE is set, cycles also run unattended on that cron
expression.`,
	RunE: runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := wire(ctx)
	if err != nil {
		return err
	}

	stream := api.NewStream(a.store, a.log)
	sessionHandler := handlers.NewSessionHandler(a.store, a.orchestrator, a.log)
	router := api.NewRouter(sessionHandler, stream, a.log)
	server := api.New(a.cfg, a.log, router)

	// Optional unattended cycles
	var sched *scheduler.Scheduler
	if a.cfg.Cycle.Schedule != "" {
		sched = scheduler.New(a.log)
		if err := sched.AddJob(jobs.NewCycleJob(a.orchestrator, a.cfg.Cycle.Schedule)); err != nil {
			return fmt.Errorf("failed to schedule cycle job: %w", err)
		}
		sched.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.WithField("signal", sig.String()).Info("Shutting down")
	}

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
