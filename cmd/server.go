package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "task-marketplace.com/task-marketplace/internal/configs"
	httpapi "task-marketplace.com/task-marketplace/internal/http"
	"task-marketplace.com/task-marketplace/internal/identity"
	repository "task-marketplace.com/task-marketplace/internal/repositories"
	"task-marketplace.com/task-marketplace/internal/services"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long:  "Starts the marketplace HTTP API and the scheduled invariant audit",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		db, err := config.NewDatabase(cfg)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}

		locker, closeLocker, err := config.NewTaskLocker(cfg)
		if err != nil {
			return err
		}
		defer closeLocker()

		repos := repository.NewRepositories(db)

		taskService := services.NewTaskService(repos, locker, logger)
		offerService := services.NewOfferService(repos, locker, logger)
		completionService := services.NewCompletionService(repos, locker, logger)

		audit := services.NewAuditService(repos, logger)
		if cfg.AuditSchedule != "" {
			if err := audit.Start(cfg.AuditSchedule); err != nil {
				return err
			}
		}

		e := echo.New()
		e.HideBanner = true

		handler := httpapi.NewHandler(taskService, offerService, completionService)
		httpapi.Register(e, handler, identity.NewJWTDirectory(cfg.JWTSecret), cfg.RateLimit, logger)

		go func() {
			logger.Printf("HTTP server listening on %s (db=%s, locks=%s)", cfg.AppURL, cfg.DatabaseDriver, cfg.LockBackend)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("server stopped: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(ctx)
		audit.Shutdown(ctx)

		logger.Println("HTTP server and audit scheduler shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
