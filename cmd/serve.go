package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stockrating/clients/http_client"
	"stockrating/config"
	"stockrating/middleware"
	"stockrating/routes"
	"stockrating/templates"
)

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the HTML front end and JSON API. Stops gracefully on SIGINT or SIGTERM.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := setupLogger(cfg.LogLevel); err != nil {
		return err
	}
	defer zap.L().Sync()

	setupSentry(cfg)
	defer sentry.Flush(2 * time.Second)

	cleanup := setupServices(cmd.Context(), cfg)
	defer cleanup()

	router, err := newRouter(cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	var scheduler *cron.Cron
	if cfg.KeepAliveURL != "" {
		scheduler, err = startKeepAlive(cfg.KeepAliveURL, cfg.KeepAliveSchedule)
		if err != nil {
			return err
		}
	}

	done := GracefulShutdown(server, scheduler)

	zap.L().Info("Starting server", zap.String("port", cfg.Port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zap.L().Error("Error starting server", zap.Error(err))
		return err
	}
	<-done
	return nil
}

func newRouter(cfg *config.Config) (*gin.Engine, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := templates.Load()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(middleware.CORSMiddleware())

	routes.Routes(router)
	return router, nil
}

// GracefulShutdown handles graceful shutdown of the server and scheduler.
// The returned channel is closed once the server has stopped.
func GracefulShutdown(server *http.Server, scheduler *cron.Cron) <-chan struct{} {
	done := make(chan struct{})
	stopper := make(chan os.Signal, 1)
	// Listen for interrupt and SIGTERM signals
	signal.Notify(stopper, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer close(done)
		<-stopper
		zap.L().Info("Shutting down gracefully...")

		if scheduler != nil {
			scheduler.Stop()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			zap.L().Error("Server shutdown failed", zap.Error(err))
			return
		}
		zap.L().Info("Server exited gracefully")
	}()

	return done
}

// startKeepAlive pings url on schedule until the returned scheduler is
// stopped.
func startKeepAlive(url, schedule string) (*cron.Cron, error) {
	client := http_client.NewClient("", 10*time.Second)
	scheduler := cron.New()

	_, err := scheduler.AddFunc(schedule, func() {
		resp, err := client.R().Get(url)
		if err != nil {
			zap.L().Error("Error pinging keep-alive URL", zap.Error(err))
			return
		}
		zap.L().Debug("Keep-alive response", zap.Int("status", resp.StatusCode()))
	})
	if err != nil {
		return nil, fmt.Errorf("error scheduling keep-alive: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}
