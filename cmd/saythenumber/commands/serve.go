package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"saythenumber/api"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the submit, status, history and metrics endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Attempts outlive the request that started them; Close cancels them.
			a := buildApp(context.Background(), cfg, logger)
			defer a.Close()

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr: fmt.Sprintf(":%d", cfg.Port),
				Handler: api.NewRouter(api.Dependencies{
					Orchestrator: a.orch,
					History:      a.recorder,
					Exporter:     a.exporter,
					Metrics:      a.collector.Handler(),
					Logger:       logger.Named("api"),
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("🚀 API listening", zap.String("addr", srv.Addr), zap.String("service", cfg.APIURL))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}

			logger.Info("Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := a.orch.Wait(shutdownCtx); err != nil {
				logger.Warn("Cancelling in-flight attempt", zap.Error(err))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default $PORT or 8080)")
	return cmd
}
