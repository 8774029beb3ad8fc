package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tubesort/internal/apihandlers"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run tubesort as an HTTP API server",
	Long: `Starts an HTTP server exposing channel registration and categorized video
listings as a JSON API. Requests under /api/v1 need a session token issued by
"tubesort user create".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = appInstance.Config.Server.Addr
		}

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.Default() // Includes logger and recovery middleware

		var sessions apihandlers.TokenVerifier
		if tm, err := appInstance.Sessions(); err == nil {
			sessions = tm
		} else {
			log.Warnf("API routes will reject all requests: %v", err)
		}
		apihandlers.RegisterRoutes(router, apihandlers.NewAPIHandler(appInstance), sessions)

		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Infof("Starting tubesort API server on http://%s", addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to run API server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down API server: %w", err)
		}
		log.Info("tubesort API server stopped.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on, e.g. '0.0.0.0:8080' (default from server.addr)")
}
