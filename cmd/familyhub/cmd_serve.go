package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/saaj-family/familyhub/internal/api"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("serve: loading store: %w", err)
			}
			assistant, err := newAssistant(st, logger)
			if err != nil {
				return fmt.Errorf("serve: building assistant: %w", err)
			}

			srv := api.NewServer(st, assistant, logger)

			httpSrv := &http.Server{
				Addr:              cfg.API.ListenAddr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      cfg.Chat.Timeout + 30*time.Second,
				IdleTimeout:       120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP API server starting", "addr", cfg.API.ListenAddr, "memories", st.Len(), "chat_configured", assistant.Configured())
				if listenErr := httpSrv.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
					errCh <- fmt.Errorf("serve: HTTP server: %w", listenErr)
				}
				close(errCh)
			}()

			select {
			case <-cmd.Context().Done():
				logger.Info("shutting down")
			case startErr := <-errCh:
				if startErr != nil {
					return startErr
				}
				return nil
			}

			const shutdownTimeout = 10 * time.Second
			if shutdownErr := api.Shutdown(httpSrv, shutdownTimeout); shutdownErr != nil {
				return fmt.Errorf("serve: graceful shutdown: %w", shutdownErr)
			}

			// Drain the errCh in case ListenAndServe returned after Shutdown.
			if startErr := <-errCh; startErr != nil {
				return startErr
			}

			return nil
		},
	}
	return cmd
}
