package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pvlkh/rostrum/internal/transcript"
	"github.com/pvlkh/rostrum/web/handlers"
)

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Server port (default: from config, 8184)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := servePort
		if port == 0 {
			port = appConfig.Server.Port
		}

		eng, pool, store, err := buildEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		if pool.Configured() {
			slog.Info("Vault active", "keys", pool.Size())
		} else {
			slog.Warn("No vault configured; sessions need a manual key")
		}

		sessions := transcript.NewManager()
		h := handlers.New(eng, pool, store, sessions)

		addr := fmt.Sprintf(":%d", port)
		server := &http.Server{
			Addr:    addr,
			Handler: h.Router(),
		}

		// Handle shutdown
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			slog.Info("Shutting down...")
			server.Close()
		}()

		slog.Info("Starting rostrum web server", "url", fmt.Sprintf("http://localhost%s", addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}
