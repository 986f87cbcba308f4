package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhisek/learnpath/internal/mockapi"
	"github.com/spf13/cobra"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run an in-memory backend for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		seed, _ := cmd.Flags().GetBool("seed")

		backend := mockapi.New()
		if seed {
			if err := backend.AddUser("Demo Learner", "demo@learnpath.dev", "password"); err != nil {
				return fmt.Errorf("seed user: %w", err)
			}
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           backend,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		fmt.Printf("Mock backend listening on http://%s\n", addr)
		if seed {
			fmt.Println("Seeded account: demo@learnpath.dev / password")
		}

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	mockServerCmd.Flags().String("addr", "localhost:5000", "Listen address")
	mockServerCmd.Flags().Bool("seed", false, "Create a demo account on startup")
}
