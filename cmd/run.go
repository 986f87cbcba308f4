package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/learnpath/internal/app"
	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/coach"
	"github.com/abhisek/learnpath/internal/llm"
	"github.com/abhisek/learnpath/internal/store"
	"github.com/spf13/cobra"
)

// runApp resolves configuration, opens the trace store, builds
// dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := openTraceStore(cmd)
	if st != nil {
		defer st.Close()
	}

	client, err := newClient(cfg, st)
	if err != nil {
		return fmt.Errorf("create API client: %w", err)
	}

	opts := app.Options{
		Client:  client,
		Catalog: catalog.Default(),
	}

	var eventRepo store.EventRepo
	if st != nil {
		eventRepo = st.EventRepo()
	}
	provider, llmCfg, err := llm.NewProviderFromEnv(ctx, eventRepo)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Study tips will be unavailable.")
	default:
		coachCfg := coach.DefaultConfig()
		coachCfg.Timeout = llmCfg.Timeout
		opts.Coach = coach.New(provider, coachCfg)
	}

	return app.Run(opts)
}
