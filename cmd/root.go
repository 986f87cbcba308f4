package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/learnpath/internal/api"
	"github.com/abhisek/learnpath/internal/config"
	"github.com/abhisek/learnpath/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "learnpath",
	Short:        "Track your progress through developer skill roadmaps",
	Long:         "LearnPath is a terminal client for browsing skill roadmaps and syncing checklist progress to your account.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEARNPATH_DB env var)")
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides LEARNPATH_API_URL env var)")

	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(mockServerCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveConfig reads the environment and applies --api-url. An invalid
// URL fails the command before any request is made.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	apiURL, _ := cmd.Flags().GetString("api-url")
	return cfg.WithAPIURL(apiURL)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LEARNPATH_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	flag, _ := cmd.Flags().GetString("db")
	if p := config.Load().WithDBPath(flag).DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openTraceStore opens the event store for request tracing. Tracing is
// optional: on failure a warning is printed and nil is returned.
func openTraceStore(cmd *cobra.Command) *store.Store {
	dbPath, err := resolveDBPath(cmd)
	if err == nil {
		var st *store.Store
		if st, err = store.Open(dbPath); err == nil {
			return st
		}
	}
	fmt.Fprintln(os.Stderr, "Request tracing unavailable:", err)
	return nil
}

// newClient builds an API client for cfg that traces into st when st is
// non-nil.
func newClient(cfg config.Config, st *store.Store) (*api.Client, error) {
	var opts []api.Option
	if st != nil {
		opts = append(opts, api.WithTracer(api.NewStoreTracer(st.EventRepo())))
	}
	return api.NewClient(cfg.APIURL, opts...)
}
