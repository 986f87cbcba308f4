package cmd

import (
	"fmt"

	"github.com/abhisek/learnpath/internal/selfupdate"
	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = selfupdate.DevVersion

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("learnpath", version)

		check, _ := cmd.Flags().GetBool("check")
		if !check || version == selfupdate.DevVersion {
			return nil
		}
		result, err := selfupdate.NewChecker().Check(cmd.Context(), &selfupdate.CheckInput{Version: version})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if result.UpdateAvailable {
			fmt.Printf("A newer version is available: %s (%s)\n", result.LatestVersion, result.ReleaseURL)
			fmt.Println("Run `learnpath update` to install it.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Also check GitHub for a newer release")
}
