package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/progress"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Sign in and print your profile with per-skill completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		dump, _ := cmd.Flags().GetBool("dump")

		client, done, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		defer done()

		ctx := cmd.Context()
		if err := signIn(ctx, cmd, client); err != nil {
			return err
		}
		user, err := client.Profile(ctx)
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}

		if dump {
			cfg := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
			cfg.Dump(user)
			return nil
		}

		fmt.Printf("Name:      %s\n", user.DisplayName())
		fmt.Printf("Email:     %s\n", user.Email)
		fmt.Printf("Streak:    %d day(s)\n", user.Streak)
		if user.LastActive != "" {
			fmt.Printf("Active:    %s\n", user.LastActive)
		}

		cat := catalog.Default()
		fmt.Println()
		fmt.Printf("%-28s  %8s  %s\n", "Skill", "Items", "Complete")
		fmt.Println(strings.Repeat("─", 60))
		for _, s := range cat.All() {
			pct := progress.SkillCompletion(s, user.Progress)
			fmt.Printf("%-28s  %3d/%-4d  %3d%%  %s\n",
				truncate(s.Name, 28), progress.CompletedItems(s, user.Progress), s.TotalItems(), pct, bar(pct, 20))
		}
		return nil
	},
}

func init() {
	profileCmd.Flags().String("email", "", "Account email (password from LEARNPATH_PASSWORD)")
	profileCmd.Flags().Bool("dump", false, "Print the raw profile record")
	_ = profileCmd.MarkFlagRequired("email")
}

func bar(pct, width int) string {
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
