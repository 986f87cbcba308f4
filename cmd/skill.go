package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/spf13/cobra"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse the built-in skill catalog",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills (optionally filtered by category)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		cat := catalog.Default()

		skills := cat.All()
		if category != "" {
			skills = cat.ByCategory(category)
			if len(skills) == 0 {
				return fmt.Errorf("no skills found for category %q (have: %s)",
					category, strings.Join(cat.Categories(), ", "))
			}
		}

		fmt.Printf("%-16s  %-28s  %-12s  %5s  %5s\n",
			"Key", "Name", "Category", "Steps", "Items")
		fmt.Println(strings.Repeat("─", 74))

		for _, s := range skills {
			fmt.Printf("%-16s  %-28s  %-12s  %5d  %5d\n",
				s.Key, truncate(s.Name, 28), s.Category, len(s.Roadmap.Steps), s.TotalItems())
		}

		fmt.Printf("\n%d skills\n", len(skills))
		return nil
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show a skill's roadmap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := catalog.Default().Get(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", s.Name, s.Key)
		fmt.Println(s.Description)
		fmt.Println(strings.Repeat("─", 60))

		for i, step := range s.Roadmap.Steps {
			fmt.Printf("%d. %s\n", i+1, step.Title)
			if step.Description != "" {
				fmt.Printf("   %s\n", step.Description)
			}
			for _, item := range step.Checklist {
				fmt.Printf("   [ ] %s\n", item)
			}
		}
		return nil
	},
}

func init() {
	skillListCmd.Flags().String("category", "", "Filter by category (e.g. web)")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
}
