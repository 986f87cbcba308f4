package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/learnpath/internal/api"
	"github.com/abhisek/learnpath/internal/catalog"
	"github.com/abhisek/learnpath/internal/config"
	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage skill records stored on the backend",
}

var remoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills stored on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, done, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		defer done()

		skills, err := client.ListSkills(cmd.Context())
		if err != nil {
			return fmt.Errorf("list skills: %w", err)
		}
		if len(skills) == 0 {
			fmt.Println("No remote skills.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-28s  %5s\n", "ID", "Key", "Name", "Steps")
		fmt.Println(strings.Repeat("─", 92))
		for _, s := range skills {
			fmt.Printf("%-36s  %-16s  %-28s  %5d\n", s.ID, s.Key, truncate(s.Name, 28), len(s.Steps))
		}
		return nil
	},
}

var remotePushCmd = &cobra.Command{
	Use:   "push <key>",
	Short: "Create or update a catalog skill on the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skill, err := catalog.Default().Get(args[0])
		if err != nil {
			return err
		}

		client, done, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		defer done()

		ctx := cmd.Context()
		if err := signIn(ctx, cmd, client); err != nil {
			return err
		}

		payload := skillPayload(skill)
		existing, err := findRemoteSkill(ctx, client, skill.Key)
		if err != nil {
			return err
		}

		var saved *api.Skill
		if existing != nil {
			saved, err = client.UpdateSkill(ctx, existing.ID, payload)
		} else {
			saved, err = client.CreateSkill(ctx, payload)
		}
		if err != nil {
			return fmt.Errorf("push skill: %w", err)
		}

		verb := "Created"
		if existing != nil {
			verb = "Updated"
		}
		fmt.Printf("%s %s (%s)\n", verb, saved.Key, saved.ID)
		return nil
	},
}

var remoteDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a skill from the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, done, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		defer done()

		ctx := cmd.Context()
		if err := signIn(ctx, cmd, client); err != nil {
			return err
		}

		ack, err := client.DeleteSkill(ctx, args[0])
		if err != nil {
			return fmt.Errorf("delete skill: %w", err)
		}
		msg := ack.Message
		if msg == "" {
			msg = "Deleted " + args[0]
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{remotePushCmd, remoteDeleteCmd} {
		c.Flags().String("email", "", "Account email (password from "+config.EnvPassword+")")
		_ = c.MarkFlagRequired("email")
	}

	remoteCmd.AddCommand(remoteListCmd)
	remoteCmd.AddCommand(remotePushCmd)
	remoteCmd.AddCommand(remoteDeleteCmd)
}

// remoteClient builds a traced API client. done closes the trace store.
func remoteClient(cmd *cobra.Command) (*api.Client, func(), error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st := openTraceStore(cmd)
	done := func() {
		if st != nil {
			_ = st.Close()
		}
	}
	client, err := newClient(cfg, st)
	if err != nil {
		done()
		return nil, nil, fmt.Errorf("create API client: %w", err)
	}
	return client, done, nil
}

// signIn logs in with --email and LEARNPATH_PASSWORD.
func signIn(ctx context.Context, cmd *cobra.Command, client *api.Client) error {
	email, _ := cmd.Flags().GetString("email")
	password := os.Getenv(config.EnvPassword)
	if password == "" {
		return fmt.Errorf("%s is not set", config.EnvPassword)
	}
	if _, err := client.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

func findRemoteSkill(ctx context.Context, client *api.Client, key string) (*api.Skill, error) {
	skills, err := client.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	for i := range skills {
		if skills[i].Key == key {
			return &skills[i], nil
		}
	}
	return nil, nil
}

func skillPayload(s catalog.Skill) api.SkillPayload {
	p := api.SkillPayload{Key: s.Key, Name: s.Name, Description: s.Description}
	for _, step := range s.Roadmap.Steps {
		p.Steps = append(p.Steps, api.Step{Title: step.Title, Checklist: step.Checklist})
	}
	return p
}
