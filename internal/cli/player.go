package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Obtain a player handle, or confirm the saved one",
		Long: `Ask the server for a player handle. A saved handle the server still
knows is kept; otherwise the new handle replaces it in the handle file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result InitResult

			if err := client.Post("/api/v1/players", nil, &result); err != nil {
				return err
			}

			if result.Created {
				if err := cfg.SaveHandle(result.Player.ID); err != nil {
					return fmt.Errorf("failed to save handle: %w", err)
				}
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show current player info",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get("/api/v1/players/me", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name <name>",
		Short: "Set your display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[0]}
			var result Player

			if err := client.Patch("/api/v1/players/me", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
