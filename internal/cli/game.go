package cli

import (
	"github.com/spf13/cobra"
)

func newGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <word>",
		Short: "Submit a guess in your current lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"guess": args[0]}
			var result SubmitResult

			if err := client.Post("/api/v1/guesses", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show your guesses, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GuessHistory

			if err := client.Get("/api/v1/players/me/guesses", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <id>",
		Short: "Show the recorded outcome of a finished lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Result

			if err := client.Get(lobbyPath(args[0], "/results"), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
