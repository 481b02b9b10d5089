package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "wordlobby",
		Short: "CLI tool for the word lobby API",
		Long: `wordlobby is a CLI tool for playing the word lobby game over its JSON API.

Run "wordlobby init" once to obtain a player handle; it is saved to the
handle file and sent as the userid cookie on every later command.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load handle from file if not provided via flag/env
			if err := cfg.LoadHandle(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Handle)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: WORDLOBBY_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Handle, "handle", cfg.Handle, "Player handle (env: WORDLOBBY_HANDLE)")
	rootCmd.PersistentFlags().StringVar(&cfg.HandleFile, "handle-file", cfg.HandleFile, "Handle file path (env: WORDLOBBY_HANDLE_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newNameCmd())
	rootCmd.AddCommand(newLobbyCmd())
	rootCmd.AddCommand(newGuessCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		NewOutput(cfg.Output, os.Stdout, os.Stderr).PrintError(err)
		os.Exit(1)
	}
}

func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
