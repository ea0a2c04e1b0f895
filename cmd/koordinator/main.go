// Command koordinator runs the hospital request coordinator: an interactive
// terminal chat by default, or one-shot commands for scripting.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"koordinator/internal/infra/config"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	ConfigPath string
	APIKey     string
	Model      string
	Provider   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "koordinator: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "koordinator",
		Short: "Hospital request coordinator",
		Long: `koordinator routes free-text hospital requests to one of four
specialised sub-agents (patient management, medical information, document
generation, administrative tasks) and shows the routing decision and the
agent's answer.

Run without a subcommand to start the interactive chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", config.DefaultPath(), "config file path")
	flags.StringVar(&opts.APIKey, "api-key", "", "Gemini API key (overrides config and env)")
	flags.StringVar(&opts.Model, "model", "", "classifier model name")
	flags.StringVar(&opts.Provider, "provider", "", "classifier provider (gemini or keyword)")

	root.AddCommand(
		newChatCmd(opts),
		newAskCmd(opts),
		newAgentsCmd(),
		newDoctorCmd(opts),
	)
	return root
}

func newChatCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), opts)
		},
	}
}
