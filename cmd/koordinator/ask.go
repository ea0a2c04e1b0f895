package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"koordinator/internal/adapter/tui/components"
	"koordinator/internal/domain"
)

// errRequestFailed is returned by ask when the cycle ended with an error entry.
var errRequestFailed = errors.New("request failed")

func newAskCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask TEXT...",
		Short: "Route one request, print the conversation and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			a, err := bootstrap(cmd.Context(), cfg, bootOptions{synchronous: true})
			if err != nil {
				return err
			}
			defer a.Close()
			return runAsk(cmd.Context(), a, strings.Join(args, " "), cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the entries as JSON")
	return cmd
}

// runAsk submits text, waits for the cycle to finish and prints the log.
func runAsk(ctx context.Context, a *app, text string, w io.Writer, asJSON bool) error {
	unsub := a.bus.SubscribeAll(func(_ context.Context, ev domain.Event) {
		a.log.Debug("event", "type", ev.Type, "payload", string(ev.Payload))
	})
	defer unsub()

	done, err := a.orchestrator.Submit(ctx, text)
	if err != nil {
		return err
	}
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	entries := a.orchestrator.Snapshot().Entries
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("encode entries: %w", err)
		}
	} else {
		printEntries(w, entries)
	}

	for _, e := range entries {
		if e.IsError {
			return errRequestFailed
		}
	}
	return nil
}

// printEntries writes a plain-text rendition of the conversation log.
func printEntries(w io.Writer, entries []domain.Entry) {
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		switch e.Kind {
		case domain.EntryUser:
			fmt.Fprintf(w, "Anda: %s\n", e.Text)
		case domain.EntryRouting:
			var args domain.Args
			if e.Routing != nil {
				args = e.Routing.Args
			}
			fmt.Fprintf(w, "Koordinator -> %s\n%s\n", e.Agent.RouteLabel(), components.FormatArgs(args))
		case domain.EntryAgentResult:
			name := string(e.Agent)
			if ident, ok := domain.Identity(e.Agent); ok {
				name = ident.Name
			}
			fmt.Fprintf(w, "%s:\n%s\n", name, e.Text)
		default:
			label := "Koordinator"
			if e.IsError {
				label += " [error]"
			}
			fmt.Fprintf(w, "%s: %s\n", label, e.Text)
		}
	}
}
