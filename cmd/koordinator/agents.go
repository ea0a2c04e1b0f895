package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"koordinator/internal/domain"
)

func newAgentsCmd() *cobra.Command {
	var withSchema bool

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List the sub-agents and their argument contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printAgents(cmd.OutOrStdout(), withSchema)
		},
	}
	cmd.Flags().BoolVar(&withSchema, "schema", false, "print each agent's JSON schema")
	return cmd
}

func printAgents(w io.Writer, withSchema bool) error {
	for i, ident := range domain.Catalog() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", ident.Name, ident.ID)
		fmt.Fprintf(w, "  %s\n", ident.Summary)
		fmt.Fprintf(w, "  required: %s\n", strings.Join(ident.Required, ", "))
		if len(ident.Optional) > 0 {
			fmt.Fprintf(w, "  optional: %s\n", strings.Join(ident.Optional, ", "))
		}
		if withSchema {
			var v any
			if err := json.Unmarshal(ident.Parameters, &v); err != nil {
				return fmt.Errorf("%s schema: %w", ident.ID, err)
			}
			b, err := json.MarshalIndent(v, "  ", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s\n", b)
		}
	}
	return nil
}
