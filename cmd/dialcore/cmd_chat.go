package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"dialcore/internal/dst"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Run a dialogue from stdin, one utterance per line",
		Long: `Reads utterances line by line, runs each as a turn of one session and
prints the dialogue act and the belief state after the turn. An empty line
or EOF ends the dialogue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := opts.engine()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sessionID, err := eng.CreateSession(ctx)
			if err != nil {
				return fmt.Errorf("create session: %w", err)
			}

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					break
				}
				resp, err := eng.Turn(ctx, sessionID, line)
				if err != nil {
					fmt.Fprintln(out, "error:", err)
					continue
				}
				fmt.Fprintf(out, "NLU: %s\n", resp.NLU)
				writeState(out, resp.State)
			}
			fmt.Fprintln(out)
			return scanner.Err()
		},
	}
}

func writeState(w io.Writer, state dst.BeliefState) {
	for _, slot := range state.Slots() {
		dist := state[slot]
		values := make([]string, 0, len(dist))
		for v := range dist {
			values = append(values, v)
		}
		sort.Strings(values)
		parts := make([]string, 0, len(values))
		for _, v := range values {
			name := v
			if v == dst.NoneValue {
				name = "none"
			}
			parts = append(parts, fmt.Sprintf("%s=%.3f", name, dist[v]))
		}
		fmt.Fprintf(w, "  %s: %s\n", slot, strings.Join(parts, " "))
	}
}
