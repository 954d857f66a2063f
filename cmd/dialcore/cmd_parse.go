package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "parse <utterance...>",
		Short: "Parse one utterance and print its dialogue act",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.engine()
			if err != nil {
				return err
			}
			resp, err := eng.Parse(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			fmt.Fprintln(out, resp.DA)
			if opts.verbose {
				fmt.Fprintf(out, "abstracted: %s\nlabels: %s\n", strings.Join(resp.Abstracted, " "), strings.Join(resp.CategoryLabels, ","))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full parse result as JSON")
	return cmd
}
