package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dialcore/internal/da"
	"dialcore/internal/evaluation"
)

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var referencePath, outPath string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Parse every utterance of a reference file, one dialogue act per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := evaluation.LoadReference(referencePath)
			if err != nil {
				return err
			}
			eng, err := opts.engine()
			if err != nil {
				return err
			}
			acts := make([]*da.Act, 0, len(records))
			for i, rec := range records {
				resp, err := eng.Parse(cmd.Context(), rec.Usr)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				act, err := da.Parse(resp.DA)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				acts = append(acts, act)
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return evaluation.WritePredictions(w, acts)
		},
	}
	cmd.Flags().StringVar(&referencePath, "reference", "", "reference JSON file [{\"usr\": ..., \"DA\": ...}]")
	cmd.Flags().StringVar(&outPath, "out", "", "predictions output file (default stdout)")
	_ = cmd.MarkFlagRequired("reference")
	return cmd
}

func newEvalCmd() *cobra.Command {
	var referencePath, predictionsPath string
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score predictions against a reference file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(referencePath); err != nil {
				return fmt.Errorf("reference file: %w", err)
			}
			if _, err := os.Stat(predictionsPath); err != nil {
				return fmt.Errorf("predictions file: %w", err)
			}
			records, err := evaluation.LoadReference(referencePath)
			if err != nil {
				return err
			}
			reference, err := evaluation.Acts(records)
			if err != nil {
				return err
			}
			predictions, err := evaluation.LoadPredictions(predictionsPath)
			if err != nil {
				return fmt.Errorf("predictions: %w", err)
			}
			scores, err := evaluation.Evaluate(reference, predictions)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), scores)
			return nil
		},
	}
	cmd.Flags().StringVar(&referencePath, "reference", "", "reference JSON file")
	cmd.Flags().StringVar(&predictionsPath, "predictions", "", "predictions file, one dialogue act per line")
	_ = cmd.MarkFlagRequired("reference")
	_ = cmd.MarkFlagRequired("predictions")
	return cmd
}
