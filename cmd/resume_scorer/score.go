package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	scoreResumeID int64
	scoreJobID    int64
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one resume against one job",
	Long:  `Compute and persist the compatibility score for a single (resume, job) pair, printing the result as JSON.`,
	RunE:  runScore,
}

var scoreAllCmd = &cobra.Command{
	Use:   "score-all",
	Short: "Score every resume against a job",
	Long:  `Compute and persist compatibility scores for every uploaded resume against one job, printing the ranking as JSON, best match first.`,
	RunE:  runScoreAll,
}

func init() {
	scoreCmd.Flags().Int64Var(&scoreResumeID, "resume", 0, "Resume ID (required)")
	scoreCmd.Flags().Int64Var(&scoreJobID, "job", 0, "Job ID (required)")
	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("job")

	scoreAllCmd.Flags().Int64Var(&scoreJobID, "job", 0, "Job ID (required)")
	_ = scoreAllCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(scoreAllCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	d, err := buildDeps(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer d.close()

	result, err := d.scorer.Score(cmd.Context(), scoreResumeID, scoreJobID)
	if err != nil {
		return err
	}

	return printJSON(result)
}

func runScoreAll(cmd *cobra.Command, _ []string) error {
	d, err := buildDeps(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer d.close()

	results, err := d.scorer.ScoreAll(cmd.Context(), scoreJobID)
	if err != nil {
		return err
	}

	return printJSON(results)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
