package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for uploading resumes, managing job postings and computing compatibility scores.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	d, err := buildDeps(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer d.close()

	srv := server.New(server.Config{
		Port:      d.cfg.Port,
		JWTSecret: d.cfg.JWTSecret,
	}, d.database, d.scorer, d.parser, d.embedder, d.log)

	return srv.Start()
}
