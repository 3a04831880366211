package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/config"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/server"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for API clients",
	Long:  `Generate a signed JWT for external writers (embedding services, admin tooling) using the configured shared secret.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set; authentication is disabled")
	}

	svc := server.NewJWTService(cfg.JWTSecret, tokenTTL)
	token, err := svc.GenerateToken(tokenSubject)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
