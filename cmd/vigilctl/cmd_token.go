// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/vigil/internal/auth"
	"github.com/tomtom215/vigil/internal/config"
)

var (
	tokenParticipant string
	tokenSession     string
	tokenTTL         time.Duration
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenParticipant, "participant", "", "participant label (JWT subject)")
	tokenCmd.Flags().StringVar(&tokenSession, "session", "", "bind the token to one session ID")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 4*time.Hour, "token lifetime")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a connection JWT signed with JWT_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if tokenParticipant == "" {
			return errors.New("--participant is required")
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		manager, err := auth.NewJWTManager(cfg.Security.JWTSecret)
		if err != nil {
			return err
		}
		token, err := manager.GenerateToken(tokenParticipant, tokenSession, tokenTTL)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
