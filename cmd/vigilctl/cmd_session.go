// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/vigil/internal/models"
)

var (
	serverURL   string
	serverToken string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:5002", "Vigil base URL")
	rootCmd.PersistentFlags().StringVar(&serverToken, "token", os.Getenv("VIGIL_TOKEN"), "bearer token (default $VIGIL_TOKEN)")

	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd, sessionScanCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect live sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connected sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var sessions []models.SessionInfo
		if err := call(cmd.Context(), http.MethodGet, "/api/v1/sessions", &sessions); err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions connected.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPARTICIPANT\tFRAMES\tERRORS\tSCORE\tSCANNED\tSTARTED")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%t\t%s\n",
				s.SessionID, s.Participant, s.FrameCount, s.ErrorCount,
				s.LastSuspicionScore, s.EnvironmentScanned,
				s.StartTime.Local().Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var sessionScanCmd = &cobra.Command{
	Use:   "scan <session-id>",
	Short: "Ask a session for a 360° environment scan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/v1/sessions/" + url.PathEscape(args[0]) + "/scan"
		if err := call(cmd.Context(), http.MethodPost, path, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scan requested for %s\n", args[0])
		return nil
	},
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(ctx context.Context, method, path string, out interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, serverURL+path, http.NoBody)
	if err != nil {
		return err
	}
	if serverToken != "" {
		req.Header.Set("Authorization", "Bearer "+serverToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if env.Error != nil {
		return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
