package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mauv0809/head2head/internal/exchange"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/render"
	"github.com/mauv0809/head2head/internal/standings"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(announceCmd)
	rootCmd.AddCommand(metricsCmd)

	recordCmd.Flags().StringVar(&recordInput.HomePlayer, "home", "", "Home player")
	recordCmd.Flags().StringVar(&recordInput.AwayPlayer, "away", "", "Away player")
	recordCmd.Flags().StringVar(&recordInput.HomeTeam, "home-team", "", "Team picked by the home player")
	recordCmd.Flags().StringVar(&recordInput.AwayTeam, "away-team", "", "Team picked by the away player")
	recordCmd.Flags().IntVar(&recordInput.HomeScore, "home-score", 0, "Goals scored by the home player")
	recordCmd.Flags().IntVar(&recordInput.AwayScore, "away-score", 0, "Goals scored by the away player")
	recordCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Record without sending notifications")
	for _, name := range []string{"home", "away", "home-team", "away-team"} {
		_ = recordCmd.MarkFlagRequired(name)
	}

	resetCmd.Flags().BoolVar(&confirmReset, "yes", false, "Confirm deleting every recorded match")

	exportCmd.Flags().StringVar(&formatName, "format", "json", "Export format: json or msgpack")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to this file instead of the server suggested name")
	importCmd.Flags().StringVar(&formatName, "format", "", "Import format: json or msgpack (default from the file extension)")

	announceCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the message instead of posting it")
}

var (
	recordInput  ledger.MatchInput
	dryRun       bool
	confirmReset bool
	formatName   string
	outputPath   string
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, body, err := call(http.MethodGet, "/health", "", nil)
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the standings table",
	RunE: func(cmd *cobra.Command, args []string) error {
		var table []standings.Standing
		if err := getJSON("/standings", &table); err != nil {
			return err
		}
		fmt.Println(render.Standings(table))
		return nil
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Show the match history, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid time zone: %w", err)
		}
		var matches []ledger.MatchRecord
		if err := getJSON("/matches", &matches); err != nil {
			return err
		}
		fmt.Println(render.Matches(matches, loc))
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a match result",
	Example: `  h2h record --home Fatih --away Oğuz --home-team "Real Madrid" --away-team Barcelona --home-score 2 --away-score 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := json.Marshal(recordInput)
		if err != nil {
			return err
		}
		endpoint := "/matches"
		if dryRun {
			endpoint += "?dry_run=true"
		}
		_, body, err := call(http.MethodPost, endpoint, "application/json", bytes.NewReader(raw))
		if err != nil {
			return err
		}

		var resp struct {
			Match     ledger.MatchRecord   `json:"match"`
			Standings []standings.Standing `json:"standings"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return err
		}
		fmt.Printf("Recorded match %s\n", resp.Match.ID)
		fmt.Println(render.Standings(resp.Standings))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every recorded match and zero the standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmReset {
			return fmt.Errorf("reset deletes every recorded match, rerun with --yes to confirm")
		}
		_, body, err := call(http.MethodPost, "/reset", "", nil)
		if err != nil {
			return err
		}
		var table []standings.Standing
		if err := json.Unmarshal(body, &table); err != nil {
			return err
		}
		fmt.Println(render.Standings(table))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the ledger to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := exchange.ParseFormat(formatName)
		if err != nil {
			return err
		}
		resp, body, err := call(http.MethodGet, "/export?format="+string(format), "", nil)
		if err != nil {
			return err
		}

		path := outputPath
		if path == "" {
			path = format.FileName(time.Now())
			if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
				path = filepath.Base(params["filename"])
			}
		}
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Printf("Exported ledger to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the ledger with an exported file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := formatName
		if name == "" {
			name = strings.TrimPrefix(filepath.Ext(args[0]), ".")
		}
		format, err := exchange.ParseFormat(name)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}

		_, body, err := call(http.MethodPost, "/import?format="+string(format), format.ContentType(), bytes.NewReader(raw))
		if err != nil {
			return err
		}
		var table []standings.Standing
		if err := json.Unmarshal(body, &table); err != nil {
			return err
		}
		fmt.Println(render.Standings(table))
		return nil
	},
}

var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Post the standings to the Slack channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/standings/announce"
		if dryRun {
			endpoint += "?dry_run=true"
		}
		if _, _, err := call(http.MethodPost, endpoint, "", nil); err != nil {
			return err
		}
		fmt.Println("Standings announced")
		return nil
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, body, err := call(http.MethodGet, "/metrics", "", nil)
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}
