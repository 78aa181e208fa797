package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/mindwell/internal/state"
	"github.com/user/mindwell/internal/types"
)

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd, sessionShowCmd, sessionArchiveCmd, sessionClearCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		sessions := state.NewSessionStore(cfg.DataDir)
		turns := state.NewTurnStore(cfg.DataDir)

		ctx := context.Background()
		list, err := sessions.List(ctx)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKEY\tSTATUS\tTURNS\tCREATED")
		for _, s := range list {
			count, err := turns.Count(ctx, s.SessionID)
			if err != nil {
				count = 0
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				s.SessionID,
				s.SessionKey,
				s.Status,
				count,
				s.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session's progress and report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		sessions := state.NewSessionStore(cfg.DataDir)
		assessments := state.NewAssessmentStore(cfg.DataDir)
		reports := state.NewReportStore(cfg.DataDir)

		ctx := context.Background()
		id := types.SessionID(args[0])

		session, err := sessions.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		progress, trend, err := assessments.Load(ctx, id)
		if err != nil {
			return fmt.Errorf("load assessment: %w", err)
		}

		fmt.Printf("Session:  %s (%s)\n", session.SessionID, session.Status)
		fmt.Printf("Key:      %s\n", session.SessionKey)
		fmt.Printf("Phase:    %s\n", progress.Phase)
		fmt.Printf("Turns:    %d (meaningful: %d)\n", progress.TurnCount, progress.MeaningfulExchanges)
		fmt.Printf("Risk:     %s\n", trend.Risk)
		fmt.Printf("Items:    %d/%d scored\n", len(progress.Severities), len(types.AllItems()))

		result, err := reports.Get(ctx, id)
		if err != nil {
			fmt.Println("Report:   (not finalized)")
			return nil
		}
		fmt.Printf("Report:   depression=%d anxiety=%d risk=%s\n",
			result.DepressionTotal, result.AnxietyTotal, result.Risk)
		if len(result.Problems) > 0 {
			fmt.Printf("Problems: %s\n", strings.Join(result.Problems, ", "))
		}
		return nil
	},
}

var sessionArchiveCmd = &cobra.Command{
	Use:   "archive <key>",
	Short: "Archive the active session for a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		sessions := state.NewSessionStore(cfg.DataDir)

		if err := sessions.Archive(context.Background(), types.SessionKey(args[0])); err != nil {
			return fmt.Errorf("archive session: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Session for key %s archived.\n", args[0])
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <id|all>",
	Short: "Clear a session or all sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		sessionsDir := filepath.Join(cfg.DataDir, "sessions")

		if args[0] == "all" {
			if err := os.RemoveAll(sessionsDir); err != nil {
				return fmt.Errorf("remove sessions directory: %w", err)
			}
			fmt.Println("All sessions cleared.")
			return nil
		}

		// Remove specific session directory (validate path to prevent traversal)
		sessionDir := filepath.Join(sessionsDir, args[0])
		resolved, err := filepath.Abs(sessionDir)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		absSessionsDir, _ := filepath.Abs(sessionsDir)
		if !strings.HasPrefix(resolved, absSessionsDir+string(filepath.Separator)) {
			return fmt.Errorf("invalid session ID: %s", args[0])
		}
		if _, err := os.Stat(sessionDir); os.IsNotExist(err) {
			return fmt.Errorf("session not found: %s", args[0])
		}
		if err := os.RemoveAll(sessionDir); err != nil {
			return fmt.Errorf("remove session directory: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Session %s cleared.\n", args[0])
		return nil
	},
}
