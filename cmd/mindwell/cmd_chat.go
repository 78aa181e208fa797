package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/mindwell/internal/engine"
	"github.com/user/mindwell/internal/state"
	"github.com/user/mindwell/internal/types"
	"github.com/user/mindwell/pkg/classifier"
	"github.com/user/mindwell/pkg/classifier/httpapi"
)

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("session-key", "local:default", "session key for the chat")
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an assessment conversation in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}

		sessions := state.NewSessionStore(cfg.DataDir)
		assessments := state.NewAssessmentStore(cfg.DataDir)
		turns := state.NewTurnStore(cfg.DataDir)
		reports := state.NewReportStore(cfg.DataDir)

		bank, err := loadBank(cfg.Assessment.QuestionBankPath)
		if err != nil {
			return fmt.Errorf("load question bank: %w", err)
		}

		var cls classifier.Provider
		if cfg.Classifier.BaseURL != "" {
			cls = httpapi.New(&classifier.Config{
				BaseURL: cfg.Classifier.BaseURL,
				APIKey:  cfg.Classifier.APIKey,
				Timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
			})
		}

		eng := engine.New(engine.Options{
			Sessions:         sessions,
			Assessments:      assessments,
			Turns:            turns,
			Reports:          reports,
			Bank:             bank,
			Classifier:       cls,
			ClassifyTimeout:  time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
			Cooldown:         time.Duration(cfg.Assessment.CooldownSeconds) * time.Second,
			FinalizeDelay:    time.Duration(cfg.Assessment.FinalizeDelaySeconds) * time.Second,
			TurnBudget:       cfg.Assessment.TurnBudget,
			MeaningfulBudget: cfg.Assessment.MeaningfulBudget,
		})

		ctx := context.Background()
		keyFlag, _ := cmd.Flags().GetString("session-key")
		key := types.SessionKey(keyFlag)

		sessionID, err := sessions.ResolveOrCreate(ctx, key)
		if err != nil {
			return fmt.Errorf("resolve session: %w", err)
		}

		opening, err := eng.OpeningPrompt(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("opening prompt: %w", err)
		}
		if opening != "" {
			fmt.Println(opening)
		}

		fmt.Println(`(Type "exit" to leave, "/restart" to start over.)`)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			text := strings.TrimSpace(scanner.Text())
			if text == "exit" || text == "quit" {
				break
			}
			if text == "/restart" {
				newID, err := eng.Restart(ctx, key)
				if err != nil {
					fmt.Fprintf(os.Stderr, "restart failed: %v\n", err)
					continue
				}
				sessionID = newID
				opening, err := eng.OpeningPrompt(ctx, sessionID)
				if err == nil && opening != "" {
					fmt.Println(opening)
				}
				continue
			}

			reply, err := eng.ProcessTurn(ctx, sessionID, &types.InboundTurn{
				Source:     "chat",
				SessionKey: key,
				UserID:     "local",
				Text:       text,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			printReply(reply)
			if reply.Finalize {
				break
			}
		}
		return scanner.Err()
	},
}

func printReply(reply *types.TurnReply) {
	if reply.Intervention != nil {
		fmt.Printf("[%s] %s\n", reply.Intervention.Tier, reply.Intervention.MessageKey)
	}
	if reply.Prompt != "" {
		fmt.Println(reply.Prompt)
	}
	if reply.Finalize && reply.Result != nil {
		r := reply.Result
		fmt.Println("--- assessment complete ---")
		fmt.Printf("depression: %d  anxiety: %d  risk: %s\n", r.DepressionTotal, r.AnxietyTotal, r.Risk)
		if len(r.Problems) > 0 {
			fmt.Printf("problems: %s\n", strings.Join(r.Problems, ", "))
		}
		if len(r.Recommendations) > 0 {
			fmt.Printf("recommendations: %s\n", strings.Join(r.Recommendations, ", "))
		}
	}
}
