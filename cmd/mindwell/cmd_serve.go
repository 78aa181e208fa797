package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/mindwell/internal/delivery"
	"github.com/user/mindwell/internal/engine"
	"github.com/user/mindwell/internal/gateway"
	"github.com/user/mindwell/internal/question"
	"github.com/user/mindwell/internal/scheduler"
	"github.com/user/mindwell/internal/state"
	"github.com/user/mindwell/internal/telegram"
	"github.com/user/mindwell/internal/types"
	"github.com/user/mindwell/internal/webhook"
	"github.com/user/mindwell/pkg/classifier"
	"github.com/user/mindwell/pkg/classifier/httpapi"
	"github.com/user/mindwell/pkg/dialogue"
	"github.com/user/mindwell/pkg/dialogue/openai"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mindwell daemon",
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "mindwell.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	// Stores
	sessions := state.NewSessionStore(cfg.DataDir)
	assessments := state.NewAssessmentStore(cfg.DataDir)
	turns := state.NewTurnStore(cfg.DataDir)
	reports := state.NewReportStore(cfg.DataDir)

	// Question bank
	bank, err := loadBank(cfg.Assessment.QuestionBankPath)
	if err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}

	// Emotion classifier (optional; local lexicon matching covers its absence)
	var cls classifier.Provider
	if cfg.Classifier.BaseURL != "" {
		cls = httpapi.New(&classifier.Config{
			BaseURL: cfg.Classifier.BaseURL,
			APIKey:  cfg.Classifier.APIKey,
			Timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
		})
	}

	// Dialogue responder (optional; questions are asked bare without it)
	var responder *engine.Responder
	if cfg.Dialogue.APIKey != "" {
		provider := openai.New(&dialogue.Config{
			BaseURL:     cfg.Dialogue.BaseURL,
			APIKey:      cfg.Dialogue.APIKey,
			Model:       cfg.Dialogue.Model,
			MaxTokens:   cfg.Dialogue.MaxTokens,
			Temperature: cfg.Dialogue.Temperature,
		})
		trimmer, err := dialogue.NewTrimmer(cfg.Dialogue.Model, cfg.Dialogue.MaxContextTokens, cfg.Dialogue.OutputReserve)
		if err != nil {
			return fmt.Errorf("create trimmer: %w", err)
		}
		responder = engine.NewResponder(provider, trimmer)
	}

	// The counselor alert target only exists once the telegram adapter is
	// up, so the engine goes through this indirection.
	var alertFn func(types.SessionID, *types.Intervention)

	eng := engine.New(engine.Options{
		Sessions:         sessions,
		Assessments:      assessments,
		Turns:            turns,
		Reports:          reports,
		Bank:             bank,
		Classifier:       cls,
		ClassifyTimeout:  time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
		Responder:        responder,
		Cooldown:         time.Duration(cfg.Assessment.CooldownSeconds) * time.Second,
		FinalizeDelay:    time.Duration(cfg.Assessment.FinalizeDelaySeconds) * time.Second,
		TurnBudget:       cfg.Assessment.TurnBudget,
		MeaningfulBudget: cfg.Assessment.MeaningfulBudget,
		OnEmergency: func(sessionID types.SessionID, iv *types.Intervention) {
			slog.Warn("emergency intervention",
				"session_id", string(sessionID),
				"tier", string(iv.Tier),
				"reasons", iv.Reasons,
			)
			if alertFn != nil {
				alertFn(sessionID, iv)
			}
		},
	})

	// Gateway
	gw := gateway.New(sessions, int64(cfg.MaxConcurrent))
	gw.SetProcessor(func(run *gateway.Run) error {
		reply, err := eng.ProcessTurn(run.Ctx, run.SessionID, run.Turn)
		if err != nil {
			return err
		}
		if run.OnComplete != nil {
			run.OnComplete(reply)
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw.Start(ctx)
	defer gw.Stop()

	slog.Info("mindwell started",
		"data_dir", cfg.DataDir,
		"log_level", cfg.LogLevel,
		"max_concurrent", cfg.MaxConcurrent,
		"turn_budget", cfg.Assessment.TurnBudget,
		"classifier", cfg.Classifier.BaseURL != "",
		"responder", responder != nil,
		"pid_file", pidPath,
	)

	// Reminder store
	reminders := state.NewReminderStore(filepath.Join(cfg.DataDir, "reminders.json"))

	// Delivery registry
	deliveryReg := delivery.NewRegistry()

	// Telegram adapter
	if cfg.Telegram.Token != "" {
		adapter, err := telegram.New(cfg.Telegram.Token, gw, sessions, turns, reports, eng.Restart, cfg.Telegram.CounselorChatID)
		if err != nil {
			return fmt.Errorf("create telegram adapter: %w", err)
		}
		go adapter.Start(ctx)
		alertFn = adapter.Alert
		slog.Info("telegram adapter started")

		deliveryReg.Register("telegram:", adapter.SendTo)
	} else {
		slog.Warn("telegram adapter disabled (no token)")
	}

	// Helper: synchronously process a turn through the gateway and return
	// the reply.
	processTurn := func(ctx context.Context, turn *types.InboundTurn) (*types.TurnReply, error) {
		done := make(chan *types.TurnReply, 1)
		failed := make(chan error, 1)
		err := gw.HandleInbound(ctx, turn,
			gateway.WithOnComplete(func(reply *types.TurnReply) {
				done <- reply
			}),
			gateway.WithOnError(func(err error) {
				failed <- err
			}),
		)
		if err != nil {
			return nil, err
		}
		select {
		case reply := <-done:
			return reply, nil
		case err := <-failed:
			return nil, err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// Scheduler: periodic check-in reminders plus the delayed-finalization
	// sweep for sessions a self-harm fast path has armed.
	sched := scheduler.New(reminders, func(sessionKey, message string) {
		if err := deliveryReg.Deliver(sessionKey, message); err != nil {
			slog.Error("reminder delivery failed", "session_key", sessionKey, "error", err)
		}
	}, func() {
		ids, err := eng.FinalizeDue(ctx)
		if err != nil {
			slog.Error("finalize sweep failed", "error", err)
			return
		}
		for _, id := range ids {
			slog.Info("session finalized by sweep", "session_id", string(id))
		}
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()
	slog.Info("scheduler started")

	// Webhook HTTP server
	if cfg.HTTP.Enabled {
		webhookSrv := webhook.NewServer(processTurn, eng.Restart, sessions, turns, reports)
		httpServer := &http.Server{
			Addr:    cfg.HTTP.Listen,
			Handler: webhookSrv,
		}
		go func() {
			slog.Info("webhook server started", "listen", cfg.HTTP.Listen)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("webhook server error", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			httpServer.Close()
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		sig := <-sigChan
		if sig == syscall.SIGHUP {
			slog.Info("received SIGHUP, restarting")
			execPath, err := os.Executable()
			if err != nil {
				slog.Error("failed to get executable path", "error", err)
				continue
			}
			os.Remove(pidPath)
			if err := syscall.Exec(execPath, os.Args, os.Environ()); err != nil {
				slog.Error("failed to re-exec", "error", err)
				if _, writeErr := writePIDFile(cfg.DataDir); writeErr != nil {
					slog.Error("failed to re-write PID file", "error", writeErr)
				}
				continue
			}
		}
		// SIGINT or SIGTERM
		slog.Info("shutting down", "signal", sig)
		return nil
	}
}

func loadBank(path string) (*question.Bank, error) {
	if path == "" {
		return question.DefaultBank()
	}
	return question.LoadBank(path)
}
