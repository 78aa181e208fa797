//go:build integration

package test

import (
	"context"
	"testing"
	"time"

	"github.com/user/mindwell/internal/engine"
	"github.com/user/mindwell/internal/gateway"
	"github.com/user/mindwell/internal/question"
	"github.com/user/mindwell/internal/state"
	"github.com/user/mindwell/internal/types"
)

func newStack(t *testing.T) (*engine.Engine, *gateway.Gateway, *state.SessionStore, *state.TurnStore, *state.ReportStore) {
	t.Helper()
	dir := t.TempDir()

	sessions := state.NewSessionStore(dir)
	assessments := state.NewAssessmentStore(dir)
	turns := state.NewTurnStore(dir)
	reports := state.NewReportStore(dir)

	bank, err := question.DefaultBank()
	if err != nil {
		t.Fatal(err)
	}

	eng := engine.New(engine.Options{
		Sessions:    sessions,
		Assessments: assessments,
		Turns:       turns,
		Reports:     reports,
		Bank:        bank,
	})

	gw := gateway.New(sessions)
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

	return eng, gw, sessions, turns, reports
}

func sendTurn(t *testing.T, gw *gateway.Gateway, turn *types.InboundTurn) *types.TurnReply {
	t.Helper()
	done := make(chan *types.TurnReply, 1)
	err := gw.HandleInbound(context.Background(), turn, gateway.WithOnComplete(func(reply *types.TurnReply) {
		done <- reply
	}))
	if err != nil {
		t.Fatal(err)
	}
	select {
	case reply := <-done:
		return reply
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for reply")
		return nil
	}
}

func TestEndToEndAssessment(t *testing.T) {
	_, gw, sessions, turns, reports := newStack(t)

	ctx := context.Background()
	gw.Start(ctx)
	defer gw.Stop()

	key := types.NewSessionKey("test", "stu-1")
	answers := []string{
		"最近睡不好，总是很累",
		"我觉得做什么都没意思",
		"上课也集中不了注意力",
	}
	for _, text := range answers {
		reply := sendTurn(t, gw, &types.InboundTurn{
			Source:     "test",
			SessionKey: key,
			UserID:     "stu-1",
			Text:       text,
		})
		if reply.Finalize {
			t.Fatalf("assessment should not finalize at %q", text)
		}
		if reply.Prompt == "" {
			t.Errorf("expected a follow-up question after %q", text)
		}
	}

	// Explicit completion directive ends the assessment with a report.
	final := sendTurn(t, gw, &types.InboundTurn{
		Source:     "test",
		SessionKey: key,
		UserID:     "stu-1",
		Text:       "就到这里吧",
		Complete:   true,
	})
	if !final.Finalize {
		t.Fatal("expected finalize on completion directive")
	}
	if final.Result == nil {
		t.Fatal("expected a result with the final reply")
	}
	if final.Result.DepressionTotal == 0 {
		t.Error("depressive answers should have scored")
	}

	sessionList, err := sessions.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessionList) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessionList))
	}
	if sessionList[0].Status != "completed" {
		t.Errorf("session status = %q, want completed", sessionList[0].Status)
	}

	count, err := turns.Count(ctx, sessionList[0].SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Errorf("expected 4 logged turns, got %d", count)
	}

	stored, err := reports.Get(ctx, sessionList[0].SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.ID != final.Result.ID {
		t.Errorf("stored report %s != returned report %s", stored.ID, final.Result.ID)
	}
}

func TestEndToEndSelfHarmEscalation(t *testing.T) {
	_, gw, _, _, _ := newStack(t)

	ctx := context.Background()
	gw.Start(ctx)
	defer gw.Stop()

	reply := sendTurn(t, gw, &types.InboundTurn{
		Source:     "test",
		SessionKey: types.NewSessionKey("test", "stu-2"),
		UserID:     "stu-2",
		Text:       "我想死",
	})

	if reply.Intervention == nil {
		t.Fatal("expected an intervention")
	}
	if reply.Intervention.Tier != types.TierEmergency {
		t.Errorf("tier = %s, want emergency", reply.Intervention.Tier)
	}
	if reply.Prompt != "" {
		t.Errorf("fast path should not ask a question, got %q", reply.Prompt)
	}
}
