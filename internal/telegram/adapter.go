package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/mindwell/internal/gateway"
	"github.com/user/mindwell/internal/types"
)

const maxTelegramMessage = 4096

// RestartFunc archives the active session for a key and starts a new one.
type RestartFunc func(ctx context.Context, key types.SessionKey) (types.SessionID, error)

// Adapter bridges Telegram to the gateway.
type Adapter struct {
	bot           *tgbotapi.BotAPI
	gateway       *gateway.Gateway
	sessions      types.SessionStore
	turns         types.TurnStore
	reports       types.ReportStore
	restart       RestartFunc
	counselorChat int64
}

// New creates a Telegram adapter. counselorChat is the chat that receives
// emergency alerts; zero disables alerting.
func New(token string, gw *gateway.Gateway, sessions types.SessionStore, turns types.TurnStore, reports types.ReportStore, restart RestartFunc, counselorChat int64) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{
		bot:           bot,
		gateway:       gw,
		sessions:      sessions,
		turns:         turns,
		reports:       reports,
		restart:       restart,
		counselorChat: counselorChat,
	}, nil
}

// Start begins long-polling for Telegram updates.
func (a *Adapter) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			a.handleMessage(ctx, update.Message)
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		}
	}
}

// SendTo delivers a message to the chat encoded in a telegram session key
// of the form "telegram:<user_id>:<chat_id>". Used by scheduled check-ins.
func (a *Adapter) SendTo(sessionKey, message string) error {
	parts := strings.Split(sessionKey, ":")
	if len(parts) != 3 || parts[0] != "telegram" {
		return fmt.Errorf("invalid telegram session key: %s", sessionKey)
	}
	chatID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID in session key %s: %w", sessionKey, err)
	}
	a.send(chatID, message)
	return nil
}

// Alert sends an emergency notification to the counselor chat.
func (a *Adapter) Alert(sessionID types.SessionID, iv *types.Intervention) {
	if a.counselorChat == 0 {
		return
	}
	text := fmt.Sprintf("紧急提醒：会话 %s 触发了 %s 级危机干预。\n原因：%s",
		sessionID, iv.Tier, strings.Join(iv.Reasons, "；"))
	a.send(a.counselorChat, text)
}

func (a *Adapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		a.handleCommand(ctx, msg)
		return
	}

	chatID := msg.Chat.ID
	turn := &types.InboundTurn{
		Source:     "telegram",
		SessionKey: buildSessionKey(msg.From.ID, msg.Chat.ID),
		UserID:     strconv.FormatInt(msg.From.ID, 10),
		Text:       msg.Text,
	}

	err := a.gateway.HandleInbound(ctx, turn,
		gateway.WithOnComplete(func(reply *types.TurnReply) {
			a.sendReply(chatID, reply)
		}),
		gateway.WithOnError(func(err error) {
			a.send(chatID, "抱歉，刚才出了点问题，请再说一次。")
		}),
	)
	if err != nil {
		log.Printf("handle inbound error: %v", err)
		a.send(chatID, "抱歉，刚才出了点问题，请再说一次。")
	}
}

// sendReply renders one engine reply: intervention first, then the next
// question, then the final report if the assessment just finished.
func (a *Adapter) sendReply(chatID int64, reply *types.TurnReply) {
	if reply.Intervention != nil {
		a.send(chatID, renderMessageKey(reply.Intervention.MessageKey))
	}
	if reply.Prompt != "" {
		a.send(chatID, reply.Prompt)
	}
	if reply.Finalize && reply.Result != nil {
		a.send(chatID, formatReport(reply.Result))
	}
}

func (a *Adapter) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	key := buildSessionKey(msg.From.ID, msg.Chat.ID)

	switch msg.Command() {
	case "start":
		a.send(chatID, "你好，我是心屿，一个倾听你心情的小助手。\n"+
			"最近过得怎么样？有什么想聊的都可以告诉我。\n"+
			"随时可以用 /restart 重新开始，用 /report 查看评估结果。")

	case "restart":
		if _, err := a.restart(ctx, key); err != nil {
			log.Printf("restart error: %v", err)
			a.send(chatID, "重新开始失败，请稍后再试。")
			return
		}
		a.send(chatID, "好的，我们重新开始。最近过得怎么样？")

	case "report":
		sid, err := a.sessions.ResolveOrCreate(ctx, key)
		if err != nil {
			a.send(chatID, "查询失败，请稍后再试。")
			return
		}
		result, err := a.reports.Get(ctx, sid)
		if err != nil {
			a.send(chatID, "本次评估还没有结束，暂时没有报告。")
			return
		}
		a.send(chatID, formatReport(result))

	case "status":
		sid, err := a.sessions.ResolveOrCreate(ctx, key)
		if err != nil {
			a.send(chatID, "查询失败，请稍后再试。")
			return
		}
		count, err := a.turns.Count(ctx, sid)
		if err != nil {
			a.send(chatID, "查询失败，请稍后再试。")
			return
		}
		a.send(chatID, fmt.Sprintf("当前会话：%s\n已交流 %d 轮。", sid, count))

	default:
		a.send(chatID, "可用命令：/start /restart /report /status")
	}
}

func formatReport(result *types.AssessmentResult) string {
	var b strings.Builder
	b.WriteString("本次交流的小结：\n")
	fmt.Fprintf(&b, "情绪低落相关：%d 分\n", result.DepressionTotal)
	fmt.Fprintf(&b, "焦虑相关：%d 分\n", result.AnxietyTotal)
	fmt.Fprintf(&b, "整体状态：%s\n", riskLabel(result.Risk))
	if len(result.Recommendations) > 0 {
		b.WriteString("建议：")
		b.WriteString(strings.Join(recommendationLabels(result.Recommendations), "、"))
	}
	return b.String()
}

func riskLabel(risk types.RiskLevel) string {
	switch risk {
	case types.RiskHigh:
		return "需要重点关注"
	case types.RiskMedium:
		return "需要留意"
	case types.RiskLow:
		return "轻微波动"
	default:
		return "状态平稳"
	}
}

var recommendationText = map[string]string{
	"seek_professional_help": "尽快寻求专业帮助",
	"contact_counselor":      "联系学校心理咨询中心",
	"crisis_hotline":         "保存心理援助热线 12356",
	"counseling_referral":    "考虑预约一次心理咨询",
	"monitor_mood":           "留意自己的情绪变化",
	"self_care":              "照顾好自己的作息",
	"stay_connected":         "多和朋友家人联系",
	"maintain_routine":       "保持现在的好状态",
}

func recommendationLabels(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if text, ok := recommendationText[key]; ok {
			out = append(out, text)
		}
	}
	return out
}

func (a *Adapter) send(chatID int64, text string) {
	parts := splitMessage(text)
	for _, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		if _, err := a.bot.Send(msg); err != nil {
			log.Printf("send message error: %v", err)
		}
	}
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}

func buildSessionKey(userID, chatID int64) types.SessionKey {
	return types.NewSessionKey("telegram",
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(chatID, 10),
	)
}
