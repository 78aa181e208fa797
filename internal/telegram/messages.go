package telegram

// Intervention and report copy lives here, outside the engine: the engine
// only ever selects message keys.
var messageTemplates = map[string]string{
	"crisis.moderate": "听起来你最近承受了不少压力。如果愿意的话，可以多和我说说，" +
		"也可以找信任的朋友或老师聊一聊。",
	"crisis.high": "我有些担心你现在的状态。你并不需要独自面对这些，" +
		"学校心理咨询中心随时可以为你提供帮助。",
	"crisis.emergency": "我非常担心你的安全。请现在就联系学校心理咨询中心，" +
		"或拨打24小时心理援助热线 12356。你不是一个人。",
	"selfharm.support": "谢谢你愿意告诉我这些，我知道说出来并不容易。" +
		"你的感受很重要，你的安全也很重要。请立即拨打心理援助热线 12356，" +
		"或联系学校心理咨询中心，他们都经过专业培训，随时愿意倾听。",
}

const fallbackSupportMessage = "如果你现在感到难受，请联系学校心理咨询中心或拨打心理援助热线 12356。"

// renderMessageKey resolves a message key to its template, falling back to
// the generic support text for keys this build doesn't know.
func renderMessageKey(key string) string {
	if msg, ok := messageTemplates[key]; ok {
		return msg
	}
	return fallbackSupportMessage
}
