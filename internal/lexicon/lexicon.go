// Package lexicon maps free text to weighted keyword hits for the two
// clinical scales, the topic taxonomy, and the crisis pattern sets.
// Matching is substring-based over case-normalized text: simple on purpose,
// so every hit can be traced back to an exact keyword.
package lexicon

import (
	"strings"

	"github.com/user/mindwell/internal/types"
)

// Matches is the result of scanning one utterance.
type Matches struct {
	Topics   []types.Topic
	Items    map[types.ItemID]int // item -> severity candidate (max across groups)
	Crisis   []string             // matched crisis keywords
	Recovery []string             // matched recovery keywords
}

type scaleGroup struct {
	item     types.ItemID
	severity int
	keywords []string
}

// Keyword tables are bilingual: the deployed audience writes Chinese, the
// English terms cover mixed-language input. Self-harm carries the highest
// fixed severity (3) on the single most safety-critical item.
var scaleGroups = []scaleGroup{
	{types.ItemInterest, 2, []string{"没兴趣", "提不起劲", "什么都不想做", "没意思", "lost interest", "nothing is fun", "don't enjoy"}},
	{types.ItemMood, 1, []string{"不开心", "难过", "心情不好", "郁闷", "sad", "unhappy", "feeling down"}},
	{types.ItemMood, 2, []string{"情绪低落", "想哭", "压抑", "很沮丧", "depressed", "miserable"}},
	{types.ItemSleep, 2, []string{"失眠", "睡不着", "睡不好", "早醒", "噩梦", "can't sleep", "insomnia", "sleep badly"}},
	{types.ItemSleep, 1, []string{"睡得多", "总想睡", "oversleep", "sleeping too much"}},
	{types.ItemEnergy, 2, []string{"没力气", "很累", "疲惫", "没精神", "exhausted", "no energy", "tired all the time"}},
	{types.ItemAppetite, 2, []string{"吃不下", "没胃口", "食欲", "暴食", "no appetite", "overeating", "can't eat"}},
	{types.ItemSelfWorth, 2, []string{"没用", "失败", "对不起", "一无是处", "讨厌自己", "worthless", "failure", "hate myself", "let everyone down"}},
	{types.ItemConcentration, 2, []string{"注意力", "没法集中", "走神", "记不住", "can't focus", "can't concentrate", "distracted"}},
	{types.ItemPsychomotor, 1, []string{"坐不住", "反应慢", "动作慢", "moving slowly", "fidgety", "restless body"}},
	{types.ItemSelfHarm, 3, []string{"想死", "自杀", "自残", "不想活", "轻生", "结束生命", "伤害自己", "suicide", "self-harm", "end my life", "want to die", "hurt myself", "kill myself"}},
	{types.ItemNervous, 2, []string{"紧张", "心慌", "不安", "nervous", "on edge", "anxious"}},
	{types.ItemWorryControl, 2, []string{"停不下来", "控制不住担心", "胡思乱想", "can't stop worrying", "racing thoughts"}},
	{types.ItemWorryExcess, 2, []string{"担心", "焦虑", "worry", "worried about everything"}},
	{types.ItemRelaxation, 2, []string{"放松不了", "无法放松", "绷着", "can't relax", "tense"}},
	{types.ItemRestless, 1, []string{"烦躁", "坐立不安", "静不下来", "restless", "can't sit still"}},
	{types.ItemIrritable, 1, []string{"易怒", "发脾气", "暴躁", "irritable", "easily annoyed", "short temper"}},
	{types.ItemFear, 2, []string{"害怕", "恐惧", "不好的事", "something awful", "scared", "dread"}},
}

var topicKeywords = map[types.Topic][]string{
	types.TopicMood:          {"心情", "情绪", "难过", "开心", "低落", "mood", "sad", "happy", "down"},
	types.TopicSleep:         {"睡", "失眠", "噩梦", "sleep", "insomnia", "dream"},
	types.TopicEnergy:        {"累", "没力气", "疲惫", "精神", "energy", "tired", "exhausted"},
	types.TopicAppetite:      {"吃", "胃口", "食欲", "appetite", "eat", "meal"},
	types.TopicSelfEsteem:    {"没用", "失败", "自己", "自信", "worthless", "failure", "confidence", "myself"},
	types.TopicConcentration: {"注意力", "集中", "学习", "走神", "focus", "concentrate", "study"},
	types.TopicAnxiety:       {"紧张", "焦虑", "担心", "害怕", "anxious", "worry", "nervous", "scared"},
	types.TopicSelfHarm:      {"想死", "自杀", "自残", "不想活", "轻生", "suicide", "self-harm", "die", "hurt myself"},
}

// Crisis keywords nudge the crisis score up; recovery keywords pull it down.
var crisisKeywords = []string{
	"绝望", "崩溃", "活不下去", "撑不下去", "没有希望", "熬不过去", "救救我",
	"hopeless", "can't go on", "give up", "breaking down", "no way out",
}

var recoveryKeywords = []string{
	"好多了", "好转", "好一些", "放松了", "能应付", "有希望", "慢慢来",
	"better now", "feeling better", "improving", "coping", "hopeful",
}

// Self-harm phrases that trigger the fast path directly.
var selfHarmPhrases = []string{
	"想死", "自杀", "自残", "不想活", "轻生", "结束生命",
	"suicide", "end my life", "want to die", "self-harm", "kill myself",
}

// First-person markers used by the die/death + self-reference rule.
var firstPersonMarkers = []string{"我", "my ", "myself", "me "}

// Hostile imperative patterns aimed at the assistant. These must never be
// read as self-referential self-harm.
var attackPhrases = []string{
	"你怎么不去死", "你去死", "你咋不去死", "你怎么不死", "去死吧你",
	"you go die", "go kill yourself", "you should die", "why don't you die",
}

var secondPersonMarkers = []string{"你", "you"}

var diePhrases = []string{"去死", "该死", "死一死", "die", "death"}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Match scans text and returns all topic, scale, crisis, and recovery hits.
// It is pure: identical text always yields identical hits. Empty or
// whitespace-only text yields no hits.
func Match(text string) Matches {
	m := Matches{Items: make(map[types.ItemID]int)}
	t := normalize(text)
	if t == "" {
		return m
	}

	for _, g := range scaleGroups {
		for _, kw := range g.keywords {
			if strings.Contains(t, kw) {
				if g.severity > m.Items[g.item] {
					m.Items[g.item] = g.severity
				}
				break
			}
		}
	}

	for topic, kws := range topicKeywords {
		for _, kw := range kws {
			if strings.Contains(t, kw) {
				m.Topics = append(m.Topics, topic)
				break
			}
		}
	}

	for _, kw := range crisisKeywords {
		if strings.Contains(t, kw) {
			m.Crisis = append(m.Crisis, kw)
		}
	}
	for _, kw := range recoveryKeywords {
		if strings.Contains(t, kw) {
			m.Recovery = append(m.Recovery, kw)
		}
	}

	return m
}

// DropSelfHarm removes self-harm hits from the match set. Used on turns
// where the attack guard fired, so hostile phrasing aimed at the assistant
// cannot raise the self-harm item.
func (m *Matches) DropSelfHarm() {
	delete(m.Items, types.ItemSelfHarm)
	for i, topic := range m.Topics {
		if topic == types.TopicSelfHarm {
			m.Topics = append(m.Topics[:i], m.Topics[i+1:]...)
			break
		}
	}
}

// AssistantAttack reports whether the text is a hostile imperative aimed at
// the assistant rather than a self-referential statement. Checked before
// SelfHarm; a match short-circuits both the fast path and the crisis score.
func AssistantAttack(text string) bool {
	t := normalize(text)
	if t == "" {
		return false
	}
	for _, p := range attackPhrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	second := false
	for _, p := range secondPersonMarkers {
		if strings.Contains(t, p) {
			second = true
			break
		}
	}
	if !second {
		return false
	}
	for _, p := range diePhrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

// SelfHarm reports whether the text matches the self-referential self-harm
// pattern: a direct phrase, or die/death wording combined with a
// first-person marker. Callers must run AssistantAttack first.
func SelfHarm(text string) bool {
	t := normalize(text)
	if t == "" {
		return false
	}
	for _, p := range selfHarmPhrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	if strings.Contains(t, "死") || strings.Contains(t, "die") || strings.Contains(t, "death") {
		for _, p := range firstPersonMarkers {
			if strings.Contains(t, p) {
				return true
			}
		}
		if strings.HasPrefix(t, "i ") || strings.Contains(t, " i ") {
			return true
		}
	}
	return false
}
