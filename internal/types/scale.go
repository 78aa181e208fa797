// internal/types/scale.go
package types

// Scale identifies one of the two standardized clinical scales.
type Scale string

const (
	ScaleDepression Scale = "depression"
	ScaleAnxiety    Scale = "anxiety"
)

// ItemID identifies a single clinical item. Items are scored 0-3 and each
// belongs to exactly one scale.
type ItemID string

// Depression-pattern items (9).
const (
	ItemInterest      ItemID = "dep_interest"
	ItemMood          ItemID = "dep_mood"
	ItemSleep         ItemID = "dep_sleep"
	ItemEnergy        ItemID = "dep_energy"
	ItemAppetite      ItemID = "dep_appetite"
	ItemSelfWorth     ItemID = "dep_self_worth"
	ItemConcentration ItemID = "dep_concentration"
	ItemPsychomotor   ItemID = "dep_psychomotor"
	ItemSelfHarm      ItemID = "dep_self_harm"
)

// Anxiety-pattern items (7).
const (
	ItemNervous      ItemID = "anx_nervous"
	ItemWorryControl ItemID = "anx_worry_control"
	ItemWorryExcess  ItemID = "anx_worry_excess"
	ItemRelaxation   ItemID = "anx_relaxation"
	ItemRestless     ItemID = "anx_restless"
	ItemIrritable    ItemID = "anx_irritable"
	ItemFear         ItemID = "anx_fear"
)

var depressionItems = []ItemID{
	ItemInterest, ItemMood, ItemSleep, ItemEnergy, ItemAppetite,
	ItemSelfWorth, ItemConcentration, ItemPsychomotor, ItemSelfHarm,
}

var anxietyItems = []ItemID{
	ItemNervous, ItemWorryControl, ItemWorryExcess, ItemRelaxation,
	ItemRestless, ItemIrritable, ItemFear,
}

// DepressionItems returns the 9 depression-pattern item IDs in fixed order.
func DepressionItems() []ItemID {
	out := make([]ItemID, len(depressionItems))
	copy(out, depressionItems)
	return out
}

// AnxietyItems returns the 7 anxiety-pattern item IDs in fixed order.
func AnxietyItems() []ItemID {
	out := make([]ItemID, len(anxietyItems))
	copy(out, anxietyItems)
	return out
}

// AllItems returns all 16 item IDs, depression scale first.
func AllItems() []ItemID {
	out := make([]ItemID, 0, len(depressionItems)+len(anxietyItems))
	out = append(out, depressionItems...)
	out = append(out, anxietyItems...)
	return out
}

// Scale returns the scale the item belongs to.
func (id ItemID) Scale() Scale {
	for _, it := range anxietyItems {
		if it == id {
			return ScaleAnxiety
		}
	}
	return ScaleDepression
}

// ValidItem reports whether id is one of the 16 known items.
func ValidItem(id ItemID) bool {
	for _, it := range depressionItems {
		if it == id {
			return true
		}
	}
	for _, it := range anxietyItems {
		if it == id {
			return true
		}
	}
	return false
}

// Topic is one of the 8 coarse coverage categories, distinct from scale items.
type Topic string

const (
	TopicMood          Topic = "mood"
	TopicSleep         Topic = "sleep"
	TopicEnergy        Topic = "energy"
	TopicAppetite      Topic = "appetite"
	TopicSelfEsteem    Topic = "self-esteem"
	TopicConcentration Topic = "concentration"
	TopicAnxiety       Topic = "anxiety"
	TopicSelfHarm      Topic = "self-harm"
)

// MaxSeverity is the per-item severity ceiling.
const MaxSeverity = 3
