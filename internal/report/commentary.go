package report

import (
	"github.com/cleared-dev/reclass/internal/ratios"
)

// Area is a commentary topic.
type Area string

const (
	AreaLiquidity     Area = "Liquidity"
	AreaProfitability Area = "Profitability"
	AreaIndebtedness  Area = "Indebtedness"
	AreaEfficiency    Area = "Efficiency"
)

// Comment is one narrative remark on a ratio.
type Comment struct {
	Area  Area
	Ratio ratios.Name
	Level ratios.Level
	Text  string
}

// commentRule drives one area's remark off a single ratio's indicator.
type commentRule struct {
	area  Area
	ratio ratios.Name
	text  map[ratios.Level]string
}

var commentRules = []commentRule{
	{
		area:  AreaLiquidity,
		ratio: ratios.CurrentRatio,
		text: map[ratios.Level]string{
			ratios.LevelCritical: "The ability to meet short-term obligations is critical. Consider strengthening cash reserves or renegotiating short-term debt.",
			ratios.LevelCaution:  "Adequate, but can improve by shortening collection days or optimizing inventory.",
			ratios.LevelGood:     "Excellent short-term financial solidity.",
		},
	},
	{
		area:  AreaProfitability,
		ratio: ratios.ROE,
		text: map[ratios.Level]string{
			ratios.LevelCritical: "Return on equity is low. Analyze the causes and evaluate efficiency plans.",
			ratios.LevelCaution:  "In line with the average, with room for improvement.",
			ratios.LevelGood:     "Excellent ability to reward invested capital.",
		},
	},
	{
		area:  AreaIndebtedness,
		ratio: ratios.Leverage,
		text: map[ratios.Level]string{
			ratios.LevelCritical: "The company is highly indebted. Watch the sustainability of financial charges.",
			ratios.LevelCaution:  "Moderate, monitor cash-flow dynamics.",
			ratios.LevelGood:     "Solid financial balance.",
		},
	},
	{
		area:  AreaEfficiency,
		ratio: ratios.InventoryTurnover,
		text: map[ratios.Level]string{
			ratios.LevelCritical: "Inventory turns slowly. Possible overstock or obsolescence.",
			ratios.LevelCaution:  "Acceptable turnover, can be optimized.",
			ratios.LevelGood:     "Excellent inventory management.",
		},
	},
}

// narrativeThresholds fixes the cut-offs behind the remarks. Configured
// thresholds only move the indicators in the ratio tables.
var narrativeThresholds = ratios.DefaultThresholds()

// Commentary returns the narrative remarks for a ratio set, one per area.
func Commentary(set ratios.Set) []Comment {
	out := make([]Comment, 0, len(commentRules))
	for _, rule := range commentRules {
		r, ok := set.Get(rule.ratio)
		if !ok {
			continue
		}
		level := ratios.Indicate(rule.ratio, r.Value, narrativeThresholds[rule.ratio])
		out = append(out, Comment{
			Area:  rule.area,
			Ratio: rule.ratio,
			Level: level,
			Text:  rule.text[level],
		})
	}
	return out
}
