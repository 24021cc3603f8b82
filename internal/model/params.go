package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Seasonality is the length of the seasonal cycle the model accounts for.
type Seasonality string

const (
	SeasonalityWeekly    Seasonality = "weekly"
	SeasonalityDekad     Seasonality = "dekad"
	SeasonalityMonthly   Seasonality = "monthly"
	SeasonalityQuarterly Seasonality = "quarterly"
	SeasonalityYearly    Seasonality = "yearly"
	SeasonalityCustom    Seasonality = "custom"
)

// DefaultCustomPeriod is used for a custom seasonality with no period given.
const DefaultCustomPeriod = 7

var seasonalityDays = map[Seasonality]int{
	SeasonalityWeekly:    7,
	SeasonalityDekad:     10,
	SeasonalityMonthly:   30,
	SeasonalityQuarterly: 90,
	SeasonalityYearly:    365,
}

// seasonalityAliases maps the labels shown in the Japanese UI onto the
// canonical names.
var seasonalityAliases = map[string]Seasonality{
	"週次 (7日)":   SeasonalityWeekly,
	"旬次 (10日)":  SeasonalityDekad,
	"月次 (30日)":  SeasonalityMonthly,
	"四半期 (90日)": SeasonalityQuarterly,
	"年次 (365日)": SeasonalityYearly,
	"カスタム":      SeasonalityCustom,
}

// Seasonalities lists the choices in the order a UI presents them.
func Seasonalities() []Seasonality {
	return []Seasonality{
		SeasonalityWeekly, SeasonalityDekad, SeasonalityMonthly,
		SeasonalityQuarterly, SeasonalityYearly, SeasonalityCustom,
	}
}

// ParseSeasonality accepts a canonical name or a Japanese UI label.
func ParseSeasonality(s string) (Seasonality, error) {
	s = strings.TrimSpace(s)

	if alias, ok := seasonalityAliases[s]; ok {
		return alias, nil
	}

	v := Seasonality(strings.ToLower(s))
	if _, ok := seasonalityDays[v]; ok || v == SeasonalityCustom {
		return v, nil
	}

	return "", fmt.Errorf("unknown seasonality %q", s)
}

// Params are the fitting parameters sent to the model.
type Params struct {
	Alpha             float64 `json:"alpha"`
	Seasonal          bool    `json:"seasonality"`
	SeasonalityPeriod *int    `json:"seasonality_period"`
	PriorLevelSD      float64 `json:"prior_level_sd"`
	Standardize       bool    `json:"standardize"`
	NIter             int     `json:"niter"`
}

// ParamsInput is the user's choice of parameters before normalisation.
type ParamsInput struct {
	Alpha        float64
	Seasonal     bool
	Seasonality  Seasonality
	CustomPeriod *int
	PriorLevelSD float64
	Standardize  bool
	NIter        int
}

// DefaultParamsInput mirrors the model's own defaults.
func DefaultParamsInput() ParamsInput {
	return ParamsInput{
		Alpha:        0.05,
		Seasonality:  SeasonalityWeekly,
		PriorLevelSD: 0.01,
		Standardize:  true,
		NIter:        1000,
	}
}

// BuildParams resolves the seasonal period. Without seasonality the period is
// nil; a custom seasonality without a period falls back to a week.
func BuildParams(in ParamsInput) Params {
	p := Params{
		Alpha:        in.Alpha,
		Seasonal:     in.Seasonal,
		PriorLevelSD: in.PriorLevelSD,
		Standardize:  in.Standardize,
		NIter:        in.NIter,
	}

	if !in.Seasonal {
		return p
	}

	days, ok := seasonalityDays[in.Seasonality]
	switch {
	case ok:
	case in.CustomPeriod != nil:
		days = *in.CustomPeriod
	default:
		days = DefaultCustomPeriod
	}

	p.SeasonalityPeriod = &days

	return p
}

// ConfidencePercent is the interval width implied by Alpha, e.g. 95 for 0.05.
func (p Params) ConfidencePercent() int {
	return ConfidencePercent(p.Alpha)
}

// ConfidencePercent converts a significance level into a whole percentage.
func ConfidencePercent(alpha float64) int {
	return int(math.Round((1 - alpha) * 100))
}

// ParseAlpha accepts either a significance level (0.05) or a confidence
// percentage (95).
func ParseAlpha(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid alpha %q: %w", s, err)
	}

	if v > 1 && v < 100 {
		v = 1 - v/100
	}

	if v <= 0 || v >= 1 {
		return 0, fmt.Errorf("alpha %q out of range", s)
	}

	return v, nil
}
