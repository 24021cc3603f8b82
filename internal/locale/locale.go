package locale

import (
	"fmt"
	"strings"
)

// Locale selects which side of the report's bilingual labeling is rendered.
type Locale string

const (
	JA Locale = "ja"
	EN Locale = "en"
)

// Default is used whenever a caller passes an empty or unknown locale.
const Default = JA

// Parse maps user input ("ja", "EN", "en_US.UTF-8", ...) to a supported locale.
func Parse(s string) Locale {
	s = strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.HasPrefix(s, "en"):
		return EN
	case strings.HasPrefix(s, "ja"):
		return JA
	}

	return Default
}

// Key identifies a message in the catalog.
type Key string

const (
	SameAsLeft         Key = "same_as_left"
	PValueLabel        Key = "p_value_label"
	RowFallback        Key = "row_fallback"
	PeriodOrderError   Key = "period_order_error"
	MetaItem           Key = "meta_item"
	MetaValue          Key = "meta_value"
	MetaSubject        Key = "meta_subject"
	MetaPeriod         Key = "meta_period"
	MetaConfidence     Key = "meta_confidence"
	ColumnMetric       Key = "column_metric"
	ColumnAverage      Key = "column_average"
	ColumnCumulative   Key = "column_cumulative"
	DetailFooter       Key = "detail_footer"
	MetricObserved     Key = "metric_observed"
	MetricPredicted    Key = "metric_predicted"
	MetricPredictedCI  Key = "metric_predicted_ci"
	MetricAbsEffect    Key = "metric_abs_effect"
	MetricAbsEffectCI  Key = "metric_abs_effect_ci"
	MetricRelEffect    Key = "metric_rel_effect"
	MetricRelEffectCI  Key = "metric_rel_effect_ci"
	RangeSeparator     Key = "range_separator"
	ChartObservedTitle Key = "chart_observed_title"
	ChartEffectTitle   Key = "chart_effect_title"
	ChartCumTitle      Key = "chart_cum_title"
)

var catalog = map[Locale]map[Key]string{
	JA: {
		SameAsLeft:         "同左",
		PValueLabel:        "p値 (事後確率)",
		RowFallback:        "行%d",
		PeriodOrderError:   "⚠ 分析期間の設定エラー：介入期間の開始日（%s）は、介入前期間の終了日（%s）より後の日付を指定してください。",
		MetaItem:           "項目",
		MetaValue:          "値",
		MetaSubject:        "分析対象",
		MetaPeriod:         "分析期間",
		MetaConfidence:     "信頼水準",
		ColumnMetric:       "指標",
		ColumnAverage:      "分析期間の平均値",
		ColumnCumulative:   "分析期間の累積値",
		DetailFooter:       "※I～O列の累積値は、介入期間のみ出力しています（介入期間外は空欄）。",
		MetricObserved:     "実測値",
		MetricPredicted:    "予測値 (標準偏差)",
		MetricPredictedCI:  "予測値 %d%% 信頼区間",
		MetricAbsEffect:    "絶対効果 (標準偏差)",
		MetricAbsEffectCI:  "絶対効果 %d%% 信頼区間",
		MetricRelEffect:    "相対効果 (標準偏差)",
		MetricRelEffectCI:  "相対効果 %d%% 信頼区間",
		RangeSeparator:     " ～ ",
		ChartObservedTitle: "Original",
		ChartEffectTitle:   "Pointwise",
		ChartCumTitle:      "Cumulative",
	},
	EN: {
		SameAsLeft:         "same-as-left",
		PValueLabel:        "p-value (posterior probability)",
		RowFallback:        "Row %d",
		PeriodOrderError:   "Invalid analysis period: the intervention start date (%s) must be after the pre-period end date (%s).",
		MetaItem:           "Item",
		MetaValue:          "Value",
		MetaSubject:        "Subject",
		MetaPeriod:         "Period",
		MetaConfidence:     "Confidence level",
		ColumnMetric:       "Metric",
		ColumnAverage:      "Average",
		ColumnCumulative:   "Cumulative",
		DetailFooter:       "* Cumulative values in columns I-O are reported for the intervention period only (blank outside it).",
		MetricObserved:     "Actual",
		MetricPredicted:    "Prediction (s.d.)",
		MetricPredictedCI:  "Prediction %d%% CI",
		MetricAbsEffect:    "Absolute effect (s.d.)",
		MetricAbsEffectCI:  "Absolute effect %d%% CI",
		MetricRelEffect:    "Relative effect (s.d.)",
		MetricRelEffectCI:  "Relative effect %d%% CI",
		RangeSeparator:     " ~ ",
		ChartObservedTitle: "Original",
		ChartEffectTitle:   "Pointwise",
		ChartCumTitle:      "Cumulative",
	},
}

// T returns the message for key in l, falling back to the default locale and
// finally to the key itself.
func (l Locale) T(key Key, args ...any) string {
	msg, ok := catalog[l][key]
	if !ok {
		msg, ok = catalog[Default][key]
	}

	if !ok {
		return string(key)
	}

	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}

	return msg
}

// RelativeEffectTerms lists the spellings of "relative effect" recognised in
// model output regardless of the report locale.
var RelativeEffectTerms = []string{"相対効果", "relative effect"}

// MentionsRelativeEffect reports whether s names the relative-effect metric
// family in either language.
func MentionsRelativeEffect(s string) bool {
	lower := strings.ToLower(s)
	for _, term := range RelativeEffectTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}

	return false
}
