package detail

import "github.com/MrJamesThe3rd/impactreport/internal/locale"

// Field is a column of the canonical detail report, in output order.
type Field int

const (
	FieldDate Field = iota
	FieldObserved
	FieldPredicted
	FieldPredictedLower
	FieldPredictedUpper
	FieldEffect
	FieldEffectLower
	FieldEffectUpper
	FieldCumObserved
	FieldCumPredicted
	FieldCumPredictedLower
	FieldCumPredictedUpper
	FieldCumEffect
	FieldCumEffectLower
	FieldCumEffectUpper

	NumFields
)

// column describes one canonical field: its machine key, its human labels and
// the raw column spellings accepted for it, most preferred first.
type column struct {
	Key        string
	LabelJA    string
	LabelEN    string
	Candidates []string
}

// schema is indexed by Field. Adding a spelling the model has started to emit
// is a matter of extending a Candidates list.
var schema = [NumFields]column{
	FieldDate: {
		Key: "date", LabelJA: "日付", LabelEN: "Date",
	},
	FieldObserved: {
		Key: "y", LabelJA: "実測値", LabelEN: "Actual",
	},
	FieldPredicted: {
		Key: "preds", LabelJA: "予測値", LabelEN: "Predicted",
		Candidates: []string{"preds", "predicted", "predicted_mean", "prediction", "pred_mean", "pred"},
	},
	FieldPredictedLower: {
		Key: "preds_lower", LabelJA: "予測値下限", LabelEN: "Predicted lower",
		Candidates: []string{"preds_lower", "predicted_lower", "prediction_lower", "pred_lower", "lower"},
	},
	FieldPredictedUpper: {
		Key: "preds_upper", LabelJA: "予測値上限", LabelEN: "Predicted upper",
		Candidates: []string{"preds_upper", "predicted_upper", "prediction_upper", "pred_upper", "upper"},
	},
	FieldEffect: {
		Key: "point_effects", LabelJA: "効果", LabelEN: "Effect",
		Candidates: []string{"point_effects", "point_effect", "effect", "effects"},
	},
	FieldEffectLower: {
		Key: "point_effects_lower", LabelJA: "効果下限", LabelEN: "Effect lower",
		Candidates: []string{"point_effects_lower", "effect_lower", "point_effect_lower", "effects_lower"},
	},
	FieldEffectUpper: {
		Key: "point_effects_upper", LabelJA: "効果上限", LabelEN: "Effect upper",
		Candidates: []string{"point_effects_upper", "effect_upper", "point_effect_upper", "effects_upper"},
	},
	FieldCumObserved: {
		Key: "post_cum_y", LabelJA: "累積実測値", LabelEN: "Cumulative actual",
		Candidates: []string{"post_cum_y", "cumulative_actual", "cum_actual", "actual_cum", "cumsum_actual"},
	},
	FieldCumPredicted: {
		Key: "post_cum_pred", LabelJA: "累積予測値", LabelEN: "Cumulative predicted",
		Candidates: []string{"post_cum_pred", "cumulative_predicted", "cum_predicted", "predicted_cum", "cumsum_predicted"},
	},
	FieldCumPredictedLower: {
		Key: "post_cum_pred_lower", LabelJA: "累積予測値下限", LabelEN: "Cumulative predicted lower",
		Candidates: []string{
			"post_cum_pred_lower", "cumulative_predicted_lower", "cum_predicted_lower",
			"predicted_cum_lower", "cumsum_predicted_lower",
		},
	},
	FieldCumPredictedUpper: {
		Key: "post_cum_pred_upper", LabelJA: "累積予測値上限", LabelEN: "Cumulative predicted upper",
		Candidates: []string{
			"post_cum_pred_upper", "cumulative_predicted_upper", "cum_predicted_upper",
			"predicted_cum_upper", "cumsum_predicted_upper",
		},
	},
	FieldCumEffect: {
		Key: "post_cum_effects", LabelJA: "累積効果", LabelEN: "Cumulative effect",
		Candidates: []string{"post_cum_effects", "cumulative_effect", "cum_effect", "effect_cum", "cumsum_effect"},
	},
	FieldCumEffectLower: {
		Key: "post_cum_effects_lower", LabelJA: "累積効果下限", LabelEN: "Cumulative effect lower",
		Candidates: []string{
			"post_cum_effects_lower", "cumulative_effect_lower", "cum_effect_lower",
			"effect_cum_lower", "cumsum_effect_lower",
		},
	},
	FieldCumEffectUpper: {
		Key: "post_cum_effects_upper", LabelJA: "累積効果上限", LabelEN: "Cumulative effect upper",
		Candidates: []string{
			"post_cum_effects_upper", "cumulative_effect_upper", "cum_effect_upper",
			"effect_cum_upper", "cumsum_effect_upper",
		},
	},
}

// Key is the machine-readable header of f.
func (f Field) Key() string {
	return schema[f].Key
}

// Label is the human-readable header of f.
func (f Field) Label(loc locale.Locale) string {
	if loc == locale.EN {
		return schema[f].LabelEN
	}

	return schema[f].LabelJA
}

// Candidates returns the raw column spellings accepted for f, in preference order.
func (f Field) Candidates() []string {
	return schema[f].Candidates
}

// Cumulative reports whether f is one of the post-period cumulative fields.
func (f Field) Cumulative() bool {
	return f >= FieldCumObserved && f < NumFields
}

// Fields returns every canonical field in output order.
func Fields() []Field {
	fields := make([]Field, NumFields)
	for i := range fields {
		fields[i] = Field(i)
	}

	return fields
}

// Headers returns the two header lines of the detail report: human labels and
// machine keys, both in canonical order.
func Headers(loc locale.Locale) (labels, keys []string) {
	labels = make([]string, NumFields)
	keys = make([]string, NumFields)

	for _, f := range Fields() {
		labels[f] = f.Label(loc)
		keys[f] = f.Key()
	}

	return labels, keys
}
