package inference_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/impactreport/internal/inference"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestReadCSV(t *testing.T) {
	type testCase struct {
		name    string
		csv     string
		wantLen int
		verify  func(t *testing.T, tbl *inference.Table)
		wantErr bool
	}

	tests := []testCase{
		{
			name: "PandasUnnamedIndex",
			csv: `,preds,preds_lower,point_effects
2024-01-01,10.5,9.0,0.5
2024-01-02,11,,-1.25
`,
			wantLen: 2,
			verify: func(t *testing.T, tbl *inference.Table) {
				assert.Equal(t, []string{"preds", "preds_lower", "point_effects"}, tbl.Columns)
				assert.Equal(t, date(2024, 1, 2), tbl.Dates[1])

				preds := tbl.Column("preds")
				assert.True(t, preds[0].Valid)
				assert.True(t, preds[0].Decimal.Equal(decimal.RequireFromString("10.5")))

				assert.False(t, tbl.Column("preds_lower")[1].Valid)
				assert.Equal(t, "-1.25", tbl.Column("point_effects")[1].Decimal.String())
			},
		},
		{
			name: "NamedDateColumnNotFirst",
			csv: `predicted_mean,date,effect
1,2024/02/10,2
NaN,2024/02/11,3
`,
			wantLen: 2,
			verify: func(t *testing.T, tbl *inference.Table) {
				assert.Equal(t, []string{"predicted_mean", "effect"}, tbl.Columns)
				assert.Equal(t, date(2024, 2, 10), tbl.Dates[0])
				assert.False(t, tbl.Column("predicted_mean")[1].Valid)
			},
		},
		{
			name: "SemicolonDelimitedWithFooter",
			csv: `index;preds;effect
2024-01-01 00:00:00;1.5;0.5
Total;;
`,
			wantLen: 1,
			verify: func(t *testing.T, tbl *inference.Table) {
				assert.True(t, tbl.Has("preds"))
				assert.False(t, tbl.Has("index"))
			},
		},
		{
			name: "ScientificNotation",
			csv: `date,preds
2024-01-01,1.5e-03
`,
			wantLen: 1,
			verify: func(t *testing.T, tbl *inference.Table) {
				assert.Equal(t, "0.0015", tbl.Column("preds")[0].Decimal.String())
			},
		},
		{
			name:    "HeaderOnly",
			csv:     "date,preds\n",
			wantLen: 0,
		},
		{
			name:    "Empty",
			csv:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inference.ReadCSV(strings.NewReader(tt.csv))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, got.Len())

			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}

func TestReadCSV_BOMPrefixed(t *testing.T) {
	csv := "\xEF\xBB\xBF日付,preds\n2024-03-01,7\n"

	tbl, err := inference.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, []string{"preds"}, tbl.Columns)
}

func TestFromSplit(t *testing.T) {
	payload := `{
		"columns": ["preds", "point_effects"],
		"index": [1704067200000, "2024-01-02"],
		"data": [[10.5, 0.5], [null, 1]]
	}`

	var s inference.Split
	require.NoError(t, json.Unmarshal([]byte(payload), &s))

	tbl, err := inference.FromSplit(s)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	assert.Equal(t, date(2024, 1, 1), tbl.Dates[0])
	assert.Equal(t, date(2024, 1, 2), tbl.Dates[1])
	assert.Equal(t, "10.5", tbl.Column("preds")[0].Decimal.String())
	assert.False(t, tbl.Column("preds")[1].Valid)
	assert.Equal(t, "1", tbl.Column("point_effects")[1].Decimal.String())
}

func TestFromSplit_Mismatch(t *testing.T) {
	_, err := inference.FromSplit(inference.Split{
		Columns: []string{"preds"},
		Index:   []json.RawMessage{json.RawMessage(`"2024-01-01"`)},
	})
	assert.Error(t, err)
}

func TestTable_AddColumn(t *testing.T) {
	tbl := inference.NewTable([]time.Time{date(2024, 1, 1)})

	require.NoError(t, tbl.AddColumn("a", []decimal.NullDecimal{inference.Value(decimal.NewFromInt(1))}))
	require.NoError(t, tbl.AddColumn("a", []decimal.NullDecimal{inference.Null}))
	assert.Equal(t, []string{"a"}, tbl.Columns)
	assert.True(t, tbl.Column("a")[0].Valid)

	assert.Error(t, tbl.AddColumn("b", nil))
	assert.Nil(t, tbl.Column("missing"))
}

func TestTable_AddColumn_ZeroValue(t *testing.T) {
	tbl := &inference.Table{Dates: []time.Time{date(2024, 1, 1)}}

	assert.False(t, tbl.Has("a"))
	require.NoError(t, tbl.AddColumn("a", []decimal.NullDecimal{inference.Value(decimal.NewFromInt(2))}))
	assert.True(t, tbl.Has("a"))
	assert.Equal(t, []string{"a"}, tbl.Columns)
	assert.Equal(t, 1, tbl.Len())
}
