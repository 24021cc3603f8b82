package commands_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/impactreport/cmd/cli/internal/commands"
	"github.com/MrJamesThe3rd/impactreport/internal/config"
	"github.com/MrJamesThe3rd/impactreport/internal/http/auth"
)

const summaryText = `Posterior Inference {Causal Impact}
                          Average            Cumulative
Actual                    110.0              1100.0
Prediction (s.d.)         100.0 (1.0)        1000.0 (10.0)
`

func writeInputs(t *testing.T) (summaryPath, inferencesPath string) {
	t.Helper()

	dir := t.TempDir()

	var b strings.Builder
	b.WriteString("date,preds,preds_lower,preds_upper,point_effects,point_effects_lower,point_effects_upper,post_cum_effects,post_cum_effects_lower,post_cum_effects_upper\n")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 30 {
		fmt.Fprintf(&b, "%s,%d,%d,%d,1,0,2,%d,%d,%d\n",
			start.AddDate(0, 0, i).Format(time.DateOnly), 100+i, 95+i, 105+i, i, i-2, i+2)
	}

	summaryPath = filepath.Join(dir, "summary.txt")
	inferencesPath = filepath.Join(dir, "inferences.csv")

	require.NoError(t, os.WriteFile(summaryPath, []byte(summaryText), 0o600))
	require.NoError(t, os.WriteFile(inferencesPath, []byte(b.String()), 0o600))

	return summaryPath, inferencesPath
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestExportCmd(t *testing.T) {
	type testCase struct {
		name      string
		extra     []string
		wantFiles []string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "SeparateFiles",
			wantFiles: []string{
				"causal_impact_summary_shop_20240101_20240130.csv",
				"causal_impact_detail_shop_20240121_20240130.csv",
				"causal_impact_detail_shop_20240121_20240130.xlsx",
				"causal_impact_graph_shop_20240101_20240130.pdf",
			},
		},
		{
			name:      "Zip",
			extra:     []string{"--zip"},
			wantFiles: []string{"causal_impact_shop_20240101_20240130.zip"},
		},
		{
			name:    "OverlappingPeriod",
			extra:   []string{"--post-start", "2024-01-15"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaryPath, inferencesPath := writeInputs(t)
			out := t.TempDir()

			cmd := commands.NewExportCmd(discard(), "en")

			var stdout bytes.Buffer
			cmd.SetOut(&stdout)
			cmd.SetErr(&bytes.Buffer{})

			args := []string{
				"--summary", summaryPath,
				"--inferences", inferencesPath,
				"--subject", "shop",
				"--pre-start", "2024-01-01",
				"--pre-end", "2024-01-20",
				"--post-start", "2024-01-21",
				"--post-end", "2024-01-30",
				"--out", out,
			}
			cmd.SetArgs(append(args, tt.extra...))

			err := cmd.ExecuteContext(context.Background())
			if tt.wantErr {
				assert.Error(t, err)

				entries, readErr := os.ReadDir(out)
				require.NoError(t, readErr)
				assert.Empty(t, entries)

				return
			}

			require.NoError(t, err)

			entries, err := os.ReadDir(out)
			require.NoError(t, err)

			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}

			assert.ElementsMatch(t, tt.wantFiles, names)
			assert.Equal(t, len(tt.wantFiles), strings.Count(stdout.String(), "\n"))
		})
	}
}

func TestTokenCmd(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "secret"

	cmd := commands.NewTokenCmd(cfg)

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--subject", "analyst", "--ttl", "1h"})

	require.NoError(t, cmd.Execute())

	subject, err := auth.ValidateToken([]byte("secret"), strings.TrimSpace(stdout.String()))
	require.NoError(t, err)
	assert.Equal(t, "analyst", subject)
}

func TestTokenCmd_NoSecret(t *testing.T) {
	cmd := commands.NewTokenCmd(&config.Config{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--subject", "analyst"})

	assert.Error(t, cmd.Execute())
}
