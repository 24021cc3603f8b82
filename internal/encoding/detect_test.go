package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"

	"github.com/MrJamesThe3rd/impactreport/internal/encoding"
)

func readAll(t *testing.T, in []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(in))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "日付,予測値,効果\n2024-01-01,10.5,0.5\n"
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("index,preds\n")...)
	assert.Equal(t, "index,preds\n", readAll(t, input))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Café;Thé;Né\n"))
	require.NoError(t, err)

	assert.Equal(t, "Café;Thé;Né\n", readAll(t, latin1))
}

func TestNewUTF8Reader_ShiftJIS(t *testing.T) {
	text := strings.Repeat("日付,実測値,予測値,予測値下限,予測値上限,効果,累積効果\n", 20)

	sjis, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	assert.Equal(t, encoding.CharsetShiftJIS, encoding.Detect(sjis))
	assert.Equal(t, text, readAll(t, sjis))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	assert.Equal(t, "", readAll(t, nil))
}

func TestDetect_UTF16(t *testing.T) {
	assert.Equal(t, encoding.CharsetUTF16LE, encoding.Detect([]byte{0xFF, 0xFE, 'a', 0}))
	assert.Equal(t, encoding.CharsetUTF16BE, encoding.Detect([]byte{0xFE, 0xFF, 0, 'a'}))
}

func TestWithBOM(t *testing.T) {
	out, err := encoding.WithBOM([]byte("指標,値\n"))
	require.NoError(t, err)

	assert.True(t, encoding.HasBOM(out))
	assert.Equal(t, "指標,値\n", string(out[3:]))

	// Already-prefixed text keeps a single mark.
	again, err := encoding.WithBOM(out)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}
