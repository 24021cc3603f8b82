package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// peekSize is how much of the input is inspected for BOMs and charset heuristics.
const peekSize = 4096

// Charset names the encoding detected for an input.
type Charset string

const (
	CharsetUTF8        Charset = "UTF-8"
	CharsetUTF8BOM     Charset = "UTF-8-BOM"
	CharsetUTF16LE     Charset = "UTF-16LE"
	CharsetUTF16BE     Charset = "UTF-16BE"
	CharsetShiftJIS    Charset = "Shift_JIS"
	CharsetEUCJP       Charset = "EUC-JP"
	CharsetWindows1252 Charset = "windows-1252"
)

// Detect inspects the leading bytes of an input and names its charset.
//
// Detection order:
//  1. BOM (UTF-8, UTF-16 LE/BE)
//  2. Valid UTF-8
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252
func Detect(buf []byte) Charset {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return CharsetUTF8BOM
	case bytes.HasPrefix(buf, bomUTF16LE):
		return CharsetUTF16LE
	case bytes.HasPrefix(buf, bomUTF16BE):
		return CharsetUTF16BE
	case utf8.Valid(buf):
		return CharsetUTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return CharsetUTF8
		case "Shift_JIS":
			return CharsetShiftJIS
		case "EUC-JP":
			return CharsetEUCJP
		}
	}

	return CharsetWindows1252
}

func decoderFor(cs Charset) xencoding.Encoding {
	switch cs {
	case CharsetUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case CharsetUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case CharsetShiftJIS:
		return japanese.ShiftJIS
	case CharsetEUCJP:
		return japanese.EUCJP
	case CharsetWindows1252:
		return charmap.Windows1252
	}

	return nil
}

// NewUTF8Reader detects the encoding of the input and returns a reader that
// yields UTF-8 with any UTF-8 BOM stripped. Spreadsheet exports of model
// output commonly arrive as BOM-prefixed UTF-8 or as Shift_JIS.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, peekSize)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	cs := Detect(buf)

	if cs == CharsetUTF8BOM {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if dec := decoderFor(cs); dec != nil {
		return transform.NewReader(br, dec.NewDecoder()), nil
	}

	return br, nil
}
