package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeZIP  = "application/zip"
)

const compactDate = "20060102"

// Artifact is an encoded report file held in memory. Delivering it is the
// caller's job.
type Artifact struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// Metadata describes the analysis a summary belongs to.
type Metadata struct {
	Subject           string
	Period            period.Period
	ConfidencePercent int
}

// WriteDir writes every artifact into dir, creating it if needed, and returns
// the written paths.
func WriteDir(dir string, artifacts ...Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	paths := make([]string, 0, len(artifacts))

	for _, a := range artifacts {
		path := filepath.Join(dir, filepath.Base(a.Filename))
		if err := os.WriteFile(path, a.Payload, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", a.Filename, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func filename(kind, subject string, from, to time.Time, ext string) string {
	return fmt.Sprintf("causal_impact_%s_%s_%s_%s.%s",
		kind, SanitizeSubject(subject), from.Format(compactDate), to.Format(compactDate), ext)
}

// SanitizeSubject makes a subject name safe as a filename component. Only
// characters that filesystems reject are replaced; everything else, including
// non-ASCII text, is kept.
func SanitizeSubject(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}

		if r < 0x20 {
			return '_'
		}

		return r
	}, strings.TrimSpace(s))

	if s == "" {
		return "untitled"
	}

	return s
}
