package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

// Bundle zips artifacts into a single download called name. Entry names must
// be unique.
func Bundle(name string, artifacts ...Artifact) (Artifact, error) {
	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	seen := make(map[string]struct{}, len(artifacts))

	for _, a := range artifacts {
		entry := filepath.Base(a.Filename)
		if _, dup := seen[entry]; dup {
			return Artifact{}, fmt.Errorf("duplicate bundle entry %q", entry)
		}

		seen[entry] = struct{}{}

		zf, err := zw.Create(entry)
		if err != nil {
			return Artifact{}, fmt.Errorf("adding %s: %w", entry, err)
		}

		if _, err := zf.Write(a.Payload); err != nil {
			return Artifact{}, fmt.Errorf("writing %s: %w", entry, err)
		}
	}

	if err := zw.Close(); err != nil {
		return Artifact{}, fmt.Errorf("closing zip: %w", err)
	}

	return Artifact{
		Filename:    name,
		ContentType: ContentTypeZIP,
		Payload:     buf.Bytes(),
	}, nil
}

// BundleName is the zip filename for all artifacts of one analysis.
func BundleName(subject string, p period.Period) string {
	return fmt.Sprintf("causal_impact_%s_%s_%s.zip",
		SanitizeSubject(subject), p.PreStart.Format(compactDate), p.PostEnd.Format(compactDate))
}
