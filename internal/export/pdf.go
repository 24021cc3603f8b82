package export

import (
	"bytes"
	"fmt"

	"github.com/MrJamesThe3rd/impactreport/internal/chart"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

// SuppressedNoteMarkers identify the model's own footnotes, which mean nothing
// to a report reader and are hidden before the chart is saved.
var SuppressedNoteMarkers = []string{"Note:", "observations were removed"}

// ChartPDF hides the model's footnotes on c and serializes it as a PDF.
func ChartPDF(c chart.Chart, subject string, p period.Period) (Artifact, error) {
	chart.HideMatching(c, SuppressedNoteMarkers...)

	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return Artifact{}, fmt.Errorf("saving chart: %w", err)
	}

	return Artifact{
		Filename:    filename("graph", subject, p.PreStart, p.PostEnd, "pdf"),
		ContentType: ContentTypePDF,
		Payload:     buf.Bytes(),
	}, nil
}
