package chart

import (
	"io"
	"strings"
)

// Chart is a rendered figure that can be serialized and carries text
// annotations a caller may suppress before saving.
type Chart interface {
	Annotations() []Annotation
	Save(w io.Writer) error
}

// Annotation is a free-text note drawn on a chart.
type Annotation interface {
	Text() string
	Hide()
	Visible() bool
}

// Note is the Annotation implementation used by Plot.
type Note struct {
	text   string
	hidden bool
}

// NewNote returns a visible annotation.
func NewNote(text string) *Note {
	return &Note{text: text}
}

func (n *Note) Text() string  { return n.text }
func (n *Note) Hide()         { n.hidden = true }
func (n *Note) Visible() bool { return !n.hidden }

// HideMatching hides every annotation whose text contains one of markers and
// returns how many were hidden.
func HideMatching(c Chart, markers ...string) int {
	hidden := 0

	for _, a := range c.Annotations() {
		if !a.Visible() {
			continue
		}

		for _, m := range markers {
			if strings.Contains(a.Text(), m) {
				a.Hide()
				hidden++

				break
			}
		}
	}

	return hidden
}
