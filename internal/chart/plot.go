package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/MrJamesThe3rd/impactreport/internal/detail"
	"github.com/MrJamesThe3rd/impactreport/internal/inference"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

var ErrNoData = errors.New("no plottable rows")

// DiffuseNote is the footnote added when leading observations had no
// prediction because the model was still initialising.
const DiffuseNote = "Note: %d observations were removed due to approximate diffuse initialization of the model."

const (
	defaultWidth  = 10 * vg.Inch
	defaultHeight = 8 * vg.Inch
	noteHeight    = 4 * vg.Millimeter
)

var (
	actualColor   = color.RGBA{A: 255}
	predColor     = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	bandColor     = color.RGBA{R: 31, G: 119, B: 180, A: 60}
	markerColor   = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	dateTickStyle = plot.TimeTicks{Format: "2006-01-02"}
)

// Options controls the rendered figure. Zero values pick sensible defaults.
type Options struct {
	Width  vg.Length
	Height vg.Length
	Locale locale.Locale
}

// Plot is a three-panel causal impact figure: actual vs predicted, pointwise
// effect and cumulative effect, stacked with a shared date axis.
type Plot struct {
	panels []*plot.Plot
	notes  []*Note
	width  vg.Length
	height vg.Length
}

// FromInferences renders the inference table over p. Rows without a
// prediction at the start of the table are dropped and reported in a footnote.
func FromInferences(t *inference.Table, p period.Period, opts Options) (*Plot, error) {
	rows := detail.Assemble(t, p)

	skipped := 0
	for skipped < len(rows) && !rows[skipped].Get(detail.FieldPredicted).Valid {
		skipped++
	}

	rows = rows[skipped:]
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	if opts.Width == 0 {
		opts.Width = defaultWidth
	}

	if opts.Height == 0 {
		opts.Height = defaultHeight
	}

	marker := float64(p.PostStart.Unix())

	original, err := panel(opts.Locale.T(locale.ChartObservedTitle), rows, marker,
		band{detail.FieldPredictedLower, detail.FieldPredictedUpper},
		trace{detail.FieldObserved, "y", actualColor, false},
		trace{detail.FieldPredicted, "Predicted", predColor, true},
	)
	if err != nil {
		return nil, fmt.Errorf("original panel: %w", err)
	}

	pointwise, err := panel(opts.Locale.T(locale.ChartEffectTitle), rows, marker,
		band{detail.FieldEffectLower, detail.FieldEffectUpper},
		trace{detail.FieldEffect, "Point Effects", predColor, true},
	)
	if err != nil {
		return nil, fmt.Errorf("pointwise panel: %w", err)
	}

	cumulative, err := panel(opts.Locale.T(locale.ChartCumTitle), rows, marker,
		band{detail.FieldCumEffectLower, detail.FieldCumEffectUpper},
		trace{detail.FieldCumEffect, "Cumulative Effect", predColor, true},
	)
	if err != nil {
		return nil, fmt.Errorf("cumulative panel: %w", err)
	}

	out := &Plot{
		panels: []*plot.Plot{original, pointwise, cumulative},
		width:  opts.Width,
		height: opts.Height,
	}

	if skipped > 0 {
		out.AddNote(fmt.Sprintf(DiffuseNote, skipped))
	}

	return out, nil
}

// AddNote appends a visible footnote.
func (p *Plot) AddNote(s string) *Note {
	n := NewNote(s)
	p.notes = append(p.notes, n)

	return n
}

func (p *Plot) Annotations() []Annotation {
	out := make([]Annotation, len(p.notes))
	for i, n := range p.notes {
		out[i] = n
	}

	return out
}

// Save writes the figure as a single PDF page sized to the figure, with
// visible notes below the panels.
func (p *Plot) Save(w io.Writer) error {
	var visible []*Note

	for _, n := range p.notes {
		if n.Visible() {
			visible = append(visible, n)
		}
	}

	c := vgpdf.New(p.width, p.height)
	dc := draw.New(c)

	body := dc
	if len(visible) > 0 {
		body = draw.Crop(dc, 0, 0, noteHeight*vg.Length(len(visible)+1), 0)
	}

	grid := make([][]*plot.Plot, len(p.panels))
	for i, pl := range p.panels {
		grid[i] = []*plot.Plot{pl}
	}

	tiles := draw.Tiles{
		Rows:      len(p.panels),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      3 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  4 * vg.Millimeter,
	}

	canvases := plot.Align(grid, tiles, body)
	for i := range grid {
		grid[i][0].Draw(canvases[i][0])
	}

	sty := p.panels[0].X.Label.TextStyle
	sty.Font.Size = vg.Points(7)
	sty.XAlign = text.XLeft
	sty.YAlign = text.YBottom

	for i, n := range visible {
		pt := vg.Point{
			X: dc.Min.X + 2*vg.Millimeter,
			Y: dc.Min.Y + noteHeight*vg.Length(len(visible)-i),
		}
		dc.FillText(sty, pt, n.Text())
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	return nil
}

type trace struct {
	field  detail.Field
	name   string
	color  color.Color
	dashed bool
}

type band struct {
	lower, upper detail.Field
}

func panel(title string, rows []detail.Row, marker float64, b band, traces ...trace) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Tick.Marker = dateTickStyle
	p.Legend.Top = true
	p.Legend.Left = true

	for _, seg := range bandSegments(rows, b) {
		poly, err := plotter.NewPolygon(seg)
		if err != nil {
			return nil, fmt.Errorf("interval band: %w", err)
		}

		poly.Color = bandColor
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	for _, tr := range traces {
		xys := points(rows, tr.field)
		if len(xys) == 0 {
			continue
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", tr.name, err)
		}

		line.LineStyle.Color = tr.color
		line.LineStyle.Width = vg.Points(1)

		if tr.dashed {
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}

		p.Add(line)
		p.Legend.Add(tr.name, line)
	}

	if err := addGuides(p, marker); err != nil {
		return nil, err
	}

	return p, nil
}

// addGuides draws the intervention marker and, when the panel spans zero, the
// zero baseline.
func addGuides(p *plot.Plot, marker float64) error {
	ymin, ymax := p.Y.Min, p.Y.Max
	if math.IsInf(ymin, 0) || math.IsInf(ymax, 0) {
		ymin, ymax = 0, 0
	}

	if ymin == ymax {
		ymin, ymax = ymin-1, ymax+1
	}

	vline, err := plotter.NewLine(plotter.XYs{{X: marker, Y: ymin}, {X: marker, Y: ymax}})
	if err != nil {
		return fmt.Errorf("intervention marker: %w", err)
	}

	vline.LineStyle.Color = markerColor
	vline.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(vline)

	if ymin < 0 && ymax > 0 && p.X.Min < p.X.Max {
		zero, err := plotter.NewLine(plotter.XYs{{X: p.X.Min, Y: 0}, {X: p.X.Max, Y: 0}})
		if err != nil {
			return fmt.Errorf("zero baseline: %w", err)
		}

		zero.LineStyle.Color = markerColor
		zero.LineStyle.Width = vg.Points(0.5)
		p.Add(zero)
	}

	return nil
}

func points(rows []detail.Row, f detail.Field) plotter.XYs {
	xys := make(plotter.XYs, 0, len(rows))

	for _, r := range rows {
		v := r.Get(f)
		if !v.Valid {
			continue
		}

		xys = append(xys, plotter.XY{X: x(r.Date), Y: v.Decimal.InexactFloat64()})
	}

	return xys
}

// bandSegments returns one closed polygon per run of rows that have both
// bounds.
func bandSegments(rows []detail.Row, b band) []plotter.XYs {
	var (
		segs         []plotter.XYs
		upper, lower plotter.XYs
	)

	flush := func() {
		if len(upper) > 1 {
			seg := make(plotter.XYs, 0, len(upper)*2)
			seg = append(seg, upper...)

			for i := len(lower) - 1; i >= 0; i-- {
				seg = append(seg, lower[i])
			}

			segs = append(segs, seg)
		}

		upper, lower = nil, nil
	}

	for _, r := range rows {
		lo, hi := r.Get(b.lower), r.Get(b.upper)
		if !lo.Valid || !hi.Valid {
			flush()
			continue
		}

		upper = append(upper, plotter.XY{X: x(r.Date), Y: hi.Decimal.InexactFloat64()})
		lower = append(lower, plotter.XY{X: x(r.Date), Y: lo.Decimal.InexactFloat64()})
	}

	flush()

	return segs
}

func x(t time.Time) float64 {
	return float64(t.Unix())
}
