package results

import (
	"fmt"
	"io"
	"sort"

	svg "github.com/ajstarks/svgo"
)

const (
	panelW  = 420
	panelH  = 320
	margin  = 60
	chartW  = 2*panelW + 3*margin
	chartH  = panelH + 2*margin
	axisCSS = "stroke:gray;stroke-width:1"
	gridCSS = "stroke:lightgray;stroke-width:1"
	lineCSS = "fill:none;stroke:black;stroke-width:2"
	textCSS = "fill:black;font-size:14px;font-family:monospace"
)

// WriteCDFChart draws the two-panel distribution dashboard: the
// cumulative distribution of spill counts and of reported pressure
// across all records. An empty record set produces an empty canvas
// with axes only.
func WriteCDFChart(w io.Writer, recs []Record) {
	spills := make([]int, 0, len(recs))
	pressure := make([]int, 0, len(recs))
	for _, rec := range recs {
		spills = append(spills, rec.Spills)
		pressure = append(pressure, rec.Pressure)
	}

	p := svg.New(w)
	p.Start(chartW, chartH)
	p.Rect(0, 0, chartW, chartH, "fill:white")

	drawCDFPanel(p, margin, margin, "spills", spills)
	drawCDFPanel(p, 2*margin+panelW, margin, "pressure", pressure)

	p.End()
}

func drawCDFPanel(p *svg.SVG, x, y int, title string, data []int) {
	// Axes: y is the cumulative fraction, x the metric value.
	p.Line(x, y, x, y+panelH, axisCSS)
	p.Line(x, y+panelH, x+panelW, y+panelH, axisCSS)
	p.Text(x+panelW/2, y-10, title, textCSS+";text-anchor:middle")

	for _, frac := range []int{25, 50, 75} {
		gy := y + panelH - panelH*frac/100
		p.Line(x, gy, x+panelW, gy, gridCSS)
		p.Text(x-8, gy+5, fmt.Sprintf("%d%%", frac), textCSS+";text-anchor:end;font-size:11px")
	}

	if len(data) == 0 {
		return
	}

	sorted := append([]int(nil), data...)
	sort.Ints(sorted)
	max := sorted[len(sorted)-1]
	if max == 0 {
		max = 1
	}

	xs := make([]int, 0, len(sorted)+1)
	ys := make([]int, 0, len(sorted)+1)
	xs = append(xs, x)
	ys = append(ys, y+panelH)
	for i, v := range sorted {
		px := x + panelW*v/max
		py := y + panelH - panelH*(i+1)/len(sorted)
		xs = append(xs, px)
		ys = append(ys, py)
	}
	p.Polyline(xs, ys, lineCSS)

	p.Text(x, y+panelH+20, "0", textCSS+";font-size:11px")
	p.Text(x+panelW, y+panelH+20, fmt.Sprintf("%d", max), textCSS+";text-anchor:end;font-size:11px")
	p.Text(x+panelW/2, y+panelH+36, fmt.Sprintf("n=%d", len(sorted)), textCSS+";text-anchor:middle;font-size:11px")
}
