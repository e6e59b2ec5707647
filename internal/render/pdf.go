// Package render draws a board as a PDF: one row per trip, one column per
// UTC day, each segment placed by minute within its cell and offset by lane.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"tripboard/internal/model"
)

// https://godoc.org/github.com/jung-kurt/gofpdf

// Layout of the page, in mm.
var (
	Margin      = 10.0
	LabelWidth  = 48.0
	HeaderH     = 10.0
	LaneH       = 4.0
	MinRowH     = 9.0
	SegmentPadV = 0.6
)

var severityColors = map[model.Severity][3]int{
	model.SeverityGrey:  {0xB0, 0xB0, 0xB0},
	model.SeverityRed:   {0xD9, 0x3A, 0x2B},
	model.SeverityAmber: {0xF0, 0xA2, 0x02},
	model.SeverityGreen: {0x2E, 0xA0, 0x4C},
}

// grid maps board coordinates (day index, minute, lane) onto the page.
type grid struct {
	*gofpdf.Fpdf
	originU, originV float64 // top-left of the first day column
	cellW            float64
}

func (g grid) dayU(day int) float64 { return g.originU + float64(day)*g.cellW }

func (g grid) minuteU(day, minute int) float64 {
	return g.dayU(day) + float64(minute)/1440.0*g.cellW
}

func (g grid) setFill(s model.Severity) {
	c, ok := severityColors[s]
	if !ok {
		c = severityColors[model.SeverityGrey]
	}
	g.SetFillColor(c[0], c[1], c[2])
}

// BoardPDF writes b to w. generated is printed in the page footer.
func BoardPDF(w io.Writer, b model.Board, generated time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Trip board", true)
	pdf.SetAutoPageBreak(false, Margin)
	pdf.SetMargins(Margin, Margin, Margin)

	pageW, pageH := pdf.GetPageSize()
	days := len(b.Days)
	if days == 0 {
		days = 1
	}
	g := grid{
		Fpdf:    pdf,
		originU: Margin + LabelWidth,
		cellW:   (pageW - 2*Margin - LabelWidth) / float64(days),
	}
	footer := fmt.Sprintf("Generated %s UTC", generated.UTC().Format("2006-01-02 15:04"))

	newPage := func() float64 {
		pdf.AddPage()
		pdf.SetFont("Arial", "", 7)
		pdf.SetTextColor(0x60, 0x60, 0x60)
		pdf.Text(Margin, pageH-Margin/2, footer)
		g.drawHeader(b.Days, Margin)
		return Margin + HeaderH
	}

	v := newPage()
	for _, row := range b.Rows {
		h := rowHeight(row)
		if v+h > pageH-Margin {
			v = newPage()
		}
		g.originV = v
		g.drawRow(row, h)
		v += h
	}
	return pdf.Output(w)
}

func rowHeight(row model.BoardRow) float64 {
	lanes := 1
	for _, c := range row.Cells {
		if c.Lanes > lanes {
			lanes = c.Lanes
		}
	}
	h := float64(lanes)*LaneH + 2*SegmentPadV
	if h < MinRowH {
		h = MinRowH
	}
	return h
}

func (g grid) drawHeader(days []model.Date, v float64) {
	g.SetFont("Arial", "B", 8)
	g.SetTextColor(0, 0, 0)
	g.SetDrawColor(0xC0, 0xC0, 0xC0)
	g.SetLineWidth(0.2)
	g.SetXY(Margin, v)
	g.CellFormat(LabelWidth, HeaderH, "Trip / aircraft", "1", 0, "L", false, 0, "")
	for i, d := range days {
		label := string(d)
		if t, err := d.Time(); err == nil {
			label = t.Format("Mon 02 Jan")
		}
		g.SetXY(g.dayU(i), v)
		g.CellFormat(g.cellW, HeaderH, label, "1", 0, "C", false, 0, "")
	}
}

func (g grid) drawRow(row model.BoardRow, h float64) {
	v := g.originV

	// label, tinted by trip severity
	g.setFill(row.Severity)
	g.Rect(Margin, v, 2, h, "F")
	g.SetFont("Arial", "", 7)
	g.SetTextColor(0, 0, 0)
	g.SetXY(Margin+3, v+0.5)
	g.CellFormat(LabelWidth-3, h/2-0.5, row.Client, "", 0, "L", false, 0, "")
	g.SetXY(Margin+3, v+h/2)
	g.CellFormat(LabelWidth-3, h/2-0.5, row.Aircraft, "", 0, "L", false, 0, "")

	g.SetDrawColor(0xE0, 0xE0, 0xE0)
	g.SetLineWidth(0.1)
	for i, c := range row.Cells {
		if c.InRange {
			g.SetFillColor(0xF2, 0xF6, 0xFC)
			g.Rect(g.dayU(i), v, g.cellW, h, "FD")
		} else {
			g.Rect(g.dayU(i), v, g.cellW, h, "D")
		}
		for _, s := range c.Segments {
			u0 := g.minuteU(i, s.StartMinute)
			u1 := g.minuteU(i, s.EndMinute)
			top := v + SegmentPadV + float64(s.Lane)*LaneH
			g.setFill(s.Severity)
			g.Rect(u0, top, u1-u0, LaneH-SegmentPadV, "F")
		}
	}
}
