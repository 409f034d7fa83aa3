package chart

import (
	"fmt"
	"strings"

	"github.com/san-kum/reactorsim/internal/reactor"
)

var strokeColors = []string{"#1f4fff", "#e0241b", "#1a9e2f"}

const (
	marginLeft   = 60
	marginRight  = 20
	marginTop    = 30
	marginBottom = 45
)

// SVG draws the run over the box [0, tFinal] x [0, ScaleFor(ts)] with a
// label per reactor at 0.1, 0.3 and 0.5 of tFinal, 0.9 of the scale.
func SVG(ts *reactor.TimeSeries, tFinal float64, width, height int) string {
	if ts.Len() < 2 {
		return ""
	}
	if tFinal <= 0 {
		tFinal = ts.Time[ts.Len()-1]
	}
	yMax := upper(ts)

	plotW := float64(width - marginLeft - marginRight)
	plotH := float64(height - marginTop - marginBottom)
	px := func(t float64) float64 { return marginLeft + t/tFinal*plotW }
	py := func(c float64) float64 { return marginTop + plotH - c/yMax*plotH }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<rect x="%d" y="%d" width="%.1f" height="%.1f" fill="none" stroke="#000000"/>
`, width, height, width, height, marginLeft, marginTop, plotW, plotH))

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" text-anchor="middle" font-size="14">Concentration</text>
<text x="%.1f" y="%d" text-anchor="middle" font-size="12">Time t</text>
<text x="14" y="%.1f" text-anchor="middle" font-size="12" transform="rotate(-90 14 %.1f)">Concentration c(t)</text>
`, marginLeft+plotW/2, marginTop-10, marginLeft+plotW/2, height-10, marginTop+plotH/2, marginTop+plotH/2))

	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" text-anchor="middle" font-size="10">0</text>
<text x="%.1f" y="%.1f" text-anchor="middle" font-size="10">%g</text>
<text x="%d" y="%.1f" text-anchor="end" font-size="10">%.3g</text>
`, marginLeft, marginTop+plotH+14, marginLeft+plotW, marginTop+plotH+14, tFinal, marginLeft-4, marginTop+4.0, yMax))

	for r, series := range ts.Reactors() {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="2" d="M`, strokeColors[r]))
		for i, c := range series {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(ts.Time[i]), py(c)))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(ts.Time[i]), py(c)))
			}
		}
		sb.WriteString("\"/>\n")

		lx := (0.1 + 0.2*float64(r)) * tFinal
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-size="12">%s</text>
`, px(lx), py(0.9*yMax), strokeColors[r], Legends[r]))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
