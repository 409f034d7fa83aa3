// Package chart renders concentration histories as terminal plots and SVG.
package chart

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/reactorsim/internal/reactor"
)

// Legends name the series in reactor order.
var Legends = []string{"Reactor 1", "Reactor 2", "Reactor 3"}

type options struct {
	height int
	width  int
	tFinal float64
}

type Option func(*options)

func Height(h int) Option { return func(o *options) { o.height = h } }
func Width(w int) Option  { return func(o *options) { o.width = w } }

// Span sets the time horizon named in the caption. By default it is the
// time of the last sample.
func Span(tFinal float64) Option { return func(o *options) { o.tFinal = tFinal } }

// Plot draws all three reactors on one set of axes, bounded below by 0 and
// above by reactor.ScaleFor.
func Plot(ts *reactor.TimeSeries, opts ...Option) string {
	if ts.Len() == 0 {
		return ""
	}

	o := options{height: 10, width: 80, tFinal: ts.Time[ts.Len()-1]}
	for _, opt := range opts {
		opt(&o)
	}

	return asciigraph.PlotMany(ts.Reactors(),
		asciigraph.Height(o.height),
		asciigraph.Width(o.width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(upper(ts)),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
		asciigraph.SeriesLegends(Legends...),
		asciigraph.Caption(fmt.Sprintf("Concentration c(t), t in [0, %g]", o.tFinal)),
	)
}

// upper is the y-axis ceiling. An all-zero run still gets a visible axis.
func upper(ts *reactor.TimeSeries) float64 {
	if s := reactor.ScaleFor(ts); s > 0 {
		return s
	}
	return 1
}
