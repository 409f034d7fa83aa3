package main

import (
	"strings"
	"testing"

	"github.com/san-kum/reactorsim/internal/reactor"
)

func TestRenderSVG(t *testing.T) {
	ts := &reactor.TimeSeries{}
	ts.Append(0, 0, 0, 0)

	if _, err := renderSVG(ts, 0.05, 800, 500); err == nil {
		t.Error("expected an error for a single-sample run")
	}

	ts.Append(0.1, 0.02, 0, 0.01)
	svg, err := renderSVG(ts, 0.1, 800, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete svg document")
	}
}

func TestRenderSVGShortRun(t *testing.T) {
	p := reactor.Params{
		Volumes: reactor.Volumes{V1: 10, V2: 10, V3: 10},
		Flows:   reactor.Flows{Q01: 2, Q03: 2, Q12: 6, Q23: 6, Q31: 4, Q33: 4},
		Inputs:  reactor.Inputs{Put1: 1, Put2: 0.5},
		DeltaT:  0.1,
		TFinal:  0.05,
	}
	ts, err := reactor.Integrate(p)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if _, err := renderSVG(ts, p.TFinal, 800, 500); err == nil {
		t.Errorf("expected an error for a %d-sample run", ts.Len())
	}
}
