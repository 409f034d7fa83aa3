package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/reactorsim/internal/reactor"
	"github.com/san-kum/reactorsim/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func balanced(put1, put2 float64) reactor.Params {
	return reactor.Params{
		Volumes: reactor.Volumes{V1: 10, V2: 10, V3: 10},
		Flows:   reactor.Flows{Q01: 2, Q03: 2, Q12: 6, Q23: 6, Q31: 4, Q33: 4},
		Inputs:  reactor.Inputs{Put1: put1, Put2: put2},
		DeltaT:  0.1,
		TFinal:  1,
	}
}

func TestRun(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := New(zap.New(core))

	out, err := e.Run(context.Background(), "fixture", balanced(1, 0.5))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.Series.Len() != 10 {
		t.Errorf("expected 10 samples, got %d", out.Series.Len())
	}
	if out.Scale != reactor.ScaleFor(out.Series) {
		t.Errorf("scale %v does not match series", out.Scale)
	}
	if got := out.Metrics["peak_c1"]; got != reactor.Max(out.Series.C1) {
		t.Errorf("expected peak_c1 %v, got %v", reactor.Max(out.Series.C1), got)
	}
	if out.RunID != "" {
		t.Errorf("expected no run id without a store, got %q", out.RunID)
	}
	if n := logs.FilterMessage("run complete").Len(); n != 1 {
		t.Errorf("expected 1 completion log, got %d", n)
	}
}

func TestRunRejected(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := New(zap.New(core))

	p := balanced(1, 0.5)
	p.Flows.Q23 = 5

	_, err := e.Run(context.Background(), "bad", p)
	if !errors.Is(err, reactor.ErrConstraint) {
		t.Fatalf("expected constraint error, got %v", err)
	}
	if n := logs.FilterMessage("run rejected").Len(); n != 1 {
		t.Errorf("expected 1 rejection log, got %d", n)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(nil).Run(ctx, "x", balanced(1, 1)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunWithStore(t *testing.T) {
	st := storage.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	out, err := New(nil, WithStore(st)).Run(context.Background(), "saved", balanced(1, 0.5))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.RunID == "" {
		t.Fatal("expected a run id")
	}

	meta, err := st.Load(out.RunID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "saved" || meta.Samples != 10 || len(meta.Metrics) == 0 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestRunAllPreservesOrder(t *testing.T) {
	sets := []Named{
		{Name: "a", Params: balanced(1, 1)},
		{Name: "b", Params: balanced(2, 2)},
		{Name: "c", Params: balanced(3, 3)},
		{Name: "d", Params: balanced(4, 4)},
	}

	outs, err := New(nil, WithLimit(2)).RunAll(context.Background(), sets)
	if err != nil {
		t.Fatalf("run all failed: %v", err)
	}
	if len(outs) != len(sets) {
		t.Fatalf("expected %d outcomes, got %d", len(sets), len(outs))
	}
	for i, out := range outs {
		if out.Name != sets[i].Name {
			t.Errorf("outcome %d: expected %s, got %s", i, sets[i].Name, out.Name)
		}
		if got, want := out.Series.C1[1], 0.02*sets[i].Params.Inputs.Put1; math.Abs(got-want) > 1e-12 {
			t.Errorf("outcome %d: unexpected c1[1] %v", i, got)
		}
	}
}

func TestRunAllFirstError(t *testing.T) {
	bad := balanced(1, 1)
	bad.TFinal = 100

	_, err := New(nil).RunAll(context.Background(), []Named{
		{Name: "ok", Params: balanced(1, 1)},
		{Name: "too-long", Params: bad},
	})
	if !errors.Is(err, reactor.ErrPrecondition) {
		t.Errorf("expected precondition error, got %v", err)
	}
}

func TestRunAllEmpty(t *testing.T) {
	outs, err := New(nil).RunAll(context.Background(), nil)
	if err != nil || len(outs) != 0 {
		t.Errorf("expected no outcomes and no error, got %v, %v", outs, err)
	}
}
