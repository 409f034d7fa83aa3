package reactor

import (
	"fmt"
	"math"

	"github.com/san-kum/reactorsim/internal/dynamo"
)

const (
	// MaxSamples bounds the length of every TimeSeries.
	MaxSamples = 100

	// Tolerance is the absolute slack allowed on the node balances.
	Tolerance = 1e-6

	// stepSnap is the relative distance from an integer below which
	// TFinal/DeltaT is treated as that integer.
	stepSnap = 1e-9
)

// Volumes are the reactor volumes, all strictly positive.
type Volumes struct {
	V1 float64 `json:"v1"`
	V2 float64 `json:"v2"`
	V3 float64 `json:"v3"`
}

// Flows are the six channel flow rates. The digits name source and
// destination, 0 being outside the network.
type Flows struct {
	Q01 float64 `json:"q01"`
	Q03 float64 `json:"q03"`
	Q12 float64 `json:"q12"`
	Q23 float64 `json:"q23"`
	Q31 float64 `json:"q31"`
	Q33 float64 `json:"q33"`
}

// Inputs are the feed concentrations carried in by Q01 and Q03.
type Inputs struct {
	Put1 float64 `json:"put1"`
	Put2 float64 `json:"put2"`
}

// Initial holds the concentration of each reactor at t = 0.
type Initial struct {
	C1 float64 `json:"c1"`
	C2 float64 `json:"c2"`
	C3 float64 `json:"c3"`
}

func (c Initial) State() dynamo.State {
	return dynamo.State{c.C1, c.C2, c.C3}
}

// Params is everything Integrate needs for one run. DeltaT is the Euler
// step and TFinal the time horizon.
type Params struct {
	Volumes Volumes `json:"volumes"`
	Flows   Flows   `json:"flows"`
	Inputs  Inputs  `json:"inputs"`
	Initial Initial `json:"initial"`
	DeltaT  float64 `json:"delta_t"`
	TFinal  float64 `json:"t_final"`
}

// StepCount is the number of samples Integrate produces, t = 0 included.
// It is ceil(TFinal/DeltaT), except that a ratio within floating-point noise
// of an integer counts as that integer (0.3/0.1 gives 3, not 4).
func (p Params) StepCount() int {
	if !(p.DeltaT > 0) || !(p.TFinal > 0) {
		return 0
	}
	ratio := p.TFinal / p.DeltaT
	if ratio > math.MaxInt32 {
		return math.MaxInt32
	}
	if r := math.Round(ratio); math.Abs(ratio-r) <= stepSnap*math.Max(1, r) {
		return int(r)
	}
	return int(math.Ceil(ratio))
}

// CheckPositive reports the first flow that is not strictly positive.
func (f Flows) CheckPositive() error {
	for _, fv := range []struct {
		name string
		v    float64
	}{
		{"Q01", f.Q01}, {"Q31", f.Q31}, {"Q12", f.Q12},
		{"Q23", f.Q23}, {"Q33", f.Q33}, {"Q03", f.Q03},
	} {
		if err := positive(fv.name, fv.v); err != nil {
			return err
		}
	}
	return nil
}

// CheckStepCount rejects time grids that would exceed MaxSamples.
func (p Params) CheckStepCount() error {
	if err := positive("t_final", p.TFinal); err != nil {
		return err
	}
	if err := positive("delta_t", p.DeltaT); err != nil {
		return err
	}
	if n := p.StepCount(); n > MaxSamples {
		return &PreconditionError{
			Field:  "step_count",
			Value:  float64(n),
			Reason: fmt.Sprintf("time step too small for final time, at most %d samples allowed", MaxSamples),
		}
	}
	return nil
}

// Validate runs every precondition and then the flow constraints. A nil
// result means Integrate will accept p.
func (p Params) Validate() error {
	for _, fv := range []struct {
		name string
		v    float64
	}{
		{"v1", p.Volumes.V1}, {"v2", p.Volumes.V2}, {"v3", p.Volumes.V3},
		{"put1", p.Inputs.Put1}, {"put2", p.Inputs.Put2},
	} {
		if err := positive(fv.name, fv.v); err != nil {
			return err
		}
	}
	for _, fv := range []struct {
		name string
		v    float64
	}{
		{"c1", p.Initial.C1}, {"c2", p.Initial.C2}, {"c3", p.Initial.C3},
	} {
		if !(fv.v >= 0) || math.IsInf(fv.v, 0) {
			return &PreconditionError{Field: fv.name, Value: fv.v, Reason: "must be a finite non-negative value"}
		}
	}
	if err := p.Flows.CheckPositive(); err != nil {
		return err
	}
	if err := p.CheckStepCount(); err != nil {
		return err
	}
	return ValidateFlows(p.Flows)
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return &PreconditionError{Field: name, Value: v, Reason: "must be greater than zero"}
	}
	return nil
}
