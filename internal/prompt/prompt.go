// Package prompt collects a reactor network interactively on a line-based
// console, re-asking until each group of answers is acceptable.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/reactorsim/internal/reactor"
	"github.com/san-kum/reactorsim/internal/slots"
)

type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(r), out: w}
}

// readLine prints label and returns the next line of input. Running out of
// input is an error so callers never loop forever.
func (p *Prompter) readLine(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("reading %q: %w", strings.TrimSpace(label), io.ErrUnexpectedEOF)
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) number(label string) (float64, error) {
	for {
		line, err := p.readLine(fmt.Sprintf("    Please enter a value for %s: ", label))
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(line, 64)
		if err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return v, nil
		}
		fmt.Fprintln(p.out, "Please enter a number.")
	}
}

// PositiveValue asks for label until the answer is greater than zero.
func (p *Prompter) PositiveValue(label string) (float64, error) {
	for {
		v, err := p.number(label)
		if err != nil {
			return 0, err
		}
		if v > 0 {
			return v, nil
		}
		fmt.Fprintln(p.out, "The value must be greater than zero.")
	}
}

func (p *Prompter) NonNegativeValue(label string) (float64, error) {
	for {
		v, err := p.number(label)
		if err != nil {
			return 0, err
		}
		if v >= 0 {
			return v, nil
		}
		fmt.Fprintln(p.out, "The value must not be negative.")
	}
}

// CollectParams asks for a complete network. Flow channels are asked in
// groups, one per node balance, and a group is asked again until its
// balance holds given the channels already collected.
func (p *Prompter) CollectParams() (reactor.Params, error) {
	var params reactor.Params
	var err error

	fmt.Fprintln(p.out, "Reactor Volumes:")
	if err = p.positives(
		field{"Reactor 1", &params.Volumes.V1},
		field{"Reactor 2", &params.Volumes.V2},
		field{"Reactor 3", &params.Volumes.V3},
	); err != nil {
		return params, err
	}

	fmt.Fprintln(p.out, "Flow Rates:")
	f := &params.Flows
	groups := []struct {
		check  reactor.Check
		fields []field
	}{
		{reactor.CheckNode1, []field{{"Channel Q-01", &f.Q01}, {"Channel Q-31", &f.Q31}, {"Channel Q-12", &f.Q12}}},
		{reactor.CheckNode2, []field{{"Channel Q-23", &f.Q23}}},
		{reactor.CheckNode3Primary, []field{{"Channel Q-33", &f.Q33}}},
		{reactor.CheckNode3Secondary, []field{{"Channel Q-03", &f.Q03}}},
	}
	for _, g := range groups {
		for {
			if err = p.positives(g.fields...); err != nil {
				return params, err
			}
			if failed := failedCheck(*f); failed == 0 || failed > g.check {
				break
			}
			fmt.Fprintf(p.out, "Flow rates break the %s (%s). Please try again.\n", g.check, g.check.Equation())
		}
	}

	fmt.Fprintln(p.out, "Initial concentrations:")
	for _, fd := range []field{
		{"Concentration c-1,0", &params.Initial.C1},
		{"Concentration c-2,0", &params.Initial.C2},
		{"Concentration c-3,0", &params.Initial.C3},
	} {
		if *fd.dst, err = p.NonNegativeValue(fd.label); err != nil {
			return params, err
		}
	}

	fmt.Fprintln(p.out, "Input concentrations:")
	if err = p.positives(
		field{"Concentration c-01", &params.Inputs.Put1},
		field{"Concentration c-03", &params.Inputs.Put2},
	); err != nil {
		return params, err
	}

	fmt.Fprintln(p.out, "End Time:")
	for {
		if err = p.positives(
			field{"Final time", &params.TFinal},
			field{"Time step", &params.DeltaT},
		); err != nil {
			return params, err
		}
		if params.CheckStepCount() == nil {
			break
		}
		fmt.Fprintf(p.out, "time step too small for final time (%d samples, at most %d)\n",
			params.StepCount(), reactor.MaxSamples)
	}

	return params, nil
}

// ChooseSlot lists the slots and reads an index in 0..NumSlots, 0 meaning
// none. With mustBeFilled, empty slots are refused.
func (p *Prompter) ChooseSlot(message string, list []slots.Slot, mustBeFilled bool) (int, error) {
	filled := make(map[int]bool, len(list))
	fmt.Fprintln(p.out, "FILES:")
	for _, s := range list {
		filled[s.Index] = s.Filled
		if s.Filled {
			fmt.Fprintf(p.out, "Slot %d contains a save\n", s.Index)
		} else {
			fmt.Fprintf(p.out, "Slot %d is empty\n", s.Index)
		}
	}

	for {
		line, err := p.readLine(message + "\n")
		if err != nil {
			return 0, err
		}
		idx, err := strconv.Atoi(line)
		switch {
		case err != nil || idx < 0 || idx > slots.NumSlots:
			fmt.Fprintf(p.out, "Please enter an integer from 0-%d.\n", slots.NumSlots)
		case idx == 0 || !mustBeFilled || filled[idx]:
			return idx, nil
		default:
			fmt.Fprintf(p.out, "Slot %d is empty.\n", idx)
		}
	}
}

type field struct {
	label string
	dst   *float64
}

func (p *Prompter) positives(fields ...field) error {
	for _, fd := range fields {
		v, err := p.PositiveValue(fd.label)
		if err != nil {
			return err
		}
		*fd.dst = v
	}
	return nil
}

// failedCheck returns the first balance f breaks, or 0.
func failedCheck(f reactor.Flows) reactor.Check {
	var cv *reactor.ConstraintViolation
	if errors.As(reactor.ValidateFlows(f), &cv) {
		return cv.Check
	}
	return 0
}
