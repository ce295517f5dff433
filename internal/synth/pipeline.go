package synth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/shopgen/internal/graph"
	"github.com/Lumos-Labs-HQ/shopgen/internal/logger"
)

var ErrStageOrder = errors.New("stage run before its prerequisites")

const (
	stageCustomers = "customers"
	stageProducts  = "products"
	stageOrders    = "orders"
	stagePayments  = "payments"

	itemSequence = "order_items"
)

// Stage is one generation step. Requires names the stages whose output it reads.
type Stage struct {
	Name     string
	Requires []string
	Run      func(*runState) error
}

type runState struct {
	opts Options
	gen  *DataGenerator
	data *Dataset
	done map[string]bool
	seq  map[string]int
}

func newRunState(opts Options) *runState {
	return &runState{
		opts: opts,
		gen:  NewDataGenerator(opts.Seed, opts.Anchor),
		data: &Dataset{},
		done: make(map[string]bool),
		seq:  make(map[string]int),
	}
}

// nextID advances the 1-based counter of one sequence.
func (st *runState) nextID(sequence string) int {
	st.seq[sequence]++
	return st.seq[sequence]
}

type pipeline struct {
	stages map[string]Stage
	order  []string
}

func newPipeline(stages ...Stage) (*pipeline, error) {
	p := &pipeline{stages: make(map[string]Stage, len(stages))}
	g := graph.New()
	for _, s := range stages {
		if _, dup := p.stages[s.Name]; dup {
			return nil, fmt.Errorf("duplicate stage %s", s.Name)
		}
		p.stages[s.Name] = s
		g.Add(s.Name, s.Requires...)
	}

	order, err := g.BuildOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to order stages: %w", err)
	}
	p.order = order
	return p, nil
}

func (p *pipeline) run(ctx context.Context, st *runState) error {
	for _, name := range p.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runStage(st, name); err != nil {
			return err
		}
	}
	return nil
}

func (p *pipeline) runStage(st *runState, name string) error {
	stage, ok := p.stages[name]
	if !ok {
		return fmt.Errorf("unknown stage %s", name)
	}
	for _, req := range stage.Requires {
		if !st.done[req] {
			return fmt.Errorf("%w: %s requires %s", ErrStageOrder, name, req)
		}
	}
	if err := stage.Run(st); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	st.done[name] = true
	logger.InfoLogger.WithField("stage", name).Debug("stage finished")
	return nil
}
