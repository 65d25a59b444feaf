// Package panel holds a set of labelled integer parameters and notifies
// listeners when one of them is set. It is the control surface shared by the
// terminal UI, the MQTT bridge and the equalizer.
package panel

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrOutOfRange       = errors.New("panel: value out of range")
	ErrUnknownParameter = errors.New("panel: unknown parameter")
)

type Param struct {
	Label string
	Min   int
	Max   int
	Value int
}

type Panel struct {
	title string

	mu     sync.RWMutex
	params []Param

	// notifyMu serializes listener dispatch so listeners observe changes in
	// the order they were accepted. It is never held together with mu.
	notifyMu  sync.Mutex
	listeners []func(index, value int)
}

func New(title string, n int) *Panel {
	return &Panel{
		title:  title,
		params: make([]Param, n),
	}
}

func (p *Panel) Title() string { return p.title }

func (p *Panel) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.params)
}

func (p *Panel) SetLabel(index int, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index >= 0 && index < len(p.params) {
		p.params[index].Label = text
	}
}

func (p *Panel) SetRange(index, min, max int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index >= 0 && index < len(p.params) {
		p.params[index].Min = min
		p.params[index].Max = max
	}
}

// SetValue validates and stores value, then notifies every listener. Setting
// the value it already holds still notifies.
func (p *Panel) SetValue(index, value int) error {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	if index < 0 || index >= len(p.params) {
		p.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownParameter, index)
	}
	prm := &p.params[index]
	if value < prm.Min || value > prm.Max {
		p.mu.Unlock()
		return fmt.Errorf("%w: parameter %d wants %d..%d, got %d", ErrOutOfRange, index, prm.Min, prm.Max, value)
	}
	prm.Value = value
	p.mu.Unlock()

	for _, fn := range p.listeners {
		fn(index, value)
	}
	return nil
}

// Step moves a parameter by delta, clamping to its range.
func (p *Panel) Step(index, delta int) error {
	prm, err := p.Param(index)
	if err != nil {
		return err
	}
	v := max(prm.Min, min(prm.Max, prm.Value+delta))
	return p.SetValue(index, v)
}

// OnValueChanged registers fn to run after every accepted SetValue.
// Listeners run in registration order and may call SetLabel, but must not
// call SetValue.
func (p *Panel) OnValueChanged(fn func(index, value int)) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *Panel) Param(index int) (Param, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if index < 0 || index >= len(p.params) {
		return Param{}, fmt.Errorf("%w: %d", ErrUnknownParameter, index)
	}
	return p.params[index], nil
}

// Params returns a snapshot of every parameter.
func (p *Panel) Params() []Param {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Param, len(p.params))
	copy(out, p.params)
	return out
}

// Values returns the current raw values.
func (p *Panel) Values() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]int, len(p.params))
	for i, prm := range p.params {
		out[i] = prm.Value
	}
	return out
}
