// Package countdown derives the live depart-by countdown and its urgency
// classification. State is a pure function of (now, target); the Engine
// just re-evaluates it once per second.
package countdown

import (
	"sync"
	"time"

	"github.com/awaikar-syr/departby/internal/clock"
)

// State is one countdown evaluation. TotalSeconds keeps counting into the
// negative after expiry so consumers can distinguish "leave now" from
// "missed".
type State struct {
	Minutes      int   `json:"minutes"`
	Seconds      int   `json:"seconds"`
	TotalSeconds int64 `json:"totalSeconds"`
	IsExpired    bool  `json:"isExpired"`
}

// Urgency classifies a countdown state for display.
type Urgency string

const (
	UrgencyNormal      Urgency = "normal"
	UrgencyLeavingSoon Urgency = "leaving-soon"
	UrgencyNow         Urgency = "now"
	UrgencyMissed      Urgency = "missed"
)

const (
	leavingSoonWindowSeconds = 120
	nowWindowSeconds         = 60
)

// Compute evaluates the countdown to target at now. A nil target yields a
// zeroed, expired state.
func Compute(now time.Time, target *time.Time) State {
	if target == nil {
		return State{IsExpired: true}
	}

	diff := target.Sub(now)
	totalSeconds := int64(diff / time.Second)
	// Floor toward negative infinity so a target 1.5s gone reads -2, the
	// same as flooring the raw millisecond difference.
	if diff < 0 && diff%time.Second != 0 {
		totalSeconds--
	}
	if totalSeconds <= 0 {
		return State{TotalSeconds: totalSeconds, IsExpired: true}
	}

	return State{
		Minutes:      int(totalSeconds / 60),
		Seconds:      int(totalSeconds % 60),
		TotalSeconds: totalSeconds,
		IsExpired:    false,
	}
}

// Classify maps a state to its urgency band. The "now" band is checked
// before "missed" so the shared boundary at zero classifies as now.
func Classify(s State) Urgency {
	switch {
	case s.TotalSeconds > 0 && s.TotalSeconds <= leavingSoonWindowSeconds:
		return UrgencyLeavingSoon
	case s.TotalSeconds >= -nowWindowSeconds && s.TotalSeconds <= 0:
		return UrgencyNow
	case s.TotalSeconds < -nowWindowSeconds:
		return UrgencyMissed
	default:
		return UrgencyNormal
	}
}

// Engine re-evaluates the countdown once per wall-clock tick. Changing the
// target recomputes the state immediately rather than waiting out the
// current tick interval.
type Engine struct {
	clock    clock.Clock
	interval time.Duration

	mu     sync.RWMutex
	target *time.Time
	state  State

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewEngine creates an Engine ticking at one-second granularity with no
// target. Call Start to begin ticking.
func NewEngine(c clock.Clock) *Engine {
	e := &Engine{
		clock:        c,
		interval:     time.Second,
		shutdownChan: make(chan struct{}),
	}
	e.state = Compute(c.Now(), nil)
	return e
}

// Start launches the tick loop.
func (e *Engine) Start() {
	e.wg.Add(1)
	go e.run()
}

func (e *Engine) run() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.recompute()
		case <-e.shutdownChan:
			return
		}
	}
}

func (e *Engine) recompute() {
	now := e.clock.Now()
	e.mu.Lock()
	e.state = Compute(now, e.target)
	e.mu.Unlock()
}

// SetTarget replaces the countdown target and recomputes the state
// immediately. A nil target stops the countdown ("no upcoming train").
func (e *Engine) SetTarget(target *time.Time) {
	now := e.clock.Now()
	e.mu.Lock()
	if target == nil {
		e.target = nil
	} else {
		t := *target
		e.target = &t
	}
	e.state = Compute(now, e.target)
	e.mu.Unlock()
}

// Target returns a copy of the current target, nil when unset.
func (e *Engine) Target() *time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.target == nil {
		return nil
	}
	t := *e.target
	return &t
}

// State returns the most recent evaluation.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Shutdown stops the tick loop and waits for it to exit.
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		close(e.shutdownChan)
	})
	e.wg.Wait()
}
