package l4automaton

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/pitchside/internal/cognition"
)

// MaxHops bounds the transitions fired in one tick.
const MaxHops = 8

// TimerT is the timer every automaton owns.
const TimerT = "t"

// ErrUnknownState is wrapped by every reference to an undeclared state.
var ErrUnknownState = errors.New("unknown automaton state")

// ErrInvalidSpec is wrapped by structural specification errors.
var ErrInvalidSpec = errors.New("invalid automaton spec")

// Store is the runtime data of one automaton.
type Store struct {
	Current string
	Timers  map[string]float64
	Vars    map[string]any
	Local   map[string]any
}

// Timer returns the elapsed value of a timer (0 when unknown).
func (s *Store) Timer(name string) float64 { return s.Timers[name] }

// Int returns an integer variable, or 0.
func (s *Store) Int(name string) int {
	v, _ := s.Vars[name].(int)
	return v
}

// Env is what guards, effects and actions see.
type Env[C any] struct {
	Ctx   C
	Store *Store
}

// T returns the live value of the "t" timer.
func (e Env[C]) T() float64 { return e.Store.Timer(TimerT) }

// Transition is a guarded edge. A nil Guard always fires.
type Transition[C any] struct {
	To     string
	Guard  func(Env[C]) bool
	Reset  []string
	Effect func(Env[C])
}

// StateSpec declares one state.
type StateSpec[C any] struct {
	Action      func(Env[C]) cognition.Command
	OnEnter     func(*Store)
	Transitions []Transition[C]
}

// Spec is a complete machine table.
type Spec[C any] struct {
	Name    string
	Initial string
	Vars    map[string]any
	States  map[string]StateSpec[C]
}

// Validate checks that the initial state and every transition target are
// declared.
func (s Spec[C]) Validate() error {
	if len(s.States) == 0 {
		return fmt.Errorf("%w: %s declares no states", ErrInvalidSpec, s.Name)
	}
	if _, ok := s.States[s.Initial]; !ok {
		return fmt.Errorf("%w: initial state %q of %s", ErrUnknownState, s.Initial, s.Name)
	}
	names := make([]string, 0, len(s.States))
	for name := range s.States {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for i, tr := range s.States[name].Transitions {
			if _, ok := s.States[tr.To]; !ok {
				return fmt.Errorf("%w: %s transition %d from %q targets %q", ErrUnknownState, s.Name, i, name, tr.To)
			}
		}
	}
	return nil
}

// Automaton interprets a Spec. It is owned by one agent and is not safe
// for concurrent use.
type Automaton[C any] struct {
	spec     Spec[C]
	store    Store
	lastTime float64
	hasTime  bool
	lastHops int
}

// New validates spec and enters its initial state.
func New[C any](spec Spec[C]) (*Automaton[C], error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	a := &Automaton[C]{spec: spec}
	a.enter(spec.Initial)
	return a, nil
}

// MustNew is New for static tables; it panics on an invalid spec.
func MustNew[C any](spec Spec[C]) *Automaton[C] {
	a, err := New(spec)
	if err != nil {
		panic(err)
	}
	return a
}

// Reset reinitialises timers, variables and scratch storage and enters
// state (the spec's initial state when empty).
func (a *Automaton[C]) Reset(state string) error {
	if state == "" {
		state = a.spec.Initial
	}
	if _, ok := a.spec.States[state]; !ok {
		return fmt.Errorf("%w: reset to %q", ErrUnknownState, state)
	}
	a.enter(state)
	return nil
}

func (a *Automaton[C]) enter(state string) {
	a.hasTime = false
	a.lastTime = 0
	a.lastHops = 0
	a.store = Store{
		Timers: a.initialTimers(),
		Vars:   make(map[string]any, len(a.spec.Vars)),
		Local:  make(map[string]any),
	}
	for k, v := range a.spec.Vars {
		a.store.Vars[k] = v
	}
	a.moveTo(state)
}

// initialTimers registers "t" plus every timer named in a reset list.
func (a *Automaton[C]) initialTimers() map[string]float64 {
	timers := map[string]float64{TimerT: 0}
	for _, st := range a.spec.States {
		for _, tr := range st.Transitions {
			for _, name := range tr.Reset {
				timers[name] = 0
			}
		}
	}
	return timers
}

func (a *Automaton[C]) moveTo(state string) {
	a.store.Current = state
	if hook := a.spec.States[state].OnEnter; hook != nil {
		hook(&a.store)
	}
}

// Tick advances timers to now, fires at most MaxHops transitions and
// returns the current state's action. The first tick after construction
// or Reset only records the time baseline. Non-finite times leave timers
// untouched.
func (a *Automaton[C]) Tick(now float64, ctx C) cognition.Command {
	a.advance(now)

	env := Env[C]{Ctx: ctx, Store: &a.store}
	a.lastHops = 0
	for a.lastHops < MaxHops {
		tr, ok := a.firstEnabled(env)
		if !ok {
			break
		}
		for _, name := range tr.Reset {
			a.store.Timers[name] = 0
		}
		if tr.Effect != nil {
			tr.Effect(env)
		}
		a.moveTo(tr.To)
		a.lastHops++
	}

	if action := a.spec.States[a.store.Current].Action; action != nil {
		return action(env)
	}
	return cognition.Command{}
}

func (a *Automaton[C]) firstEnabled(env Env[C]) (Transition[C], bool) {
	for _, tr := range a.spec.States[a.store.Current].Transitions {
		if tr.Guard == nil || tr.Guard(env) {
			return tr, true
		}
	}
	return Transition[C]{}, false
}

func (a *Automaton[C]) advance(now float64) {
	if math.IsNaN(now) || math.IsInf(now, 0) {
		return
	}
	if !a.hasTime {
		a.hasTime = true
		a.lastTime = now
		return
	}
	dt := math.Max(0, now-a.lastTime)
	a.lastTime = now
	for name := range a.store.Timers {
		a.store.Timers[name] += dt
	}
}

// Current returns the current state name.
func (a *Automaton[C]) Current() string { return a.store.Current }

// Timer returns the elapsed value of a timer.
func (a *Automaton[C]) Timer(name string) float64 { return a.store.Timer(name) }

// Var returns an instance variable.
func (a *Automaton[C]) Var(name string) (any, bool) {
	v, ok := a.store.Vars[name]
	return v, ok
}

// LastHops returns the number of transitions fired by the last Tick.
func (a *Automaton[C]) LastHops() int { return a.lastHops }

// Name returns the spec name.
func (a *Automaton[C]) Name() string { return a.spec.Name }
