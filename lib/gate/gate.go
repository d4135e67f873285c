// Copyright 2026 The Vaultguard Authors
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"errors"
	"fmt"
	"time"

	"github.com/blackboxvault/vaultguard/lib/clock"
)

// Port is the capability that performs the privileged unlock action on
// the external vault device. The gate only requests the action and
// observes success or a classified failure; delivery is the port's
// problem.
type Port interface {
	// RequestUnlock delivers the fixed PIN to the vault device.
	// Implementations classify failures with ErrUnauthorized and
	// ErrDeviceAbsent (via errors.Is); any other error is treated
	// as transient.
	RequestUnlock(pin uint32) error
}

// Failure classes a Port reports. Anything not matching these two is a
// transient failure.
var (
	ErrUnauthorized = errors.New("gate: unlock unauthorized")
	ErrDeviceAbsent = errors.New("gate: vault device absent")
)

// State is the gate's position in its trigger cycle.
type State int

const (
	// StateIdle accepts the next valid verdict.
	StateIdle State = iota

	// StateTriggered is the transient state entered only for the
	// duration of the port call; it is never observable between
	// Offer calls.
	StateTriggered

	// StateCooldown suppresses triggers until the deadline passes.
	StateCooldown

	// StateDone is terminal: single-shot mode after the first
	// successful trigger.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTriggered:
		return "triggered"
	case StateCooldown:
		return "cooldown"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome describes what one verdict produced.
type Outcome int

const (
	// OutcomeRejected is an invalid verdict in an armed gate. Normal
	// and quiet: not an error, not a transition.
	OutcomeRejected Outcome = iota

	// OutcomeUnlocked is a valid verdict that triggered the port
	// successfully. Exactly one per acceptance episode.
	OutcomeUnlocked

	// OutcomeUnlockFailed is a valid verdict whose port call failed.
	// The gate still enters cooldown; there is no automatic retry.
	OutcomeUnlockFailed

	// OutcomeSuppressed is any verdict evaluated during cooldown.
	OutcomeSuppressed

	// OutcomeDone is any verdict after the gate reached its terminal
	// state in single-shot mode.
	OutcomeDone
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnlocked:
		return "unlocked"
	case OutcomeUnlockFailed:
		return "unlock-failed"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeDone:
		return "done"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Options configures a Gate.
type Options struct {
	// Port performs the unlock. Required.
	Port Port

	// PIN is the fixed payload delivered on every unlock request.
	PIN uint32

	// Cooldown is the minimum interval between triggers. Zero means
	// the gate re-arms on the next verdict.
	Cooldown time.Duration

	// SingleShot makes the first unlock attempt terminal: the
	// gate reports OutcomeDone for everything afterward and the
	// caller is expected to stop feeding it.
	SingleShot bool

	// Clock defaults to clock.Real().
	Clock clock.Clock
}

// Gate is the unlock-gate state machine. Created in StateIdle; owned
// and mutated by a single evaluator.
type Gate struct {
	port       Port
	pin        uint32
	cooldown   time.Duration
	singleShot bool
	clock      clock.Clock

	state    State
	deadline time.Time
}

// New validates options and returns an idle Gate.
func New(options Options) (*Gate, error) {
	if options.Port == nil {
		return nil, errors.New("gate: port is required")
	}
	if options.Cooldown < 0 {
		return nil, fmt.Errorf("gate: cooldown must not be negative, got %v", options.Cooldown)
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	return &Gate{
		port:       options.Port,
		pin:        options.PIN,
		cooldown:   options.Cooldown,
		singleShot: options.SingleShot,
		clock:      options.Clock,
		state:      StateIdle,
	}, nil
}

// State returns the current gate state.
func (g *Gate) State() State { return g.state }

// CooldownRemaining returns how long until the gate re-arms, or zero
// when it is not cooling down. The value is clamped to the cooldown
// period: a backward clock jump inflates the apparent distance to the
// deadline until the next Offer re-anchors it, and the clamp keeps the
// reported wait truthful in the meantime.
func (g *Gate) CooldownRemaining() time.Duration {
	if g.state != StateCooldown {
		return 0
	}
	remaining := g.deadline.Sub(g.clock.Now())
	if remaining < 0 {
		return 0
	}
	if remaining > g.cooldown {
		return g.cooldown
	}
	return remaining
}

// Offer consumes one validation verdict. On a valid verdict in an armed
// gate it invokes the port exactly once and enters cooldown (or the
// terminal state in single-shot mode) whether or not the port call
// succeeded; the port error is returned for logging, never retried.
//
// A verdict arriving after the cooldown deadline re-arms the gate and
// is then evaluated normally, so a still-valid proof produces exactly
// one more trigger.
func (g *Gate) Offer(valid bool) (Outcome, error) {
	now := g.clock.Now()

	switch g.state {
	case StateDone:
		return OutcomeDone, nil

	case StateCooldown:
		if now.Before(g.deadline) {
			// A backward wall-clock jump can inflate the apparent
			// remaining wait. Re-anchor so the gate never waits
			// longer than one full cooldown period from any
			// observed instant.
			if g.deadline.Sub(now) > g.cooldown {
				g.deadline = now.Add(g.cooldown)
			}
			return OutcomeSuppressed, nil
		}
		g.state = StateIdle
		g.deadline = time.Time{}
	}

	if !valid {
		return OutcomeRejected, nil
	}

	// Valid verdict in an armed gate: perform the side effect once,
	// then move on regardless of the result.
	g.state = StateTriggered
	err := g.port.RequestUnlock(g.pin)

	if g.singleShot {
		g.state = StateDone
	} else {
		g.state = StateCooldown
		g.deadline = now.Add(g.cooldown)
	}

	if err != nil {
		return OutcomeUnlockFailed, err
	}
	return OutcomeUnlocked, nil
}
