// Package submit implements the score submission flow: a modal state
// machine that collects the player's initials, packages identity, snapshot
// and hash into the backend payload, and tracks the round trip. While a
// gate is live, gameplay is paused; the platform layer owns that.
package submit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kkurian/typeattack/internal/session"
)

// State is the gate's position in the submission flow.
type State int

const (
	StateIdle State = iota
	StateInput
	StateSubmitting
	StateSuccess
	StateError
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateInput:
		return "Input"
	case StateSubmitting:
		return "Submitting"
	case StateSuccess:
		return "Success"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

var (
	// ErrBadInitials is returned for initials that are not exactly three
	// ASCII letters. Local validation; never reaches the network.
	ErrBadInitials = errors.New("submit: initials must be exactly three letters")

	// ErrWrongState is returned when an operation is called outside the
	// state it belongs to.
	ErrWrongState = errors.New("submit: operation not valid in this state")

	// ErrNotFinalized is returned when the offered snapshot did not come
	// from a completed session.
	ErrNotFinalized = errors.New("submit: snapshot is not finalized")
)

// Payload is the one JSON POST the backend accepts per worthy session. The
// backend independently recomputes the hash from sessionData and rejects on
// mismatch.
type Payload struct {
	UserID      string            `json:"userId"`
	Initials    string            `json:"initials"`
	SessionHash string            `json:"sessionHash"`
	SessionData *session.Snapshot `json:"sessionData"`
}

// Gate is the modal submission state machine:
// Idle -> Input -> Submitting -> Success, or Submitting -> Error -> Input.
// At most one live instance; there is no automatic retry on error.
type Gate struct {
	state    State
	identity session.Identity

	snapshot *session.Snapshot
	hash     string
	initials string
	errMsg   string
}

// NewGate creates an idle gate bound to the player's identity.
func NewGate(id session.Identity) *Gate {
	return &Gate{state: StateIdle, identity: id, initials: id.Nickname}
}

// State returns the current gate state.
func (g *Gate) State() State {
	return g.state
}

// Hash returns the digest computed when the snapshot was offered.
func (g *Gate) Hash() string {
	return g.hash
}

// Initials returns the current initials buffer.
func (g *Gate) Initials() string {
	return g.initials
}

// ErrorMessage returns the message shown in the Error state.
func (g *Gate) ErrorMessage() string {
	return g.errMsg
}

// Offer moves Idle -> Input with a finalized snapshot. The hash is computed
// here, once; a hashing failure keeps the gate idle and is fatal for
// submission only.
func (g *Gate) Offer(snap *session.Snapshot) error {
	if g.state != StateIdle {
		return ErrWrongState
	}
	if !snap.Finalized() {
		return ErrNotFinalized
	}
	hash, err := session.Hash(snap)
	if err != nil {
		return fmt.Errorf("submit: cannot hash session: %w", err)
	}

	g.snapshot = snap
	g.hash = hash
	g.errMsg = ""
	g.state = StateInput
	return nil
}

// StartSubmit validates the initials, moves Input -> Submitting, and returns
// the payload for the network call. Validation failures leave the gate in
// Input.
func (g *Gate) StartSubmit(initials string) (Payload, error) {
	if g.state != StateInput {
		return Payload{}, ErrWrongState
	}
	norm, err := NormalizeInitials(initials)
	if err != nil {
		return Payload{}, err
	}

	g.initials = norm
	g.errMsg = ""
	g.state = StateSubmitting
	return Payload{
		UserID:      g.identity.Token,
		Initials:    norm,
		SessionHash: g.hash,
		SessionData: g.snapshot,
	}, nil
}

// Resolve moves Submitting -> Success on nil, or Submitting -> Error with
// the error's message otherwise.
func (g *Gate) Resolve(err error) {
	if g.state != StateSubmitting {
		return
	}
	if err == nil {
		g.state = StateSuccess
		return
	}
	g.errMsg = err.Error()
	g.state = StateError
}

// Retry moves Error -> Input, keeping the entered initials. The human
// decides; the gate never retries on its own.
func (g *Gate) Retry() {
	if g.state == StateError {
		g.state = StateInput
	}
}

// Close abandons the flow and returns the gate to Idle.
func (g *Gate) Close() {
	g.state = StateIdle
	g.snapshot = nil
	g.hash = ""
	g.errMsg = ""
}

// NormalizeInitials upper-cases and validates exactly three ASCII letters.
func NormalizeInitials(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) != 3 {
		return "", ErrBadInitials
	}
	up := strings.ToUpper(s)
	for i := 0; i < len(up); i++ {
		if up[i] < 'A' || up[i] > 'Z' {
			return "", ErrBadInitials
		}
	}
	return up, nil
}
