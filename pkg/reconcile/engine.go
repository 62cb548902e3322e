// Package reconcile decides which gateway radio should be active and applies
// the transition in an order that keeps at least one path up for as long as
// possible.
package reconcile

import (
	"fmt"

	"github.com/entrhq/wifitoggle/pkg/gateway"
	"github.com/entrhq/wifitoggle/pkg/logging"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("reconcile")
	if err != nil {
		debugLog.Warnf("Failed to initialize reconcile logger, using stderr fallback: %v", err)
	}
}

// Decision is the transition required by an observed state pair.
type Decision int

const (
	// NoAction leaves both radios as they are.
	NoAction Decision = iota
	// EnableExtensionThenDisableRouter moves the active radio to the extension.
	EnableExtensionThenDisableRouter
	// EnableRouterThenDisableExtension moves the active radio to the router.
	EnableRouterThenDisableExtension
)

func (d Decision) String() string {
	switch d {
	case EnableExtensionThenDisableRouter:
		return "enable extension, then disable router"
	case EnableRouterThenDisableExtension:
		return "enable router, then disable extension"
	default:
		return "no action"
	}
}

// Decide maps an observed state pair to a transition.
//
// Both-on and both-off deliberately map to NoAction: it is not settled
// whether those states should be corrected, so they are reported instead.
func Decide(router, extension gateway.RadioState) Decision {
	switch {
	case router == gateway.Enabled && extension == gateway.Disabled:
		return EnableExtensionThenDisableRouter
	case router == gateway.Disabled && extension == gateway.Enabled:
		return EnableRouterThenDisableExtension
	default:
		return NoAction
	}
}

// Status is the radio state observed on both gateways.
type Status struct {
	Router    gateway.RadioState
	Extension gateway.RadioState
}

// String returns the compact one-line form, e.g. "Router: on; Extension: off".
func (s Status) String() string {
	return fmt.Sprintf("Router: %s; Extension: %s", s.Router, s.Extension)
}

// Report returns the two-line form shown to users.
func (s Status) Report() string {
	return fmt.Sprintf("Router wifi: %s\nExtension wifi: %s", s.Router, s.Extension)
}

// Ambiguous reports whether the pair has no defined transition.
func (s Status) Ambiguous() bool {
	return s.Router == s.Extension
}

// Target binds a gateway controller to its credentials and browser context.
type Target struct {
	Name       string
	Controller gateway.Controller
	Creds      gateway.Credentials
	Context    gateway.SessionContext
}

// Engine probes both gateways and applies the decision table.
type Engine struct {
	router    Target
	extension Target
	progress  func(msg string)
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgress reports each step as it starts.
func WithProgress(fn func(msg string)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// NewEngine creates an engine over the router and extension targets.
func NewEngine(router, extension Target, opts ...Option) *Engine {
	e := &Engine{
		router:    router,
		extension: extension,
		progress:  func(string) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Probe logs into both gateways and reads their radio state. It never mutates.
func (e *Engine) Probe() (Status, error) {
	var status Status
	var err error

	if status.Router, err = e.probe(e.router); err != nil {
		return Status{}, err
	}
	if status.Extension, err = e.probe(e.extension); err != nil {
		return Status{}, err
	}

	debugLog.Infof("probe: %s", status)
	return status, nil
}

func (e *Engine) probe(t Target) (gateway.RadioState, error) {
	e.progress(fmt.Sprintf("Logging into %s...", t.Name))
	if err := t.Context.Activate(); err != nil {
		return gateway.Disabled, fmt.Errorf("activate %s context: %w", t.Name, err)
	}
	if err := t.Controller.Login(t.Context, t.Creds); err != nil {
		return gateway.Disabled, err
	}
	return t.Controller.ReadState(t.Context)
}

// Outcome is the result of a reconciliation.
type Outcome struct {
	Before   Status
	Decision Decision

	// After is the state the applied transition should have produced. It is
	// not read back from the devices.
	After Status

	// Verified is always false: the final state is never re-read.
	Verified bool
}

// Report returns the confirmation text shown to users.
func (o Outcome) Report() string {
	if o.Decision == NoAction {
		return fmt.Sprintf("Nothing to toggle (%s): both radios are %s; leaving them as they are",
			o.Before, o.Before.Router)
	}
	return fmt.Sprintf("Toggled: %s\nNow (unverified): %s", o.Decision, o.After)
}

// Reconcile probes both gateways and applies the required transition. The
// radio being brought up is confirmed before the other is torn down.
func (e *Engine) Reconcile() (Outcome, error) {
	before, err := e.Probe()
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Before: before, Decision: Decide(before.Router, before.Extension), After: before}
	debugLog.Infof("reconcile: %s -> %s", before, out.Decision)

	switch out.Decision {
	case EnableExtensionThenDisableRouter:
		err = e.handover(e.extension, e.router)
		out.After = Status{Router: gateway.Disabled, Extension: gateway.Enabled}
	case EnableRouterThenDisableExtension:
		err = e.handover(e.router, e.extension)
		out.After = Status{Router: gateway.Enabled, Extension: gateway.Disabled}
	default:
		debugLog.Warnf("reconcile: no transition defined for %s", before)
	}
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

func (e *Engine) handover(up, down Target) error {
	if err := e.set(up, gateway.Enabled); err != nil {
		return err
	}
	return e.set(down, gateway.Disabled)
}

func (e *Engine) set(t Target, desired gateway.RadioState) error {
	e.progress(fmt.Sprintf("Turning %s wifi %s...", t.Name, desired))
	if err := t.Context.Activate(); err != nil {
		return fmt.Errorf("activate %s context: %w", t.Name, err)
	}
	return t.Controller.SetState(t.Context, desired)
}
