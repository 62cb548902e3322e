package gateway

import (
	"fmt"
	"time"

	"github.com/entrhq/wifitoggle/pkg/logging"
)

// RouterTarget is the target name used for the router's session context.
const RouterTarget = "router"

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("gateway")
	if err != nil {
		debugLog.Warnf("Failed to initialize gateway logger, using stderr fallback: %v", err)
	}
}

// Router controls the primary router's console. Its wifi settings are a pair
// of radio buttons on a sub-page, applied with a single button.
type Router struct {
	endpoint       Endpoint[RouterLocators]
	confirmTimeout time.Duration
}

// NewRouter creates a router controller. confirmTimeout bounds the wait for
// the success banner after enabling.
func NewRouter(endpoint Endpoint[RouterLocators], confirmTimeout time.Duration) *Router {
	return &Router{
		endpoint:       endpoint,
		confirmTimeout: confirmTimeout,
	}
}

// Login implements Controller.
func (r *Router) Login(page Page, creds Credentials) error {
	loc := r.endpoint.Locators
	debugLog.Debugf("router: logging in at %s as %q", r.endpoint.BaseURL, creds.Username)

	if err := page.Goto(r.endpoint.BaseURL); err != nil {
		return newError(KindAuth, RouterTarget, "open console", err)
	}
	if err := page.Fill(loc.Username, creds.Username); err != nil {
		return newError(KindAuth, RouterTarget, "fill username", err)
	}
	if err := page.Fill(loc.Password, creds.Password); err != nil {
		return newError(KindAuth, RouterTarget, "fill password", err)
	}
	if err := page.Click(loc.Submit); err != nil {
		return newError(KindAuth, RouterTarget, "submit login", err)
	}
	return nil
}

// ReadState implements Controller. It leaves the page on the wifi settings
// sub-page, which is where SetState mutates.
func (r *Router) ReadState(page Page) (RadioState, error) {
	loc := r.endpoint.Locators

	if err := page.Click(loc.WifiSettings); err != nil {
		return Disabled, newError(KindProbe, RouterTarget, "open wifi settings", err)
	}
	on, err := page.IsChecked(loc.RadioOn)
	if err != nil {
		return Disabled, newError(KindProbe, RouterTarget, "read radio", err)
	}

	debugLog.Debugf("router: radio is %s", RadioState(on))
	return RadioState(on), nil
}

// SetState implements Controller.
func (r *Router) SetState(page Page, desired RadioState) error {
	current, err := r.ReadState(page)
	if err != nil {
		return err
	}
	if current == desired {
		debugLog.Debugf("router: radio already %s", desired)
		return nil
	}

	loc := r.endpoint.Locators
	radio := loc.RadioOff
	if desired == Enabled {
		radio = loc.RadioOn
	}

	op := fmt.Sprintf("turn radio %s", desired)
	if err := page.Click(radio); err != nil {
		return newError(KindMutation, RouterTarget, op, err)
	}
	if err := page.Click(loc.Apply); err != nil {
		return newError(KindMutation, RouterTarget, op, err)
	}

	if desired == Disabled {
		// the path being torn down may be the one the banner would arrive on
		debugLog.Debugf("router: radio off applied, not waiting for confirmation")
		return nil
	}

	if err := page.WaitVisible(loc.Success, r.confirmTimeout); err != nil {
		return newError(KindMutation, RouterTarget, "await confirmation", err)
	}
	debugLog.Debugf("router: radio on confirmed")
	return nil
}
