package gateway

import (
	"fmt"
	"time"
)

// ExtensionTarget is the target name used for the extension's session context.
const ExtensionTarget = "extension"

// ExtensionOptions tunes the waits of the extension controller.
type ExtensionOptions struct {
	// NavigateTimeout bounds the wait for the settings content and its frame.
	NavigateTimeout time.Duration

	// ConfirmTimeout bounds the wait for the "OK" status after enabling.
	ConfirmTimeout time.Duration

	// Settle reads the wifi toggle once its class stops changing.
	Settle Settler
}

// Extension controls the wifi extension's console. The wifi toggle lives in
// an iframe of the wireless tab; changes are applied with a top-level button.
type Extension struct {
	endpoint Endpoint[ExtensionLocators]
	opts     ExtensionOptions
}

// NewExtension creates an extension controller.
func NewExtension(endpoint Endpoint[ExtensionLocators], opts ExtensionOptions) *Extension {
	return &Extension{
		endpoint: endpoint,
		opts:     opts,
	}
}

// Login implements Controller. The extension only asks for a password.
func (e *Extension) Login(page Page, creds Credentials) error {
	loc := e.endpoint.Locators
	debugLog.Debugf("extension: logging in at %s", e.endpoint.BaseURL)

	if err := page.Goto(e.endpoint.BaseURL); err != nil {
		return newError(KindAuth, ExtensionTarget, "open console", err)
	}
	if err := page.Fill(loc.Password, creds.Password); err != nil {
		return newError(KindAuth, ExtensionTarget, "fill password", err)
	}
	if err := page.Click(loc.Submit); err != nil {
		return newError(KindAuth, ExtensionTarget, "submit login", err)
	}
	return nil
}

// ReadState implements Controller.
func (e *Extension) ReadState(page Page) (RadioState, error) {
	class, err := e.openToggle(page)
	page.SwitchToDefault()
	if err != nil {
		return Disabled, newError(KindProbe, ExtensionTarget, "read toggle", err)
	}

	loc := e.endpoint.Locators
	switch class {
	case loc.ToggleOn:
		debugLog.Debugf("extension: radio is on")
		return Enabled, nil
	case loc.ToggleOff:
		debugLog.Debugf("extension: radio is off")
		return Disabled, nil
	default:
		return Disabled, newError(KindProbe, ExtensionTarget, "read toggle",
			fmt.Errorf("unexpected toggle class %q", class))
	}
}

// SetState implements Controller.
func (e *Extension) SetState(page Page, desired RadioState) error {
	current, err := e.ReadState(page)
	if err != nil {
		return err
	}
	if current == desired {
		debugLog.Debugf("extension: radio already %s", desired)
		return nil
	}

	loc := e.endpoint.Locators
	op := fmt.Sprintf("turn radio %s", desired)

	if _, err := e.openToggle(page); err != nil {
		page.SwitchToDefault()
		return newError(KindMutation, ExtensionTarget, op, err)
	}
	err = page.Click(loc.Toggle)
	page.SwitchToDefault()
	if err != nil {
		return newError(KindMutation, ExtensionTarget, op, err)
	}
	if err := page.Click(loc.Confirm); err != nil {
		return newError(KindMutation, ExtensionTarget, op, err)
	}

	if desired == Disabled {
		// the extension drops the connection before it reports the status
		debugLog.Debugf("extension: radio off applied, not waiting for confirmation")
		return nil
	}

	if err := page.WaitText(loc.Status, loc.StatusOK, e.opts.ConfirmTimeout); err != nil {
		return newError(KindMutation, ExtensionTarget, "await confirmation", err)
	}
	debugLog.Debugf("extension: radio on confirmed")
	return nil
}

// openToggle opens the wireless tab, enters the settings frame and returns
// the settled class of the wifi toggle. The caller must switch back to the
// top-level document.
func (e *Extension) openToggle(page Page) (string, error) {
	loc := e.endpoint.Locators

	if err := page.Click(loc.WifiSettings); err != nil {
		return "", err
	}
	if err := page.WaitVisible(loc.Content, e.opts.NavigateTimeout); err != nil {
		return "", err
	}
	if err := page.SwitchToFrame(loc.Frame, e.opts.NavigateTimeout); err != nil {
		return "", err
	}

	return e.opts.Settle.Read(func() (string, error) {
		return page.Attribute(loc.Toggle, "class")
	})
}
