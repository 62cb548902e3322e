package gatewaytest

import (
	"github.com/entrhq/wifitoggle/pkg/gateway"
)

// Router simulates the router console.
type Router struct {
	*Page

	// Enabled is the radio state the device has applied.
	Enabled bool

	// LoggedInAs records the submitted credentials.
	LoggedInAs gateway.Credentials

	loc gateway.RouterLocators
}

// NewRouter returns a router console whose radio starts in the given state.
func NewRouter(loc gateway.RouterLocators, enabled bool) *Router {
	r := &Router{Page: NewPage(), Enabled: enabled, loc: loc}

	user := r.Set("", loc.Username, &Element{Visible: true})
	pass := r.Set("", loc.Password, &Element{Visible: true})
	r.Set("", loc.Submit, &Element{Visible: true, OnClick: func() {
		r.LoggedInAs = gateway.Credentials{Username: user.Value, Password: pass.Value}
		r.Set("", loc.WifiSettings, &Element{Visible: true, OnClick: r.showSettings})
	}})
	return r
}

func (r *Router) showSettings() {
	on := r.Set("", r.loc.RadioOn, &Element{Visible: true, Checked: r.Enabled})
	off := r.Set("", r.loc.RadioOff, &Element{Visible: true, Checked: !r.Enabled})
	banner := r.Set("", r.loc.Success, &Element{})

	on.OnClick = func() { on.Checked, off.Checked = true, false }
	off.OnClick = func() { on.Checked, off.Checked = false, true }
	r.Set("", r.loc.Apply, &Element{Visible: true, OnClick: func() {
		r.Enabled = on.Checked
		banner.Visible = true
	}})
}

// Extension simulates the extension console, including its habit of first
// rendering the wifi toggle as "on".
type Extension struct {
	*Page

	// Enabled is the radio state the device has applied.
	Enabled bool

	// LoggedInAs records the submitted credentials.
	LoggedInAs gateway.Credentials

	// StaleReads is how many toggle reads after each navigation return the
	// wrong initial rendering.
	StaleReads int

	// EnableStatus is the status message shown after enabling is confirmed.
	EnableStatus string

	loc      gateway.ExtensionLocators
	loggedIn bool
	pending  bool
}

// NewExtension returns an extension console whose radio starts in the given state.
func NewExtension(loc gateway.ExtensionLocators, enabled bool) *Extension {
	e := &Extension{Page: NewPage(), Enabled: enabled, StaleReads: 1, EnableStatus: loc.StatusOK, loc: loc}

	pass := e.Set("", loc.Password, &Element{Visible: true})
	status := &Element{Visible: true}
	// login and confirm share a selector on the stock firmware
	submit := func() {
		if !e.loggedIn {
			e.loggedIn = true
			e.LoggedInAs = gateway.Credentials{Password: pass.Value}
			e.Set("", loc.WifiSettings, &Element{Visible: true, OnClick: e.showSettings})
			e.Set("", loc.Status, status)
			if loc.Confirm != loc.Submit {
				e.Set("", loc.Confirm, &Element{Visible: true, OnClick: e.confirm(status)})
			}
			return
		}
		e.confirm(status)()
	}
	e.Set("", loc.Submit, &Element{Visible: true, OnClick: submit})
	return e
}

func (e *Extension) showSettings() {
	e.pending = e.Enabled
	stale := e.StaleReads

	e.Set("", e.loc.Content, &Element{Visible: true})
	e.Set("", e.loc.Frame, &Element{Visible: true})
	e.Set(e.loc.Frame, e.loc.Toggle, &Element{
		Visible: true,
		OnClick: func() { e.pending = !e.pending },
		OnRead: func(name string) string {
			if name != "class" {
				return ""
			}
			if stale > 0 {
				stale--
				return e.loc.ToggleOn
			}
			if e.pending {
				return e.loc.ToggleOn
			}
			return e.loc.ToggleOff
		},
	})
}

func (e *Extension) confirm(status *Element) func() {
	return func() {
		e.Enabled = e.pending
		if e.Enabled {
			status.Text = e.EnableStatus
		} else {
			status.Text = ""
		}
	}
}
