package gateway

import "time"

// RadioState is the on/off state of a gateway's wifi radio.
type RadioState bool

const (
	Enabled  RadioState = true
	Disabled RadioState = false
)

// String returns "on" or "off".
func (s RadioState) String() string {
	if s {
		return "on"
	}
	return "off"
}

// Credentials are the console login credentials of one gateway.
// Username is ignored by gateways that only ask for a password.
type Credentials struct {
	Username string
	Password string
}

// Endpoint addresses one gateway console and names the UI elements
// its controller interacts with.
type Endpoint[L any] struct {
	BaseURL  string
	Locators L
}

// Page is the browser surface a controller drives. Element lookups wait up
// to the page's default element timeout before failing.
type Page interface {
	// Goto loads url in the top-level document.
	Goto(url string) error

	// Fill clears the input matching selector and types value.
	Fill(selector, value string) error

	// Click clicks the element matching selector.
	Click(selector string) error

	// IsChecked reports whether the checkbox or radio matching selector is selected.
	IsChecked(selector string) (bool, error)

	// Attribute returns the named attribute of the element matching selector.
	Attribute(selector, name string) (string, error)

	// WaitVisible blocks until the element matching selector is visible.
	WaitVisible(selector string, timeout time.Duration) error

	// WaitText blocks until the element matching selector contains text.
	WaitText(selector, text string, timeout time.Duration) error

	// SwitchToFrame waits for the iframe matching selector and directs
	// subsequent lookups into it.
	SwitchToFrame(selector string, timeout time.Duration) error

	// SwitchToDefault directs subsequent lookups back to the top-level document.
	SwitchToDefault()
}

// SessionContext is one target's browser navigation context. Only the
// activated context receives commands.
type SessionContext interface {
	Page

	// Target names the gateway this context is bound to.
	Target() string

	// Activate makes this context the one receiving driver commands.
	Activate() error
}

// Controller is the capability set every gateway type implements.
type Controller interface {
	// Login fills the credential form and submits it. Success is not
	// verified; a rejected login surfaces as a later lookup failure.
	Login(page Page, creds Credentials) error

	// ReadState reports the radio state shown by the console.
	ReadState(page Page) (RadioState, error)

	// SetState moves the radio to desired, doing nothing if it is already there.
	SetState(page Page, desired RadioState) error
}
