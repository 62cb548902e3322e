package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session is one target's isolated browser context and its page.
type Session struct {
	// Name is the target this session is bound to
	Name string

	// Context is the browser context (isolated cookies and storage)
	Context playwright.BrowserContext

	// Page is the context's only page
	Page playwright.Page

	manager *Manager

	// frame is the iframe selector lookups are scoped to; "" is the top-level document
	frame string
}

// LaunchOptions configures the browser process.
type LaunchOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// ExecutablePath points at a local Chromium/Chrome binary. When set,
	// playwright does not download its own browser.
	ExecutablePath string

	// Viewport sets the viewport size of every session
	Viewport *Viewport

	// ElementTimeout is how long element lookups wait before failing
	ElementTimeout time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Default values for various operations
const (
	DefaultElementTimeout = 6 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)
