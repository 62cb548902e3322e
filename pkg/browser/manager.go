package browser

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/wifitoggle/pkg/logging"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("browser")
	if err != nil {
		debugLog.Warnf("Failed to initialize browser logger, using stderr fallback: %v", err)
	}
}

// Launcher starts the playwright driver and one Chromium process.
type Launcher struct {
	opts LaunchOptions
}

// NewLauncher creates a launcher, filling unset options with defaults.
func NewLauncher(opts LaunchOptions) *Launcher {
	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.ElementTimeout == 0 {
		opts.ElementTimeout = DefaultElementTimeout
	}
	return &Launcher{opts: opts}
}

// Launch installs the driver if needed and starts the browser.
func (l *Launcher) Launch() (*Manager, error) {
	runOpts := &playwright.RunOptions{
		Browsers:            []string{"chromium"},
		SkipInstallBrowsers: l.opts.ExecutablePath != "",
		Verbose:             false,
		Stdout:              io.Discard,
		Stderr:              io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.opts.Headless),
	}
	if l.opts.ExecutablePath != "" {
		launchOpts.ExecutablePath = playwright.String(l.opts.ExecutablePath)
	}

	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	debugLog.Infof("browser launched (headless=%t, executable=%q)", l.opts.Headless, l.opts.ExecutablePath)
	return newManager(pw, b, l.opts), nil
}

// Manager owns one browser process and one Session per target. At most one
// session is active, i.e. receiving driver commands, at any time.
type Manager struct {
	mu       sync.Mutex
	pw       *playwright.Playwright
	browser  playwright.Browser
	opts     LaunchOptions
	sessions map[string]*Session
	order    []string
	active   string

	closeOnce sync.Once
	closeErr  error
	closed    bool
}

func newManager(pw *playwright.Playwright, b playwright.Browser, opts LaunchOptions) *Manager {
	return &Manager{
		pw:       pw,
		browser:  b,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Open creates the navigation context for target.
func (m *Manager) Open(target string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("browser already closed")
	}
	if _, exists := m.sessions[target]; exists {
		return nil, fmt.Errorf("session %q already exists", target)
	}

	context, err := m.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  m.opts.Viewport.Width,
			Height: m.opts.Viewport.Height,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context for %s: %w", target, err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		return nil, fmt.Errorf("failed to create page for %s: %w", target, err)
	}
	page.SetDefaultTimeout(milliseconds(m.opts.ElementTimeout))

	session := &Session{
		Name:    target,
		Context: context,
		Page:    page,
		manager: m,
	}

	m.sessions[target] = session
	m.order = append(m.order, target)
	debugLog.Debugf("opened session %s", target)
	return session, nil
}

func (m *Manager) activate(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("browser already closed")
	}
	if m.sessions[s.Name] != s {
		return fmt.Errorf("session %q does not belong to this browser", s.Name)
	}
	if m.active == s.Name {
		return nil
	}

	if err := s.Page.BringToFront(); err != nil {
		return fmt.Errorf("failed to activate %s: %w", s.Name, err)
	}
	debugLog.Debugf("active session: %s -> %s", m.active, s.Name)
	m.active = s.Name
	return nil
}

// Close closes every session, the browser and the playwright driver. Only
// the first call does any work; later calls return the first result.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		var errs []error
		for _, name := range m.order {
			session := m.sessions[name]
			_ = session.Page.Close() // the context close below covers it
			if err := session.Context.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s context: %w", name, err))
			}
			delete(m.sessions, name)
		}
		m.order = nil
		m.active = ""

		if m.browser != nil {
			if err := m.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close browser: %w", err))
			}
		}
		if m.pw != nil {
			if err := m.pw.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("stop playwright: %w", err))
			}
		}

		m.closed = true
		m.closeErr = errors.Join(errs...)
		debugLog.Infof("browser closed (err=%v)", m.closeErr)
	})
	return m.closeErr
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
