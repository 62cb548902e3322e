// Package orchestrator runs one check or toggle end to end: it owns the
// browser for the duration of the run and is the only place errors are
// logged and reported.
package orchestrator

import (
	"fmt"

	"github.com/entrhq/wifitoggle/pkg/browser"
	"github.com/entrhq/wifitoggle/pkg/gateway"
	"github.com/entrhq/wifitoggle/pkg/logging"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("orchestrator")
	if err != nil {
		debugLog.Warnf("Failed to initialize orchestrator logger, using stderr fallback: %v", err)
	}
}

// Browser is a running browser that hands out one context per target.
type Browser interface {
	Open(target string) (gateway.SessionContext, error)
	Close() error
}

// Launcher starts a Browser.
type Launcher interface {
	Launch() (Browser, error)
}

// Playwright adapts a browser.Launcher.
func Playwright(l *browser.Launcher) Launcher {
	return playwrightLauncher{l: l}
}

type playwrightLauncher struct {
	l *browser.Launcher
}

func (p playwrightLauncher) Launch() (Browser, error) {
	m, err := p.l.Launch()
	if err != nil {
		return nil, err
	}
	return playwrightBrowser{m: m}, nil
}

type playwrightBrowser struct {
	m *browser.Manager
}

func (b playwrightBrowser) Open(target string) (gateway.SessionContext, error) {
	s, err := b.m.Open(target)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (b playwrightBrowser) Close() error {
	return b.m.Close()
}

// WithSession launches a browser, opens the router and extension contexts
// and calls run with them. The browser is closed exactly once whatever run
// does, including panicking.
func WithSession[T any](launcher Launcher, run func(router, extension gateway.SessionContext) (T, error)) (result T, err error) {
	b, err := launcher.Launch()
	if err != nil {
		debugLog.Errorf("browser launch failed: %v", err)
		return result, fmt.Errorf("failed to launch browser: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("run panicked: %v", r)
		}
		closeErr := b.Close()
		recordTeardown()
		if closeErr != nil {
			debugLog.Warnf("browser teardown: %v", closeErr)
			if err == nil {
				err = fmt.Errorf("failed to close browser: %w", closeErr)
			}
		}
		if err != nil {
			debugLog.Errorf("run failed: %v", err)
		}
	}()

	router, err := b.Open(gateway.RouterTarget)
	if err != nil {
		return result, fmt.Errorf("failed to open %s context: %w", gateway.RouterTarget, err)
	}
	extension, err := b.Open(gateway.ExtensionTarget)
	if err != nil {
		return result, fmt.Errorf("failed to open %s context: %w", gateway.ExtensionTarget, err)
	}

	return run(router, extension)
}
