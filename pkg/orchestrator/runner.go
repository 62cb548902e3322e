package orchestrator

import (
	"github.com/entrhq/wifitoggle/pkg/browser"
	"github.com/entrhq/wifitoggle/pkg/config"
	"github.com/entrhq/wifitoggle/pkg/gateway"
	"github.com/entrhq/wifitoggle/pkg/reconcile"
)

// Run modes, as reported in logs and metrics.
const (
	ModeCheck  = "check"
	ModeToggle = "toggle"
)

// Runner executes check and toggle runs against the configured gateways.
// Every run uses a fresh browser.
type Runner struct {
	cfg       config.Config
	launcher  Launcher
	router    gateway.Controller
	extension gateway.Controller
	progress  func(string)
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress reports each step of a run as it starts.
func WithProgress(fn func(string)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithLauncher replaces the playwright launcher.
func WithLauncher(l Launcher) Option {
	return func(r *Runner) {
		r.launcher = l
	}
}

// NewRunner builds the controllers described by cfg.
func NewRunner(cfg config.Config, opts ...Option) *Runner {
	settle := gateway.DefaultSettler()
	settle.MinDelay = cfg.Timeouts.Settle

	r := &Runner{
		cfg:    cfg,
		router: gateway.NewRouter(cfg.RouterEndpoint(), cfg.Timeouts.RouterConfirm),
		extension: gateway.NewExtension(cfg.ExtensionEndpoint(), gateway.ExtensionOptions{
			NavigateTimeout: cfg.Timeouts.Element,
			ConfirmTimeout:  cfg.Timeouts.ExtensionConfirm,
			Settle:          settle,
		}),
		progress: func(string) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.launcher == nil {
		r.launcher = Playwright(browser.NewLauncher(browser.LaunchOptions{
			Headless:       !cfg.Browser.Headful,
			ExecutablePath: cfg.Browser.DriverPath,
			ElementTimeout: cfg.Timeouts.Element,
		}))
	}
	return r
}

// Check reads both radios without changing anything.
func (r *Runner) Check() (reconcile.Status, error) {
	debugLog.Infof("run: %s", ModeCheck)
	status, err := WithSession(r.launcher, func(router, extension gateway.SessionContext) (reconcile.Status, error) {
		return r.engine(router, extension).Probe()
	})
	recordRun(ModeCheck, err)
	if err == nil {
		debugLog.Infof("check result: %s", status)
	}
	return status, err
}

// Toggle moves the active radio to the other gateway.
func (r *Runner) Toggle() (reconcile.Outcome, error) {
	debugLog.Infof("run: %s", ModeToggle)
	outcome, err := WithSession(r.launcher, func(router, extension gateway.SessionContext) (reconcile.Outcome, error) {
		return r.engine(router, extension).Reconcile()
	})
	recordRun(ModeToggle, err)
	if err == nil {
		recordDecision(outcome.Decision)
		debugLog.Infof("toggle result: %s -> %s", outcome.Before, outcome.Decision)
	}
	return outcome, err
}

func (r *Runner) engine(router, extension gateway.SessionContext) *reconcile.Engine {
	return reconcile.NewEngine(
		reconcile.Target{
			Name:       gateway.RouterTarget,
			Controller: r.router,
			Creds:      r.cfg.RouterCredentials(),
			Context:    router,
		},
		reconcile.Target{
			Name:       gateway.ExtensionTarget,
			Controller: r.extension,
			Creds:      r.cfg.ExtensionCredentials(),
			Context:    extension,
		},
		reconcile.WithProgress(r.progress),
	)
}
