package orchestrator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wifitoggle/pkg/config"
	"github.com/entrhq/wifitoggle/pkg/gateway"
	"github.com/entrhq/wifitoggle/pkg/gateway/gatewaytest"
	"github.com/entrhq/wifitoggle/pkg/reconcile"
)

// simContext puts a simulated console behind gateway.SessionContext and
// records activation order into the shared log.
type simContext struct {
	gateway.Page
	name string
	log  *[]string
}

func (c *simContext) Target() string { return c.name }

func (c *simContext) Activate() error {
	*c.log = append(*c.log, "activate "+c.name)
	return nil
}

type fakeBrowser struct {
	pages    map[string]gateway.Page
	log      *[]string
	openErr  error
	closeErr error
	closed   int
}

func (b *fakeBrowser) Open(target string) (gateway.SessionContext, error) {
	if b.openErr != nil {
		return nil, b.openErr
	}
	return &simContext{Page: b.pages[target], name: target, log: b.log}, nil
}

func (b *fakeBrowser) Close() error {
	b.closed++
	return b.closeErr
}

type fakeLauncher struct {
	browser   *fakeBrowser
	launchErr error
	launches  int
}

func (l *fakeLauncher) Launch() (Browser, error) {
	l.launches++
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	return l.browser, nil
}

type fixture struct {
	runner    *Runner
	launcher  *fakeLauncher
	router    *gatewaytest.Router
	extension *gatewaytest.Extension
	log       []string
	progress  []string
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Router.IP = "192.168.1.1"
	cfg.Router.Username = "admin"
	cfg.Router.Password = "router-pass"
	cfg.Extension.IP = "192.168.1.2"
	cfg.Extension.Password = "ext-pass"
	cfg.Timeouts.Settle = 0
	return cfg
}

func newFixture(routerOn, extensionOn bool) *fixture {
	cfg := testConfig()
	f := &fixture{
		router:    gatewaytest.NewRouter(cfg.Router.Locators, routerOn),
		extension: gatewaytest.NewExtension(cfg.Extension.Locators, extensionOn),
	}
	f.launcher = &fakeLauncher{browser: &fakeBrowser{
		pages: map[string]gateway.Page{
			gateway.RouterTarget:    f.router,
			gateway.ExtensionTarget: f.extension,
		},
		log: &f.log,
	}}
	f.runner = NewRunner(cfg,
		WithLauncher(f.launcher),
		WithProgress(func(msg string) { f.progress = append(f.progress, msg) }),
	)
	return f
}

func TestCheck_ReportsBothStates(t *testing.T) {
	f := newFixture(true, false)

	status, err := f.runner.Check()
	require.NoError(t, err)

	assert.Equal(t, reconcile.Status{Router: gateway.Enabled, Extension: gateway.Disabled}, status)
	assert.Equal(t, "Router: on; Extension: off", status.String())
	assert.True(t, f.router.Enabled, "check never mutates")
	assert.False(t, f.extension.Enabled)
	assert.Equal(t, 1, f.launcher.browser.closed)
	assert.Equal(t, gateway.Credentials{Username: "admin", Password: "router-pass"}, f.router.LoggedInAs)
	assert.Equal(t, "ext-pass", f.extension.LoggedInAs.Password)
	assert.Equal(t, []string{"Logging into router...", "Logging into extension..."}, f.progress)
}

func TestToggle_MovesRadioToExtension(t *testing.T) {
	f := newFixture(true, false)

	outcome, err := f.runner.Toggle()
	require.NoError(t, err)

	assert.False(t, f.router.Enabled)
	assert.True(t, f.extension.Enabled)
	assert.Equal(t, reconcile.EnableExtensionThenDisableRouter, outcome.Decision)
	assert.Equal(t, reconcile.Status{Router: gateway.Disabled, Extension: gateway.Enabled}, outcome.After)
	assert.False(t, outcome.Verified)
	assert.Equal(t, 1, f.launcher.browser.closed)

	var order []string
	for _, msg := range f.progress {
		if msg == "Turning extension wifi on..." || msg == "Turning router wifi off..." {
			order = append(order, msg)
		}
	}
	assert.Equal(t, []string{"Turning extension wifi on...", "Turning router wifi off..."}, order)
}

func TestToggle_MovesRadioToRouter(t *testing.T) {
	f := newFixture(false, true)

	outcome, err := f.runner.Toggle()
	require.NoError(t, err)

	assert.True(t, f.router.Enabled)
	assert.False(t, f.extension.Enabled)
	assert.Equal(t, reconcile.EnableRouterThenDisableExtension, outcome.Decision)
	assert.Equal(t, []string{
		"activate router", "activate extension",
		"activate router", "activate extension",
	}, f.log)
}

func TestToggle_AmbiguousStateIsLeftAlone(t *testing.T) {
	f := newFixture(true, true)

	outcome, err := f.runner.Toggle()
	require.NoError(t, err)

	assert.Equal(t, reconcile.NoAction, outcome.Decision)
	assert.True(t, f.router.Enabled)
	assert.True(t, f.extension.Enabled)
	assert.Contains(t, outcome.Report(), "Nothing to toggle")
	assert.NotContains(t, f.router.Clicks(), testConfig().Router.Locators.Apply)
}

func TestCheck_RouterReadTimeout(t *testing.T) {
	f := newFixture(true, false)
	f.router.Fail(testConfig().Router.Locators.RadioOn, fmt.Errorf("%w: radio never rendered", gateway.ErrTimeout))

	_, err := f.runner.Check()
	require.Error(t, err)

	assert.Equal(t, gateway.KindProbe, gateway.KindOf(err))
	assert.True(t, gateway.IsTimeout(err))
	assert.Equal(t, 1, f.launcher.browser.closed, "teardown runs exactly once")
	assert.Empty(t, f.extension.Actions, "extension is never touched after the router fails")
}

func TestToggle_FailedEnableKeepsOldPath(t *testing.T) {
	f := newFixture(true, false)
	// the extension never reports OK after enabling
	f.extension.Fail(testConfig().Extension.Locators.Status, errors.New("status never rendered"))

	_, err := f.runner.Toggle()
	require.Error(t, err)

	assert.Equal(t, gateway.KindMutation, gateway.KindOf(err))
	assert.True(t, f.router.Enabled, "router stays up when the extension does not confirm")
	assert.Equal(t, 1, f.launcher.browser.closed)
}

func TestToggle_LookalikeStatusKeepsOldPath(t *testing.T) {
	f := newFixture(true, false)
	f.extension.EnableStatus = "Looking up..."

	_, err := f.runner.Toggle()
	require.Error(t, err)

	assert.True(t, gateway.IsTimeout(err))
	assert.True(t, f.router.Enabled, "router is not disabled without an OK from the extension")
	assert.NotContains(t, f.progress, "Turning router wifi off...")
}

func TestWithSession_LaunchFailure(t *testing.T) {
	launcher := &fakeLauncher{launchErr: errors.New("no chromium")}

	_, err := WithSession(launcher, func(router, extension gateway.SessionContext) (int, error) {
		t.Fatal("run must not be called")
		return 0, nil
	})

	assert.ErrorContains(t, err, "failed to launch browser: no chromium")
}

func TestWithSession_OpenFailureStillCloses(t *testing.T) {
	b := &fakeBrowser{openErr: errors.New("context crashed"), log: &[]string{}}
	launcher := &fakeLauncher{browser: b}

	_, err := WithSession(launcher, func(router, extension gateway.SessionContext) (int, error) {
		return 1, nil
	})

	assert.ErrorContains(t, err, "failed to open router context")
	assert.Equal(t, 1, b.closed)
}

func TestWithSession_RecoversPanic(t *testing.T) {
	b := &fakeBrowser{pages: map[string]gateway.Page{}, log: &[]string{}}
	launcher := &fakeLauncher{browser: b}

	_, err := WithSession(launcher, func(router, extension gateway.SessionContext) (int, error) {
		panic("boom")
	})

	assert.ErrorContains(t, err, "run panicked: boom")
	assert.Equal(t, 1, b.closed)
}

func TestWithSession_CloseError(t *testing.T) {
	b := &fakeBrowser{pages: map[string]gateway.Page{}, log: &[]string{}, closeErr: errors.New("zombie")}
	launcher := &fakeLauncher{browser: b}

	got, err := WithSession(launcher, func(router, extension gateway.SessionContext) (string, error) {
		assert.Equal(t, gateway.RouterTarget, router.Target())
		assert.Equal(t, gateway.ExtensionTarget, extension.Target())
		return "ok", nil
	})

	assert.Equal(t, "ok", got)
	assert.ErrorContains(t, err, "failed to close browser: zombie")
}

func TestWithSession_RunErrorWinsOverCloseError(t *testing.T) {
	b := &fakeBrowser{pages: map[string]gateway.Page{}, log: &[]string{}, closeErr: errors.New("zombie")}
	launcher := &fakeLauncher{browser: b}
	runErr := errors.New("probe failed")

	_, err := WithSession(launcher, func(router, extension gateway.SessionContext) (int, error) {
		return 0, runErr
	})

	assert.ErrorIs(t, err, runErr)
}
