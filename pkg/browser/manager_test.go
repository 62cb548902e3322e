package browser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wifitoggle/pkg/gateway"
)

// The fakes embed the playwright interfaces and override only what the
// manager calls; anything else panics.

type fakePage struct {
	playwright.Page
	fronted int
	closed  int
}

func (p *fakePage) BringToFront() error {
	p.fronted++
	return nil
}

func (p *fakePage) Close(...playwright.PageCloseOptions) error {
	p.closed++
	return nil
}

type fakeContext struct {
	playwright.BrowserContext
	closed int
	err    error
}

func (c *fakeContext) Close(...playwright.BrowserContextCloseOptions) error {
	c.closed++
	return c.err
}

type fakeBrowser struct {
	playwright.Browser
	closed int
}

func (b *fakeBrowser) Close(...playwright.BrowserCloseOptions) error {
	b.closed++
	return nil
}

func newTestManager(targets ...string) (*Manager, *fakeBrowser) {
	b := &fakeBrowser{}
	m := newManager(nil, b, LaunchOptions{})
	for _, name := range targets {
		m.sessions[name] = &Session{
			Name:    name,
			Page:    &fakePage{},
			Context: &fakeContext{},
			manager: m,
		}
		m.order = append(m.order, name)
	}
	return m, b
}

func TestNewLauncherDefaults(t *testing.T) {
	l := NewLauncher(LaunchOptions{Headless: true})

	assert.True(t, l.opts.Headless)
	assert.Equal(t, DefaultElementTimeout, l.opts.ElementTimeout)
	require.NotNil(t, l.opts.Viewport)
	assert.Equal(t, DefaultViewportWidth, l.opts.Viewport.Width)
}

func TestManager_ActivateKeepsOneActive(t *testing.T) {
	m, _ := newTestManager("router", "extension")
	router, extension := m.sessions["router"], m.sessions["extension"]

	assert.Empty(t, m.active)

	require.NoError(t, router.Activate())
	assert.Equal(t, "router", m.active)

	require.NoError(t, extension.Activate())
	assert.Equal(t, "extension", m.active)

	// re-activating the active session is a no-op
	require.NoError(t, extension.Activate())
	assert.Equal(t, 1, extension.Page.(*fakePage).fronted)
	assert.Equal(t, 1, router.Page.(*fakePage).fronted)
}

func TestManager_ActivateForeignSession(t *testing.T) {
	m, _ := newTestManager("router")
	other, _ := newTestManager("router")
	foreign := other.sessions["router"]

	err := m.activate(foreign)
	assert.ErrorContains(t, err, "does not belong")
}

func TestManager_CloseRunsOnce(t *testing.T) {
	m, b := newTestManager("router", "extension")
	router := m.sessions["router"]
	ctx := router.Context.(*fakeContext)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Equal(t, 1, b.closed)
	assert.Equal(t, 1, ctx.closed)
	assert.Empty(t, m.active)
	assert.Empty(t, m.sessions)
	assert.Error(t, router.Activate(), "sessions are unusable after close")

	_, err := m.Open("router")
	assert.Error(t, err)
}

func TestManager_CloseReportsErrorsButFinishes(t *testing.T) {
	m, b := newTestManager("router", "extension")
	router := m.sessions["router"]
	router.Context.(*fakeContext).err = errors.New("context gone")

	err := m.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close router context")
	assert.Equal(t, 1, b.closed, "browser must close even if a context failed")
	assert.Equal(t, err, m.Close())
}

func TestManager_OpenDuplicate(t *testing.T) {
	m, _ := newTestManager("router")

	_, err := m.Open("router")
	assert.ErrorContains(t, err, "already exists")
}

func TestErrorClassification(t *testing.T) {
	timeout := fmt.Errorf("locator.click: %w", playwright.ErrTimeout)
	other := errors.New("target closed")

	assert.NoError(t, lookupErr("#x", nil))
	assert.NoError(t, waitErr("#x", nil))

	assert.ErrorIs(t, lookupErr("#x", timeout), gateway.ErrElementNotFound)
	assert.ErrorIs(t, waitErr("#x", timeout), gateway.ErrTimeout)

	err := lookupErr("#x", other)
	assert.ErrorIs(t, err, other)
	assert.False(t, gateway.IsTimeout(err))
}

func TestSessionFrameScope(t *testing.T) {
	s := &Session{frame: "#main_iframe"}
	s.SwitchToDefault()
	assert.Empty(t, s.frame)
	assert.Equal(t, "", s.Target())
}

func TestExactSubstring(t *testing.T) {
	ok := exactSubstring("OK")

	for _, text := range []string{"OK", " OK ", "Saved: OK"} {
		assert.True(t, ok.MatchString(text), text)
	}
	for _, text := range []string{"Looking up...", "Token expired", "Broken", "ok", ""} {
		assert.False(t, ok.MatchString(text), text)
	}

	assert.True(t, exactSubstring("a.b").MatchString("a.b"))
	assert.False(t, exactSubstring("a.b").MatchString("axb"), "metacharacters are literal")
}
