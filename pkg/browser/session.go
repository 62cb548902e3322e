package browser

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/wifitoggle/pkg/gateway"
)

var _ gateway.SessionContext = (*Session)(nil)

// Target implements gateway.SessionContext.
func (s *Session) Target() string {
	return s.Name
}

// Activate makes this session the one receiving driver commands.
func (s *Session) Activate() error {
	return s.manager.activate(s)
}

// Goto navigates the top-level document to url.
func (s *Session) Goto(url string) error {
	s.frame = ""

	if _, err := s.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Fill clears the matching input and types value.
func (s *Session) Fill(selector, value string) error {
	return lookupErr(selector, s.locator(selector).Fill(value))
}

// Click clicks the matching element.
func (s *Session) Click(selector string) error {
	return lookupErr(selector, s.locator(selector).Click())
}

// IsChecked reports whether the matching checkbox or radio is selected.
func (s *Session) IsChecked(selector string) (bool, error) {
	checked, err := s.locator(selector).IsChecked()
	return checked, lookupErr(selector, err)
}

// Attribute returns the named attribute of the matching element.
func (s *Session) Attribute(selector, name string) (string, error) {
	value, err := s.locator(selector).GetAttribute(name)
	return value, lookupErr(selector, err)
}

// WaitVisible waits for the matching element to become visible.
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	err := s.locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(milliseconds(timeout)),
	})
	return waitErr(selector, err)
}

// WaitText waits for the matching element to contain text, matched case-sensitively.
func (s *Session) WaitText(selector, text string, timeout time.Duration) error {
	err := s.locator(selector).
		Filter(playwright.LocatorFilterOptions{HasText: exactSubstring(text)}).
		WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: playwright.Float(milliseconds(timeout)),
		})
	return waitErr(selector, err)
}

// SwitchToFrame waits for the matching iframe and scopes later lookups to it.
func (s *Session) SwitchToFrame(selector string, timeout time.Duration) error {
	err := s.locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(milliseconds(timeout)),
	})
	if err != nil {
		return waitErr(selector, err)
	}

	s.frame = selector
	return nil
}

// SwitchToDefault scopes lookups back to the top-level document.
func (s *Session) SwitchToDefault() {
	s.frame = ""
}

// exactSubstring matches text anywhere in an element, case included. A plain
// string HasText would match case-insensitively, so "Looking" would pass for "OK".
func exactSubstring(text string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(text))
}

func (s *Session) locator(selector string) playwright.Locator {
	if s.frame != "" {
		return s.Page.FrameLocator(s.frame).Locator(selector)
	}
	return s.Page.Locator(selector)
}

// lookupErr classifies a failed element action. Actions wait for the element
// up to the page default timeout, so a timeout means it never showed up.
func lookupErr(selector string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s: %v", gateway.ErrElementNotFound, selector, err)
	}
	return fmt.Errorf("%s: %w", selector, err)
}

func waitErr(selector string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s: %v", gateway.ErrTimeout, selector, err)
	}
	return fmt.Errorf("%s: %w", selector, err)
}
