// Package gatewaytest provides in-memory gateway consoles for tests.
//
// Page is a scripted stand-in for a browser page: a set of elements per
// frame, an action log, and per-selector failure injection. Router and
// Extension build on it to simulate the two vendor UIs closely enough for
// the controllers to run unmodified.
package gatewaytest

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/wifitoggle/pkg/gateway"
)

// Element is one node of a fake page.
type Element struct {
	Visible bool
	Checked bool
	Text    string
	Value   string
	Attrs   map[string]string

	// OnClick runs when the element is clicked.
	OnClick func()

	// OnRead, if set, is consulted by Attribute instead of Attrs.
	OnRead func(name string) string
}

// Page is an in-memory gateway.Page. The zero frame "" is the top-level document.
type Page struct {
	URL string

	// Actions records every mutating call, e.g. "click #submit".
	Actions []string

	// Waits records every bounded wait, e.g. "text #status OK".
	Waits []string

	frames map[string]map[string]*Element
	frame  string
	fail   map[string]error
}

var _ gateway.Page = (*Page)(nil)

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{
		frames: map[string]map[string]*Element{"": {}},
		fail:   map[string]error{},
	}
}

// Set places el at selector inside frame.
func (p *Page) Set(frame, selector string, el *Element) *Element {
	if p.frames[frame] == nil {
		p.frames[frame] = map[string]*Element{}
	}
	if el.Attrs == nil {
		el.Attrs = map[string]string{}
	}
	p.frames[frame][selector] = el
	return el
}

// Element returns the element at selector inside frame, or nil.
func (p *Page) Element(frame, selector string) *Element {
	return p.frames[frame][selector]
}

// Fail makes every operation on selector return err.
func (p *Page) Fail(selector string, err error) {
	p.fail[selector] = err
}

// Frame returns the frame lookups currently go to; "" is the baseline.
func (p *Page) Frame() string {
	return p.frame
}

// Clicks returns the selectors clicked so far, in order.
func (p *Page) Clicks() []string {
	var out []string
	for _, a := range p.Actions {
		if sel, ok := strings.CutPrefix(a, "click "); ok {
			out = append(out, sel)
		}
	}
	return out
}

func (p *Page) lookup(selector string) (*Element, error) {
	if err := p.fail[selector]; err != nil {
		return nil, err
	}
	el := p.frames[p.frame][selector]
	if el == nil {
		return nil, fmt.Errorf("%w: %s", gateway.ErrElementNotFound, selector)
	}
	return el, nil
}

func (p *Page) Goto(url string) error {
	p.Actions = append(p.Actions, "goto "+url)
	p.URL = url
	p.frame = ""
	return nil
}

func (p *Page) Fill(selector, value string) error {
	el, err := p.lookup(selector)
	if err != nil {
		return err
	}
	p.Actions = append(p.Actions, "fill "+selector)
	el.Value = value
	return nil
}

func (p *Page) Click(selector string) error {
	el, err := p.lookup(selector)
	if err != nil {
		return err
	}
	p.Actions = append(p.Actions, "click "+selector)
	if el.OnClick != nil {
		el.OnClick()
	}
	return nil
}

func (p *Page) IsChecked(selector string) (bool, error) {
	el, err := p.lookup(selector)
	if err != nil {
		return false, err
	}
	return el.Checked, nil
}

func (p *Page) Attribute(selector, name string) (string, error) {
	el, err := p.lookup(selector)
	if err != nil {
		return "", err
	}
	if el.OnRead != nil {
		return el.OnRead(name), nil
	}
	return el.Attrs[name], nil
}

func (p *Page) WaitVisible(selector string, timeout time.Duration) error {
	p.Waits = append(p.Waits, "visible "+selector)
	el, err := p.lookup(selector)
	if err != nil {
		return fmt.Errorf("%w: %s", gateway.ErrTimeout, err)
	}
	if !el.Visible {
		return fmt.Errorf("%w: %s not visible after %s", gateway.ErrTimeout, selector, timeout)
	}
	return nil
}

// WaitText matches case-sensitively, like the browser session.
func (p *Page) WaitText(selector, text string, timeout time.Duration) error {
	p.Waits = append(p.Waits, "text "+selector+" "+text)
	el, err := p.lookup(selector)
	if err != nil {
		return fmt.Errorf("%w: %s", gateway.ErrTimeout, err)
	}
	if !strings.Contains(el.Text, text) {
		return fmt.Errorf("%w: %s has %q, want %q after %s", gateway.ErrTimeout, selector, el.Text, text, timeout)
	}
	return nil
}

func (p *Page) SwitchToFrame(selector string, timeout time.Duration) error {
	p.Waits = append(p.Waits, "frame "+selector)
	if _, err := p.lookup(selector); err != nil {
		return fmt.Errorf("%w: %s", gateway.ErrTimeout, err)
	}
	if _, ok := p.frames[selector]; !ok {
		return fmt.Errorf("%w: frame %s not available after %s", gateway.ErrTimeout, selector, timeout)
	}
	p.frame = selector
	return nil
}

func (p *Page) SwitchToDefault() {
	p.frame = ""
}
