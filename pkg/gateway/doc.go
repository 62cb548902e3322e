// Package gateway drives the web administration consoles of the two wifi
// gateways, the primary router and the secondary extension.
//
// Neither device exposes a management API, so every operation is a scripted
// walk through the vendor UI. The package is built around three concepts:
//
//  1. Locators: the named element selectors of one vendor UI (RouterLocators,
//     ExtensionLocators). Pure configuration.
//  2. Page: the minimal browser surface a controller needs. It is always
//     passed in explicitly; controllers never hold a live session.
//  3. Controller: Login, ReadState and SetState for one gateway type.
//
// # Contracts
//
// ReadState never mutates the device and always returns the page to its
// top-level document, so calls compose.
//
// SetState reads first and does nothing when the radio is already in the
// desired state. Enabling waits for the vendor's confirmation signal within
// a bound. Disabling never waits: turning off the active radio can cut the
// very connection the confirmation would arrive on.
//
// # Vendor quirks
//
// The extension's settings frame first renders the wifi toggle in the wrong
// state and then refreshes. Reads of that toggle go through a Settler, which
// waits a minimum delay and then polls until two consecutive reads agree.
package gateway
