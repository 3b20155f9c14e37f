// Package ui holds the thin presentation capabilities the core depends on:
// navigation between views and user-facing alerts. Both are interfaces so
// tests can record what the core would have shown.
package ui

import (
	"fmt"
	"io"
)

// Route identifiers the Authenticator navigates to after a successful login.
// The values mirror the web client's hash routes.
const (
	RouteBills     = "#employee/bills"
	RouteDashboard = "#admin/dashboard"
)

// Navigator dispatches a navigation to the view identified by path.
type Navigator interface {
	OnNavigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) OnNavigate(path string) { f(path) }

// Alerter surfaces a single blocking message to the user. The message text is
// part of the application contract and must be shown verbatim.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(message string)

func (f AlerterFunc) Alert(message string) { f(message) }

// ConsoleAlerter writes alerts to a writer, one per line. The CLI points it
// at stderr.
type ConsoleAlerter struct {
	W io.Writer
}

func (c ConsoleAlerter) Alert(message string) {
	fmt.Fprintln(c.W, message)
}
