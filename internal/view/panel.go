// Package view projects backend snapshots into the view models rendered by
// the web pages and returned by the JSON view API.
package view

import (
	"errors"
	"fmt"

	"github.com/erazemk/pixelpet/internal/backend"
)

// Status is the state of one read subscription.
type Status string

// Panel statuses.
const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
)

// Panel is the shared header of every data panel.
type Panel struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Pending reports whether the panel is still loading.
func (p Panel) Pending() bool { return p.Status == StatusPending }

// Ready reports whether the panel has data.
func (p Panel) Ready() bool { return p.Status == StatusReady }

// Empty reports whether the subscription returned nothing to show.
func (p Panel) Empty() bool { return p.Status == StatusEmpty }

// Failed reports whether the subscription failed.
func (p Panel) Failed() bool { return p.Status == StatusFailed }

func failedPanel(what string, err error) Panel {
	return Panel{Status: StatusFailed, Error: failureText(what, err)}
}

// failureText turns a read error into a short user-facing message.
func failureText(what string, err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Sprintf("Could not load %s: %s", what, apiErr.Message)
		}
		return fmt.Sprintf("Could not load %s (status %d)", what, apiErr.StatusCode)
	}
	return fmt.Sprintf("Could not load %s", what)
}
