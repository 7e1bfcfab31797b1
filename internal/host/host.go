// Package host models the capabilities the surrounding environment provides:
// looking up the active browser tab and a small key-value store for secrets.
package host

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by a KeyValueStore when the key has no value.
	ErrNotFound = errors.New("key not found")

	// ErrNoActiveTab is returned by a TabSource when no page tab is open.
	ErrNoActiveTab = errors.New("no active browser tab")

	// ErrNoDevToolsEndpoint is returned by a DevToolsTab that has no endpoint to connect to.
	ErrNoDevToolsEndpoint = errors.New("no DevTools endpoint found (start Chrome with --remote-debugging-port or pass --cdp-url)")
)

// TabSource reports the URL of the tab the user is looking at.
type TabSource interface {
	ActiveTabURL(ctx context.Context) (string, error)
}

// KeyValueStore persists small string values.
type KeyValueStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// StaticTab is a TabSource for a URL known up front, e.g. passed on the command line.
type StaticTab string

func (s StaticTab) ActiveTabURL(ctx context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoActiveTab
	}
	return string(s), nil
}
