package host

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

const defaultDevToolsTimeout = 10 * time.Second

// TargetLister returns the targets of a browser. It exists so tests can
// replace the DevTools connection.
type TargetLister func(ctx context.Context, endpoint string) ([]*target.Info, error)

// DevToolsTab reads the active tab from a Chrome instance started with
// --remote-debugging-port, using the DevTools protocol.
type DevToolsTab struct {
	// Endpoint is the browser websocket URL (ws://host:port/devtools/browser/<id>)
	// or the http://host:port debugging address.
	Endpoint string
	Timeout  time.Duration

	list TargetLister
}

// NewDevToolsTab returns a DevToolsTab for endpoint.
func NewDevToolsTab(endpoint string) *DevToolsTab {
	return &DevToolsTab{Endpoint: endpoint, Timeout: defaultDevToolsTimeout, list: listTargets}
}

// ActiveTabURL returns the URL of the first page target. Chrome lists the most
// recently focused page first.
func (d *DevToolsTab) ActiveTabURL(ctx context.Context) (string, error) {
	if strings.TrimSpace(d.Endpoint) == "" {
		return "", ErrNoDevToolsEndpoint
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultDevToolsTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	list := d.list
	if list == nil {
		list = listTargets
	}
	targets, err := list(ctx, d.Endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to list browser tabs: %w", err)
	}

	for _, t := range targets {
		if t == nil || t.Type != "page" {
			continue
		}
		if strings.HasPrefix(t.URL, "devtools://") || strings.HasPrefix(t.URL, "chrome-extension://") {
			continue
		}
		return t.URL, nil
	}
	return "", ErrNoActiveTab
}

func listTargets(ctx context.Context, endpoint string) ([]*target.Info, error) {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, endpoint)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	return chromedp.Targets(browserCtx)
}
