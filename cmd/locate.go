package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/nftlens/cli/internal/host"
	"github.com/nftlens/cli/pkg/locator"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const navigateMessage = "Please navigate to an OpenSea NFT page to extract NFT details."

// NavigationError is returned when no NFT could be extracted from the current page.
// Every reason shows the user the same message.
type NavigationError struct {
	URL    string
	Reason locator.Reason
	Err    error
}

func (e *NavigationError) Error() string { return navigateMessage }

func (e *NavigationError) Unwrap() error { return e.Err }

// locate reads the tab URL and extracts the NFT from it.
func locate(ctx context.Context, tabs host.TabSource, ex locator.Extractor, log zerolog.Logger) (string, locator.Outcome, error) {
	url, err := tabs.ActiveTabURL(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("no tab URL available")
		if errors.Is(err, host.ErrNoActiveTab) {
			return "", locator.Outcome{Reason: locator.NotParseable}, &NavigationError{Reason: locator.NotParseable, Err: err}
		}
		return "", locator.Outcome{}, err
	}
	out := ex.Classify(url)
	log.Debug().Str("url", url).Str("reason", out.Reason.String()).Msg("classified tab URL")
	if !out.OK() {
		return url, out, &NavigationError{URL: url, Reason: out.Reason}
	}
	return url, out, nil
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
	cardTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	cardLabel = lipgloss.NewStyle().Bold(true)
)

// renderLocatorCard renders the NFT details card.
func renderLocatorCard(loc locator.NftLocator) string {
	rows := [][2]string{
		{"Blockchain", loc.Chain},
		{"Contract Address", loc.ContractAddress},
		{"Token ID", loc.TokenID},
	}
	lines := []string{cardTitle.Render("NFT Details"), ""}
	for _, r := range rows {
		lines = append(lines, cardLabel.Render(fmt.Sprintf("%-17s", r[0]))+" "+r[1])
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// fanOut runs tasks concurrently and waits for all of them. The first error
// cancels the context handed to the others and is returned.
func fanOut(ctx context.Context, tasks ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error { return task(gctx) })
	}
	return g.Wait()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
