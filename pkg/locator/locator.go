// Package locator extracts NFT identifiers from marketplace asset page URLs.
package locator

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultDomain is the marketplace whose asset pages are recognized.
	DefaultDomain = "opensea.io"

	// AssetMarker is the path segment that precedes chain, contract and token id.
	AssetMarker = "assets"
)

// NftLocator identifies a single NFT. All fields are taken verbatim from the URL.
type NftLocator struct {
	Chain           string `json:"blockchain"`
	ContractAddress string `json:"contract_address"`
	TokenID         string `json:"token_id"`
}

func (l NftLocator) String() string {
	return fmt.Sprintf("%s/%s/%s", l.Chain, l.ContractAddress, l.TokenID)
}

// HostMatch selects how a URL's hostname is compared with the marketplace domain.
type HostMatch string

const (
	// HostMatchContains accepts any hostname containing the domain.
	HostMatchContains HostMatch = "contains"
	// HostMatchDomain accepts the domain itself and its subdomains.
	HostMatchDomain HostMatch = "domain"
	// HostMatchExact accepts only the domain itself.
	HostMatchExact HostMatch = "exact"
)

// ParseHostMatch converts a config value into a HostMatch. Empty means contains.
func ParseHostMatch(s string) (HostMatch, error) {
	switch m := HostMatch(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return HostMatchContains, nil
	case HostMatchContains, HostMatchDomain, HostMatchExact:
		return m, nil
	default:
		return "", fmt.Errorf("invalid host match mode %q: use contains, domain or exact", s)
	}
}

func (m HostMatch) matches(hostname, domain string) bool {
	switch m {
	case HostMatchExact:
		return hostname == domain
	case HostMatchDomain:
		return hostname == domain || strings.HasSuffix(hostname, "."+domain)
	default:
		return strings.Contains(hostname, domain)
	}
}

// Reason tells why a URL did or did not yield a locator.
type Reason int

const (
	Found Reason = iota
	NotParseable
	UnsupportedDomain
	NotAssetPath
)

func (r Reason) String() string {
	switch r {
	case Found:
		return "found"
	case NotParseable:
		return "not_parseable"
	case UnsupportedDomain:
		return "unsupported_domain"
	case NotAssetPath:
		return "not_asset_path"
	default:
		return "unknown"
	}
}

// Outcome is the result of classifying a URL. Locator is zero unless Reason is Found.
type Outcome struct {
	Locator NftLocator
	Reason  Reason
}

// OK reports whether a locator was extracted.
func (o Outcome) OK() bool { return o.Reason == Found }

// Extractor recognizes asset pages of one marketplace domain.
// The zero value matches DefaultDomain by substring.
type Extractor struct {
	Domain string
	Match  HostMatch
}

// Classify extracts a locator from rawURL and reports why extraction failed, if it did.
func (e Extractor) Classify(rawURL string) Outcome {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Outcome{Reason: NotParseable}
	}

	domain := strings.ToLower(e.Domain)
	if domain == "" {
		domain = DefaultDomain
	}
	if !e.Match.matches(strings.ToLower(u.Hostname()), domain) {
		return Outcome{Reason: UnsupportedDomain}
	}

	segments := strings.Split(u.EscapedPath(), "/")
	for i, seg := range segments {
		if seg != AssetMarker {
			continue
		}
		// only the first marker counts
		rest := segments[i+1:]
		if len(rest) < 3 || rest[0] == "" || rest[1] == "" || rest[2] == "" {
			return Outcome{Reason: NotAssetPath}
		}
		return Outcome{
			Locator: NftLocator{Chain: rest[0], ContractAddress: rest[1], TokenID: rest[2]},
			Reason:  Found,
		}
	}
	return Outcome{Reason: NotAssetPath}
}

// Extract returns the locator for rawURL, or false when rawURL is not an asset page.
func (e Extractor) Extract(rawURL string) (NftLocator, bool) {
	o := e.Classify(rawURL)
	return o.Locator, o.OK()
}

// Extract uses the default extractor.
func Extract(rawURL string) (NftLocator, bool) {
	return Extractor{}.Extract(rawURL)
}
