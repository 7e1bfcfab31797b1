package util

import (
	"errors"
	"fmt"

	"github.com/nftlens/cli/pkg/analytics"
)

// CleanedUpSdkError hides the raw response body of analytics API errors
// and keeps only what a user can act on.
type CleanedUpSdkError struct {
	Err error
}

func (e CleanedUpSdkError) Error() string {
	var apiErr *analytics.Error
	if !errors.As(e.Err, &apiErr) {
		return e.Err.Error()
	}
	msg := apiErr.Message
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", apiErr.StatusCode)
	}
	switch {
	case analytics.IsUnauthorized(apiErr):
		return fmt.Sprintf("%s (check your API key with 'nftlens apikey get')", msg)
	case analytics.IsNotFound(apiErr):
		return fmt.Sprintf("%s (no analytics available for this NFT)", msg)
	}
	return msg
}

func (e CleanedUpSdkError) Unwrap() error {
	return e.Err
}
