package util

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/nftlens/cli/pkg/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", OrDash(""))
	assert.Equal(t, "-", OrDash("  "))
	assert.Equal(t, "x", OrDash("x"))
	assert.Equal(t, "b", FirstOrDash("", "b", "c"))
	assert.Equal(t, "-", FirstOrDash("", ""))
	assert.Equal(t, "a, b", JoinOrDash("a", "b"))
	assert.Equal(t, "-", JoinOrDash())
}

func TestFormatNumbers(t *testing.T) {
	valid := func(v float64) analytics.Number { return analytics.Number{Value: v, Valid: true} }

	assert.Equal(t, "1,234,567.89", FormatFloat(1234567.891, 2))
	assert.Equal(t, "42", FormatNumber(valid(42), 0))
	assert.Equal(t, "-", FormatNumber(analytics.Number{}, 2))
	assert.Equal(t, "$1,500.00", FormatUSD(valid(1500)))
	assert.Equal(t, "-$3.50", FormatUSD(valid(-3.5)))
	assert.Equal(t, "-", FormatUSD(analytics.Number{}))
	assert.Equal(t, "+12.50%", FormatChange(valid(0.125)))
	assert.Equal(t, "-4.00%", FormatChange(valid(-0.04)))
	assert.Equal(t, "0.00%", FormatChange(valid(0)))
	assert.Equal(t, "-", FormatChange(analytics.Number{}))
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0xb47e...3bbb", ShortAddress("0xb47e3cd837ddf8e4c57f05d70ab865de6e193bbb"))
	assert.Equal(t, "0xabc", ShortAddress("0xabc"))
	assert.Equal(t, "-", ShortAddress(""))
}

func TestCleanedUpSdkError(t *testing.T) {
	unauthorized := &analytics.Error{StatusCode: 401, Method: "GET", URL: "https://api.test/x", Message: "Invalid API key", Body: `{"message":"Invalid API key"}`}
	err := CleanedUpSdkError{Err: fmt.Errorf("wrapped: %w", unauthorized)}
	assert.Equal(t, "Invalid API key (check your API key with 'nftlens apikey get')", err.Error())
	assert.ErrorIs(t, err, unauthorized)

	notFound := CleanedUpSdkError{Err: &analytics.Error{StatusCode: 404}}
	assert.Contains(t, notFound.Error(), "status 404")
	assert.True(t, analytics.IsNotFound(notFound))

	plain := CleanedUpSdkError{Err: errors.New("boom")}
	assert.Equal(t, "boom", plain.Error())
	assert.False(t, analytics.IsNotFound(plain))
}

func TestWritePrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrettyJSON(&buf, RawJSON(`{"a":1}`)))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, WritePrettyJSON(&buf, RawJSON("")))
	assert.Equal(t, "{}\n", buf.String())

	assert.Error(t, WritePrettyJSON(&buf, RawJSON("{")))
}
