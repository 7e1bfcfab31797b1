package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// RawJSONProvider is implemented by analytics response types that keep the API body.
type RawJSONProvider interface {
	RawJSON() string
}

// RawJSON adapts a plain JSON string to RawJSONProvider.
type RawJSON string

func (r RawJSON) RawJSON() string { return string(r) }

// PrintPrettyJSON prints the raw JSON of an API response with indentation.
// It uses the RawJSON() method to get the original API response, avoiding
// zero-value fields that would appear when re-marshaling the Go struct.
func PrintPrettyJSON(v RawJSONProvider) error {
	return WritePrettyJSON(os.Stdout, v)
}

// WritePrettyJSON is PrintPrettyJSON writing to w.
func WritePrettyJSON(w io.Writer, v RawJSONProvider) error {
	raw := ""
	if v != nil {
		raw = v.RawJSON()
	}
	if raw == "" {
		_, err := fmt.Fprintln(w, "{}")
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, buf.String())
	return err
}

// JSONSection is one named member of a combined JSON document.
type JSONSection struct {
	Name  string
	Value RawJSONProvider
}

// PrintPrettyJSONSections prints several API responses as one JSON object,
// keyed by section name in the given order. Sections without a body print as null.
func PrintPrettyJSONSections(sections ...JSONSection) error {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, s := range sections {
		if i > 0 {
			buf.WriteString(",")
		}
		name, err := json.Marshal(s.Name)
		if err != nil {
			return err
		}
		buf.Write(name)
		buf.WriteString(":")
		raw := ""
		if s.Value != nil {
			raw = s.Value.RawJSON()
		}
		if raw == "" {
			raw = "null"
		}
		buf.WriteString(raw)
	}
	buf.WriteString("}")
	return PrintPrettyJSON(RawJSON(buf.String()))
}
