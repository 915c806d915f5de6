// Package output writes generated entries and replay outcomes.
package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/curlgen/internal/jsonx"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("output: unknown format")

// Format is an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json" and "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Write encodes entries to w in the given format.
func Write(w io.Writer, format Format, entries []*jsonx.Object) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, entries)
	case FormatCSV:
		return WriteCSV(w, entries)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteJSON writes v as two-space indented JSON followed by a newline.
// Nil entry lists are written as [].
func WriteJSON(w io.Writer, v any) error {
	if entries, ok := v.([]*jsonx.Object); ok && entries == nil {
		v = []*jsonx.Object{}
	}
	data, err := jsonx.MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteCSV writes one header row built from the keys of the first entry
// followed by one row per entry. Containers are written as JSON; keys
// missing from an entry leave the cell empty.
func WriteCSV(w io.Writer, entries []*jsonx.Object) error {
	if len(entries) == 0 {
		return nil
	}

	header := entries[0].Keys()
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	row := make([]string, len(header))
	for i, e := range entries {
		for j, key := range header {
			v, _ := e.Get(key)
			row[j] = jsonx.Stringify(v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
