// Package output renders analysis results for the terminal or for
// machine consumption.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects the rendering style.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, or yaml)", s)
	}
}

// Render writes v to w in the chosen format. Text rendering requires the
// value to implement TextRenderer; json and yaml work for anything.
func Render(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	case FormatText:
		if tr, ok := v.(TextRenderer); ok {
			return tr.RenderText(w)
		}
		return fmt.Errorf("no text rendering for %T, use --format json", v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// TextRenderer is implemented by result types that have a human layout.
type TextRenderer interface {
	RenderText(w io.Writer) error
}
