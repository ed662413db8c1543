package pool

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// WriteReport encodes the value as indented JSON without HTML escaping and
// writes it to w, followed by a newline.
func WriteReport(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("json encode report: %w", err)
	}
	return nil
}
