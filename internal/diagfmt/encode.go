package diagfmt

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Encode writes v as indented JSON or YAML. FormatPretty falls back to JSON.
func Encode(w io.Writer, v any, f Format) error {
	if f == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
