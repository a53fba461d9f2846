package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"tag-engine/internal/codec"
	"tag-engine/internal/token"

	"gopkg.in/yaml.v3"
)

// tokenView is the printed form of an annotated token.
type tokenView struct {
	Kind    string `json:"kind" yaml:"kind"`
	Content string `json:"content" yaml:"content"`
	TagType string `json:"tag_type,omitempty" yaml:"tag_type,omitempty"`
	Partner *int   `json:"partner,omitempty" yaml:"partner,omitempty"`
	Glyph   string `json:"glyph,omitempty" yaml:"glyph,omitempty"`
	State   string `json:"state,omitempty" yaml:"state,omitempty"`
}

// viewOf renders a sequence already passed through codec.Annotate or
// validator.Annotate.
func viewOf(annotated token.Sequence) []tokenView {
	out := make([]tokenView, len(annotated))
	markerIndex := 0
	for i, t := range annotated {
		v := tokenView{Kind: t.Kind.String(), Content: t.Content}
		if t.IsMarker() {
			md := t.Meta()
			v.TagType = md.TagType.String()
			if md.HasPartner {
				partner := md.Partner
				v.Partner = &partner
			}
			v.Glyph = codec.DisplayGlyph(t.Content, markerIndex)
			v.State = md.Validation.String()
			markerIndex++
		}
		out[i] = v
	}
	return out
}

// write encodes v in the selected format.
func write(w io.Writer, format string, v any) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
