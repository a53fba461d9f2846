package token

import (
	"fmt"
	"strings"
)

// Kind identifies what a token represents inside a segment.
type Kind uint8

const (
	// KindText is translatable plain text.
	KindText Kind = iota
	// KindMarker is an inline tag, placeholder or printf substitution.
	KindMarker
	// KindLocked is text that must not be edited.
	KindLocked
	// KindWhitespace is significant whitespace.
	KindWhitespace
)

var kindNames = [...]string{
	KindText:       "text",
	KindMarker:     "marker",
	KindLocked:     "locked",
	KindWhitespace: "whitespace",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown token kind %d", k)
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown token kind %q", string(b))
}

// TagType classifies a marker by the shape of its raw content.
type TagType uint8

const (
	// TagNone is the tag type of non-marker tokens.
	TagNone TagType = iota
	// TagStandalone markers never have a partner.
	TagStandalone
	// TagPairedStart is an opening tag such as <bold>.
	TagPairedStart
	// TagPairedEnd is a closing tag such as </bold>.
	TagPairedEnd
)

func (t TagType) String() string {
	switch t {
	case TagStandalone:
		return "standalone"
	case TagPairedStart:
		return "paired-start"
	case TagPairedEnd:
		return "paired-end"
	default:
		return "none"
	}
}

// Validation is a UI hint attached by the validator.
type Validation uint8

const (
	ValidationUnset Validation = iota
	ValidationValid
	ValidationWarning
	ValidationError
)

func (v Validation) String() string {
	switch v {
	case ValidationValid:
		return "valid"
	case ValidationWarning:
		return "warning"
	case ValidationError:
		return "error"
	default:
		return ""
	}
}

// Metadata carries derived information about a token. Only ID is persisted;
// the rest is rebuilt from content and position.
type Metadata struct {
	ID         string     `json:"id,omitempty" yaml:"id,omitempty"`
	TagType    TagType    `json:"-" yaml:"-"`
	Partner    int        `json:"-" yaml:"-"`
	HasPartner bool       `json:"-" yaml:"-"`
	Validation Validation `json:"-" yaml:"-"`
}

// Token is the atomic unit of a segment's text.
type Token struct {
	Kind     Kind      `json:"kind" yaml:"kind"`
	Content  string    `json:"content" yaml:"content"`
	Metadata *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewText returns a text token.
func NewText(content string) Token {
	return Token{Kind: KindText, Content: content}
}

// NewMarker returns a marker token with its tag type classified once.
func NewMarker(content string) Token {
	return Token{
		Kind:    KindMarker,
		Content: content,
		Metadata: &Metadata{
			ID:      content,
			TagType: Classify(content),
		},
	}
}

// IsMarker reports whether t is a marker token.
func (t Token) IsMarker() bool { return t.Kind == KindMarker }

// ID returns the stable identifier of t, defaulting to its content.
func (t Token) ID() string {
	if t.Metadata != nil && t.Metadata.ID != "" {
		return t.Metadata.ID
	}
	return t.Content
}

// TagType returns the cached classification, deriving it when the token
// was built without metadata.
func (t Token) TagType() TagType {
	if t.Kind != KindMarker {
		return TagNone
	}
	if t.Metadata != nil && t.Metadata.TagType != TagNone {
		return t.Metadata.TagType
	}
	return Classify(t.Content)
}

// WithMetadata returns a copy of t carrying md.
func (t Token) WithMetadata(md Metadata) Token {
	t.Metadata = &md
	return t
}

// Meta returns a copy of t's metadata, filled with defaults when absent.
func (t Token) Meta() Metadata {
	if t.Metadata != nil {
		return *t.Metadata
	}
	return Metadata{ID: t.Content, TagType: t.TagType()}
}

// Classify derives the tag type from raw marker content: <name> opens,
// </name> closes and anything else stands alone.
func Classify(content string) TagType {
	if _, ok := openName(content); ok {
		return TagPairedStart
	}
	if _, ok := closeName(content); ok {
		return TagPairedEnd
	}
	return TagStandalone
}

// TagName returns the name of a paired tag, or "" for standalone content.
func TagName(content string) string {
	if name, ok := openName(content); ok {
		return name
	}
	if name, ok := closeName(content); ok {
		return name
	}
	return ""
}

// openName matches ^<([^/>]+)>$.
func openName(s string) (string, bool) {
	if len(s) < 3 || s[0] != '<' || s[len(s)-1] != '>' {
		return "", false
	}
	inner := s[1 : len(s)-1]
	if strings.ContainsAny(inner, "/>") {
		return "", false
	}
	return inner, true
}

// closeName matches ^</([^>]+)>$.
func closeName(s string) (string, bool) {
	if len(s) < 4 || !strings.HasPrefix(s, "</") || s[len(s)-1] != '>' {
		return "", false
	}
	inner := s[2 : len(s)-1]
	if strings.Contains(inner, ">") {
		return "", false
	}
	return inner, true
}
