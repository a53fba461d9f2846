// Package signature derives lookup keys from token sequences for the
// persistence and matching layer.
package signature

import (
	"strings"

	"tag-engine/internal/textutil"
	"tag-engine/internal/token"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// TagPlaceholder stands in for every marker in a match key.
const TagPlaceholder = "{TAG}"

// HashSeparator joins the match key and marker signature in SourceHash.
const HashSeparator = ":::"

// MarkerSignature joins the content of every marker with "|".
func MarkerSignature(seq token.Sequence) string {
	return strings.Join(seq.MarkerContents(), "|")
}

// MatchKey builds a case-insensitive key: text is normalized, lower-cased
// and trimmed, markers become {TAG}, and whitespace runs collapse to one
// space.
func MatchKey(seq token.Sequence) string {
	lower := cases.Lower(language.Und)
	parts := make([]string, 0, len(seq))
	for _, t := range seq {
		if t.IsMarker() {
			parts = append(parts, TagPlaceholder)
			continue
		}
		parts = append(parts, strings.TrimSpace(lower.String(norm.NFC.String(t.Content))))
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// SourceHash is the readable exact-match key of a source. It is not a
// cryptographic hash; see Digest for a fixed-length form.
func SourceHash(matchKey, markerSignature string) string {
	return matchKey + HashSeparator + markerSignature
}

// Digest returns the SHA-256 hex digest of a source hash, used as a
// fixed-length index column.
func Digest(sourceHash string) string {
	return textutil.Hash(sourceHash)
}

// Keys bundles every key derived from one source sequence.
type Keys struct {
	MarkerSignature string `json:"marker_signature" yaml:"marker_signature"`
	MatchKey        string `json:"match_key" yaml:"match_key"`
	SourceHash      string `json:"source_hash" yaml:"source_hash"`
	Digest          string `json:"digest" yaml:"digest"`
}

// Of computes all keys for seq.
func Of(seq token.Sequence) Keys {
	k := Keys{
		MarkerSignature: MarkerSignature(seq),
		MatchKey:        MatchKey(seq),
	}
	k.SourceHash = SourceHash(k.MatchKey, k.MarkerSignature)
	k.Digest = Digest(k.SourceHash)
	return k
}
