package ingest

import "strings"

// DecoderID identifies the decoder a content type resolves to.
type DecoderID int

const (
	// DecoderNone means no decoder can handle the content type. The only way
	// to get here is multipart/form-data without a boundary parameter.
	DecoderNone DecoderID = iota
	DecoderJSON
	DecoderForm
	DecoderText
	DecoderRaw
	DecoderMultipart
)

// String returns the label used in logs and metrics.
func (d DecoderID) String() string {
	switch d {
	case DecoderJSON:
		return "json"
	case DecoderForm:
		return "form"
	case DecoderText:
		return "text"
	case DecoderRaw:
		return "raw"
	case DecoderMultipart:
		return "multipart"
	default:
		return "none"
	}
}

// Selection is the outcome of resolving a Content-Type header value.
// Boundary is set only when Decoder is DecoderMultipart.
type Selection struct {
	Decoder  DecoderID
	Boundary string
}

type matchKind int

const (
	matchExact matchKind = iota
	matchPrefix
	matchMultipart
)

type mediaTypeRule struct {
	kind    matchKind
	pattern string
	decoder DecoderID
}

// The rule table is fixed at process start and never mutated; there is no
// runtime decoder registration.
var mediaTypeRules = []mediaTypeRule{
	{matchExact, "application/json", DecoderJSON},
	{matchExact, "application/x-www-form-urlencoded", DecoderForm},
	{matchPrefix, "text/", DecoderText},
	{matchMultipart, "multipart/form-data", DecoderMultipart},
}

// Resolve maps a raw Content-Type header value to a decoder. It is pure and
// total: an unrecognized type falls back to the raw-bytes decoder rather than
// failing. Exact rules match against the base media type with any ;-delimited
// parameters stripped; prefix and multipart rules match against the original,
// untrimmed value so that e.g. "text/plain; charset=utf-8" still routes to
// the text decoder.
func Resolve(contentType string) Selection {
	base := contentType
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		base = strings.TrimSpace(contentType[:i])
	}

	for _, rule := range mediaTypeRules {
		switch rule.kind {
		case matchExact:
			if base == rule.pattern {
				return Selection{Decoder: rule.decoder}
			}
		case matchPrefix:
			if strings.HasPrefix(contentType, rule.pattern) {
				return Selection{Decoder: rule.decoder}
			}
		case matchMultipart:
			if strings.HasPrefix(contentType, rule.pattern) {
				boundary, ok := extractBoundary(contentType)
				if !ok {
					// Multipart without a boundary cannot be parsed and must
					// not degrade to the raw fallback.
					return Selection{Decoder: DecoderNone}
				}
				return Selection{Decoder: DecoderMultipart, Boundary: boundary}
			}
		}
	}

	return Selection{Decoder: DecoderRaw}
}

// extractBoundary pulls the boundary parameter out of a multipart content
// type. Every quote character is removed, not just a surrounding pair, then
// the value is cut at the first ';': a boundary cannot itself contain ';'
// (RFC 2046), so one marks trailing parameters to discard.
func extractBoundary(contentType string) (string, bool) {
	const marker = "boundary="

	i := strings.Index(contentType, marker)
	if i < 0 {
		return "", false
	}

	boundary := contentType[i+len(marker):]
	boundary = strings.ReplaceAll(boundary, `"`, "")
	if j := strings.IndexByte(boundary, ';'); j >= 0 {
		boundary = boundary[:j]
	}

	return boundary, true
}
