package supplier

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// ImageFieldKind tags how the supplier encoded an image field
type ImageFieldKind int

const (
	ImageFieldEmpty ImageFieldKind = iota
	ImageFieldSingle
	ImageFieldList
	ImageFieldUnparseable
)

// ImageField normalizes the supplier's free-form image encodings: a bare
// URL string, a JSON array of URLs, or a JSON array serialized inside a
// string. Unparseable payloads are tagged rather than propagated as
// errors; the caller falls back to the thumbnail it already knows.
type ImageField struct {
	kind ImageFieldKind
	urls []string
}

// Kind returns how the field was encoded
func (f ImageField) Kind() ImageFieldKind {
	return f.kind
}

// URLs returns the decoded URL list in order, without duplicates
func (f ImageField) URLs() []string {
	seen := make(map[string]struct{}, len(f.urls))
	out := make([]string, 0, len(f.urls))
	for _, u := range f.urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error
// for shape mismatches; it tags the field unparseable instead.
func (f *ImageField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == `""` {
		*f = ImageField{kind: ImageFieldEmpty}
		return nil
	}

	// JSON array of URLs
	if data[0] == '[' {
		var urls []string
		if err := json.Unmarshal(data, &urls); err != nil {
			*f = ImageField{kind: ImageFieldUnparseable}
			return nil
		}
		*f = ImageField{kind: ImageFieldList, urls: urls}
		return nil
	}

	// String: either a bare URL or a nested JSON array
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = ImageField{kind: ImageFieldUnparseable}
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = ImageField{kind: ImageFieldEmpty}
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var urls []string
			if err := json.Unmarshal([]byte(s), &urls); err != nil {
				*f = ImageField{kind: ImageFieldUnparseable}
				return nil
			}
			*f = ImageField{kind: ImageFieldList, urls: urls}
			return nil
		}
		*f = ImageField{kind: ImageFieldSingle, urls: []string{s}}
		return nil
	}

	*f = ImageField{kind: ImageFieldUnparseable}
	return nil
}

// NormalizeImages merges the known thumbnail with a decoded image field
// into one ordered, de-duplicated URL list. The thumbnail stays first.
func NormalizeImages(thumbnail string, field ImageField) []string {
	urls := make([]string, 0, 1+len(field.urls))
	if strings.TrimSpace(thumbnail) != "" {
		urls = append(urls, strings.TrimSpace(thumbnail))
	}
	urls = append(urls, field.URLs()...)

	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// imgTagPattern matches embedded marketing image tags in descriptions
var imgTagPattern = regexp.MustCompile(`(?is)<img[^>]*>`)

// StripMarketingImages removes embedded <img> tags from a supplier's
// HTML description
func StripMarketingImages(description string) string {
	return strings.TrimSpace(imgTagPattern.ReplaceAllString(description, ""))
}
