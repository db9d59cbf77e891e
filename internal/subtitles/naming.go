package subtitles

import (
	"fmt"
	"regexp"
	"strings"
)

var nonFilenameCharsRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Sanitize reduces a track label (language tag or title) to a safe
// filename stem.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = nonFilenameCharsRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// TrackName picks a deterministic base name (no extension) for one
// subtitle stream, following the fallback chain: ISO-639-1 code (when
// translation is enabled and the language maps to one) / sanitized
// language / sanitized title / subtitle_<index>.
func TrackName(language, title string, absoluteStreamIndex int, translationEnabled bool) string {
	if translationEnabled {
		if iso, ok := NormalizeISO639(language); ok {
			return iso
		}
	}
	if s := Sanitize(language); s != "" {
		return s
	}
	if s := Sanitize(title); s != "" {
		return s
	}
	return fmt.Sprintf("subtitle_%d", absoluteStreamIndex)
}

// DisambiguateNames appends _<n> (n starting at 1) to every name beyond
// the first occurrence of a duplicate.
func DisambiguateNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		seen[n]++
		if seen[n] == 1 {
			out[i] = n
		} else {
			out[i] = fmt.Sprintf("%s_%d", n, seen[n]-1)
		}
	}
	return out
}

// iso6392to1 is the subset of ISO-639-2 -> ISO-639-1 mappings needed for
// the languages this pipeline commonly encounters; extend as new source
// languages appear in practice.
var iso6392to1 = map[string]string{
	"eng": "en",
	"fre": "fr", "fra": "fr",
	"ger": "de", "deu": "de",
	"spa": "es",
	"ita": "it",
	"por": "pt",
	"rus": "ru",
	"jpn": "ja",
	"kor": "ko",
	"chi": "zh", "zho": "zh",
	"cze": "cs", "ces": "cs",
	"pol": "pl",
	"dut": "nl", "nld": "nl",
}

// NormalizeISO639 maps a 2- or 3-letter language tag to its ISO-639-1
// code. A tag already in 639-1 form is returned unchanged.
func NormalizeISO639(tag string) (string, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return "", false
	}
	if len(tag) == 2 {
		return tag, true
	}
	if code, ok := iso6392to1[tag]; ok {
		return code, true
	}
	return "", false
}
