// Package i18n defines the languages the site supports.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	hebrew  = language.MustParse("he-IL")
	english = language.MustParse("en-US")

	supported = []language.Tag{hebrew, english}
	matcher   = language.NewMatcher(supported)
)

// DefaultTag is the language used when a request expresses no usable
// preference.
func DefaultTag() language.Tag {
	return hebrew
}

// SupportedTags returns the supported tags, default first.
func SupportedTags() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// ParseTag parses value and reports whether it names a supported language.
// Regional variants map to the supported tag of the same base language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	base, _ := tag.Base()
	for _, candidate := range supported {
		if candidateBase, _ := candidate.Base(); candidateBase == base {
			return candidate, true
		}
	}
	return DefaultTag(), false
}

// MatchTags picks the best supported tag for an ordered preference list.
func MatchTags(preferred []language.Tag) language.Tag {
	if len(preferred) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(preferred...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[index]
}

// IsRTL reports whether tag is written right to left.
func IsRTL(tag language.Tag) bool {
	base, _ := tag.Base()
	switch base.String() {
	case "he", "ar", "fa", "ur", "yi":
		return true
	default:
		return false
	}
}
