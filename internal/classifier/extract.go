package classifier

import (
	"regexp"
	"strings"
)

// ExtractTagContent returns the trimmed content of the first
// <tag>...</tag> pair in the text. The match spans line breaks. The
// second return value is false when the tag pair is absent.
func ExtractTagContent(text, tag string) (string, bool) {
	re, err := regexp.Compile(`(?s)<` + regexp.QuoteMeta(tag) + `>(.*?)</` + regexp.QuoteMeta(tag) + `>`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
