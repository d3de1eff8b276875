package sukebei

import (
	"net/url"
	"strconv"
	"strings"
)

// Resolutions appended to the search query. Anything else is ignored.
var qualities = map[int]struct{}{
	2160: {},
	1080: {},
	720:  {},
	540:  {},
	480:  {},
}

// BuildQuery produces the encoded value of the q parameter. Only the first
// title is used; additional titles are ignored.
func BuildQuery(titles []string, resolution string, exclusions []string) string {
	var b strings.Builder
	if len(titles) > 0 {
		b.WriteString(titles[0])
	}

	if res, ok := parseResolution(resolution); ok {
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(res))
		b.WriteString("p")
	}

	for _, term := range exclusions {
		b.WriteString(" -")
		b.WriteString(term)
	}

	return encodeQueryComponent(b.String())
}

func parseResolution(raw string) (int, bool) {
	raw = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "p")
	if raw == "" {
		return 0, false
	}
	res, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	_, ok := qualities[res]
	return res, ok
}

// encodeQueryComponent escapes like encodeURIComponent: spaces become %20.
func encodeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
