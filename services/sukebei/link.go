package sukebei

import (
	"net/url"
	"regexp"
	"strings"
)

var reInfoHash = regexp.MustCompile(`(?i)btih:([^&]+)`)

// SelectLink picks the download link for a row from the hrefs of its link
// cell. A magnet link always wins; otherwise the first .torrent link is
// resolved against baseURL. ok is false when neither is present.
func SelectLink(hrefs []string, baseURL string) (link, infoHash string, ok bool) {
	for _, href := range hrefs {
		href = strings.TrimSpace(href)
		if strings.HasPrefix(strings.ToLower(href), "magnet:") {
			return href, ExtractInfoHash(href), true
		}
	}

	for _, href := range hrefs {
		href = strings.TrimSpace(href)
		if !strings.HasSuffix(strings.ToLower(href), ".torrent") {
			continue
		}
		if resolved := resolveLink(baseURL, href); resolved != "" {
			return resolved, "", true
		}
	}

	return "", "", false
}

// ExtractInfoHash returns the lower-cased btih value of a magnet link, or ""
// when the link carries none.
func ExtractInfoHash(magnet string) string {
	match := reInfoHash.FindStringSubmatch(magnet)
	if len(match) != 2 {
		return ""
	}
	return strings.ToLower(match[1])
}

func resolveLink(baseURL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" {
		// No usable origin; keep whatever the page gave us if it is already absolute.
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	return base.ResolveReference(ref).String()
}
