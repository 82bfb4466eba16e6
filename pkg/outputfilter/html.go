package outputfilter

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	htmlTitleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	gaRe        = regexp.MustCompile(`(?i)(google-analytics\.com|gtag\(|googletagmanager)`)
	yandexRe    = regexp.MustCompile(`(?i)(mc\.yandex\.ru|ym\()`)
	ldJSONRe    = regexp.MustCompile(`(?is)<script[^>]+type=["']application/ld\+json["']`)
)

// HTML summarizes an HTML document's structure without echoing its body
// (spec.md §4.13 "HTML").
func HTML(text string) string {
	lines := strings.Count(text, "\n") + 1
	chars := len(text)

	title := ""
	if m := htmlTitleRe.FindStringSubmatch(text); m != nil {
		title = strings.TrimSpace(m[1])
	}

	var out strings.Builder
	fmt.Fprintf(&out, "HTML document\nLines: %d\nChars: %d\n", lines, chars)
	if title != "" {
		fmt.Fprintf(&out, "Title: %s\n", title)
	}
	fmt.Fprintf(&out, "Google Analytics: %t\n", gaRe.MatchString(text))
	fmt.Fprintf(&out, "Yandex Metrica: %t\n", yandexRe.MatchString(text))
	fmt.Fprintf(&out, "LD+JSON: %t\n", ldJSONRe.MatchString(text))
	return out.String()
}
