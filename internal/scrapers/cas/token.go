package cas

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"gradecheck/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ErrLoginTokenNotFound is returned when the login page does not carry a
// CAS_LT token, usually because the page layout changed.
var ErrLoginTokenNotFound = errors.New("cas: login token not found on login page")

var loginTokenRegex = regexp.MustCompile(`\$\("#CAS_LT"\)\.val\("(\S+)"\)`)

// ill-formed bytes are passed to the predicate as utf8.RuneError, which is
// outside of ascii as well
var asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
}))

// decodeLoginPage decodes the login page best-effort, every byte sequence
// that is not ascii is discarded.
func decodeLoginPage(body []byte) string {
	out, _, err := transform.Bytes(asciiOnly, body)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, strings.ToValidUTF8(string(body), ""))
	}
	return string(out)
}

func matchLoginToken(text string) string {
	groups := loginTokenRegex.FindStringSubmatch(text)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

// extractLoginToken finds the CAS_LT token that the login page sets through
// an inline script. Script blocks are checked first, the rest of the page is
// only searched if none of them match.
func extractLoginToken(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err == nil {
		for _, script := range doc.Find("script").Nodes {
			token := matchLoginToken(htmlutil.GetText(script))
			if token != "" {
				return token, nil
			}
		}
	}

	token := matchLoginToken(page)
	if token == "" {
		return "", ErrLoginTokenNotFound
	}
	return token, nil
}
