// FILE: internal/arbiter/normalize.go
package arbiter

import (
	"regexp"
	"strings"
)

var (
	artifacts  = strings.NewReplacer("*", "", "[", "", "]", "", "`", "")
	moveNumber = regexp.MustCompile(`^\d+\.+`)

	// SANPattern finds a SAN-shaped move anywhere in free text
	SANPattern = regexp.MustCompile(`[KQRBN]?[a-h]?[1-8]?x?[a-h][1-8](?:=[KQRBN])?|O-O(?:-O)?`)
)

// Clean strips markdown artifacts from a reply
func Clean(raw string) string {
	return strings.TrimSpace(artifacts.Replace(raw))
}

// Normalize reduces a reply to its first token without decoration,
// e.g. "**1... Nf6.** because" becomes "Nf6"
func Normalize(raw string) string {
	fields := strings.Fields(Clean(raw))
	if len(fields) == 0 {
		return ""
	}
	token := fields[0]
	if moveNumber.MatchString(token) {
		rest := moveNumber.ReplaceAllString(token, "")
		if rest == "" && len(fields) > 1 {
			rest = fields[1]
		}
		token = rest
	}
	token = strings.TrimLeft(token, `("'`)
	return strings.TrimRight(token, `.,;:!?)"'`)
}

// SANCandidates lists SAN-shaped substrings of text in order
func SANCandidates(text string) []string {
	return SANPattern.FindAllString(text, -1)
}
