package utils

import (
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike quotes the LIKE wildcards in s so user input matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
