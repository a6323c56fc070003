// Package email derives display names from addresses. Signup takes only an
// email and password; the profile step lets users correct the guess later.
package email

import (
	"strings"
	"unicode"
)

// DeriveNameFromEmail guesses a first and last name from the local part of an
// address: "jane.doe@example.com" becomes ("Jane", "Doe"). Single-word local
// parts get "User" as the last name; unusable input yields ("User", "User").
func DeriveNameFromEmail(address string) (string, string) {
	local := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		local = address[:at]
	}

	words := strings.FieldsFunc(local, isSeparator)
	if len(words) == 0 {
		return "User", "User"
	}
	if len(words) == 1 {
		return title(words[0]), "User"
	}
	return title(words[0]), title(words[len(words)-1])
}

func isSeparator(r rune) bool {
	switch r {
	case '.', '_', '-', '+':
		return true
	}
	return false
}

func title(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
