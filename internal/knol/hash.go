package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize trims whitespace, lowercases, and normalizes line endings.
func Normalize(s string) string {
	p := strings.ToLower(s)
	p = strings.ReplaceAll(p, "\r\n", "\n")
	return strings.TrimSpace(p)
}

// Username returns the canonical form under which progress is stored.
// Usernames compare case-insensitively.
func Username(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AnswersMatch reports whether a typed answer matches the stored one,
// ignoring case and surrounding whitespace.
func AnswersMatch(expected, given string) bool {
	return Normalize(expected) == Normalize(given)
}

// Hash returns the SHA-256 of the normalized question and answer as a hex string.
// Cards with the same content hash are treated as duplicates on import.
func Hash(question, answer string) string {
	// Joined with a newline so "ab"+"c" and "a"+"bc" hash differently.
	normalized := Normalize(question) + "\n" + Normalize(answer)
	hashBytes := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hashBytes)
}
