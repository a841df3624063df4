// Package normalize holds the small canonicalization helpers applied to
// user-supplied identity fields before they are stored or compared.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role name.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a record status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AuthMethod lowercases and trims an auth method name.
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
