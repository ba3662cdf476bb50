package style

import "strings"

// Kebab converts identifiers such as "emailField", "LoginForm", "HTMLTitle" or
// "main_panel" into hyphenated lower case ("email-field", "login-form",
// "html-title", "main-panel"). Custom properties ("--x") pass through.
func Kebab(s string) string {
	if strings.HasPrefix(s, "--") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	lastHyphen := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == ' ' || c == '-':
			if !lastHyphen || (i == 0 && c == '-') {
				b.WriteByte('-')
				lastHyphen = true
			}
		case isUpper(c):
			prevLower := i > 0 && (isLower(s[i-1]) || isDigit(s[i-1]))
			nextLower := i+1 < len(s) && isLower(s[i+1])
			prevUpper := i > 0 && isUpper(s[i-1])
			if !lastHyphen && (prevLower || (prevUpper && nextLower)) {
				b.WriteByte('-')
			}
			b.WriteByte(c + ('a' - 'A'))
			lastHyphen = false
		default:
			b.WriteByte(c)
			lastHyphen = false
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Camel reverses Kebab for hyphenated identifiers: "email-field" -> "emailField".
func Camel(s string) string {
	parts := strings.Split(s, "-")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(part)
			continue
		}
		first := part[0]
		if isLower(first) {
			first -= 'a' - 'A'
		}
		b.WriteByte(first)
		b.WriteString(part[1:])
	}
	return b.String()
}

// RootClass is the class carried by the root element of a definition's instances.
func RootClass(definition string) string {
	return Kebab(definition)
}

// KeyClass is the class carried by the element of a logical scheme key.
func KeyClass(key string) string {
	return Kebab(key)
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
