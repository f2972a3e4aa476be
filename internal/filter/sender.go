// Package filter decides which incoming mails produce a notification.
package filter

import (
	"net/mail"
	"strings"
)

// SenderAddress extracts the bare lower-cased address from a From header value.
// Headers that do not parse as an RFC 5322 address fall back to the text
// between angle brackets, then to the whole trimmed value.
func SenderAddress(from string) string {
	from = strings.TrimSpace(from)
	if from == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(from); err == nil {
		return strings.ToLower(addr.Address)
	}
	if start := strings.LastIndex(from, "<"); start >= 0 {
		if end := strings.Index(from[start:], ">"); end > 0 {
			return strings.ToLower(strings.TrimSpace(from[start+1 : start+end]))
		}
	}
	return strings.ToLower(from)
}

// Matches reports whether address matches any entry.
// An entry starting with "@" matches by domain suffix, any other entry by exact address.
func Matches(address string, entries []string) bool {
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return false
	}
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if strings.HasPrefix(e, "@") {
			if strings.HasSuffix(address, e) {
				return true
			}
			continue
		}
		if address == e {
			return true
		}
	}
	return false
}
