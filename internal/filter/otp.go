package filter

import "regexp"

var (
	labelledCode = regexp.MustCompile(`(?i)(?:verification code|code|otp)[:\s]+(\d{4,8})\b`)
	// Tried in order; six digits is by far the most common length.
	bareCodes = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{6})\b`),
		regexp.MustCompile(`\b(\d{4})\b`),
		regexp.MustCompile(`\b(\d{8})\b`),
	}
)

// DetectOTP returns the first one-time code found in texts, searched in order.
func DetectOTP(texts ...string) (string, bool) {
	for _, t := range texts {
		if m := labelledCode.FindStringSubmatch(t); m != nil {
			return m[1], true
		}
	}
	for _, re := range bareCodes {
		for _, t := range texts {
			if m := re.FindStringSubmatch(t); m != nil {
				return m[1], true
			}
		}
	}
	return "", false
}
