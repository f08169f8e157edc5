package logger

import "strings"

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactIdentifier masks an opaque customer identifier, keeping a short
// prefix so log lines from the same customer can still be correlated.
// "cust_8f2a91bc" → "cust_8f***"
func RedactIdentifier(id string) string {
	if len(id) <= 4 {
		return "***"
	}
	keep := len(id) / 3
	if keep > 7 {
		keep = 7
	}
	return id[:keep] + "***"
}
