package domain

import (
	"encoding/json"
	"strings"
)

// EmailList decodes a loosely shaped list of email addresses. Entries may be
// plain strings or {"value": "..."} objects; nulls, other shapes and entries
// without an "@" are dropped. A JSON value that is not an array decodes to an
// empty list.
type EmailList []string

func (l *EmailList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = EmailList{}
		return nil
	}
	out := make(EmailList, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			var wrapped struct {
				Value *string `json:"value"`
			}
			if err := json.Unmarshal(item, &wrapped); err != nil || wrapped.Value == nil {
				continue
			}
			s = *wrapped.Value
		}
		out = append(out, s)
	}
	*l = SanitizeEmails(out)
	return nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeEmails normalizes addresses, drops anything without an "@" and removes
// duplicates while keeping the first occurrence order.
func SanitizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = NormalizeEmail(e)
		if e == "" || !strings.Contains(e, "@") {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
