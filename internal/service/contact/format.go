package contact

import "strings"

// FormatPhones renders phones as "{phone} ({kind})" entries joined by ", ",
// keeping the given order. No phones yields "".
func FormatPhones(phones []PhoneNumber) string {
	parts := make([]string, 0, len(phones))
	for _, ph := range phones {
		parts = append(parts, ph.Phone+" ("+ph.Kind+")")
	}
	return strings.Join(parts, ", ")
}
