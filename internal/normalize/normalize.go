package normalize

import "strings"

// Email returns the canonical form of an agent email address used for
// storage, login lookups and the unique index. Normalization trims
// surrounding whitespace and lower-cases the address.
//
// Partner emails are NOT passed through here: within a partner list the
// comparison is case-sensitive, so they are only trimmed.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
