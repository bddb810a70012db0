package chat

// titleMaxChars is the character budget for a derived conversation title.
const titleMaxChars = 50

// ellipsis marks a truncated title.
const ellipsis = "..."

// DeriveTitle builds a conversation title from its first user message: the
// message verbatim when it fits the budget, otherwise the truncated prefix
// with an ellipsis appended. Truncation is rune-safe.
func DeriveTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= titleMaxChars {
		return message
	}
	return string(runes[:titleMaxChars]) + ellipsis
}
