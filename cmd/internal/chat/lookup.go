package chat

import "context"

// FindMessageByTimestamp scans all stored conversations for a message whose
// timestamp matches exactly and returns it with its conversation id.
//
// This backs the deep-link route. Timestamps are nanosecond-precision, so
// collisions are not a practical concern; the first match wins regardless.
// The scan is linear over the full history on purpose: deep links are rare
// and a dedicated lookup structure is not worth keeping consistent.
func FindMessageByTimestamp(ctx context.Context, st Store, timestamp string) (Message, string, bool) {
	if timestamp == "" {
		return Message{}, "", false
	}

	for _, c := range st.ListAll(ctx) {
		for _, m := range c.Messages {
			if m.Timestamp == timestamp {
				return m, c.ID, true
			}
		}
	}
	return Message{}, "", false
}
