package internal

import "strings"

// SearchResult pairs a matching session with the messages that matched.
// Matches is empty when the session matched by title alone.
type SearchResult struct {
	Session *ChatSession
	Matches []ChatMessage
}

// SearchSessions filters sessions by a case-insensitive substring query
// against titles and message bodies. Result order follows input order;
// there is no ranking beyond inclusion.
func SearchSessions(sessions []*ChatSession, query string) []SearchResult {
	folded := strings.ToLower(query)

	var results []SearchResult
	for _, session := range sessions {
		titleMatch := strings.Contains(strings.ToLower(session.Title), folded)

		var matches []ChatMessage
		for _, msg := range session.Messages {
			if strings.Contains(strings.ToLower(msg.Content), folded) {
				matches = append(matches, msg)
			}
		}

		if !titleMatch && len(matches) == 0 {
			continue
		}
		results = append(results, SearchResult{Session: session, Matches: matches})
	}
	return results
}
