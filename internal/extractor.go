package internal

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ExtractOutcome says why a database extraction produced what it produced,
// so callers and tests can tell "no database" from "database present but
// nothing matched" without an error ever propagating.
type ExtractOutcome int

const (
	ExtractOK ExtractOutcome = iota
	ExtractNoDatabase
	ExtractOpenFailed
	ExtractNoMatches
)

func (o ExtractOutcome) String() string {
	switch o {
	case ExtractOK:
		return "ok"
	case ExtractNoDatabase:
		return "no database"
	case ExtractOpenFailed:
		return "open failed"
	case ExtractNoMatches:
		return "no matching entries"
	default:
		return "unknown"
	}
}

// ExtractFromStateDB pulls chat sessions out of a workspace's state.vscdb.
// Database extraction is a best-effort enhancement: every failure mode maps
// to an empty result with an explanatory outcome, never an error.
func ExtractFromStateDB(ws *WorkspaceInfo) ([]*ChatSession, ExtractOutcome) {
	if !ws.HasStateDB {
		return nil, ExtractNoDatabase
	}

	db, err := OpenStateDB(ws.StateDBPath())
	if err != nil {
		LogDebug("cannot open state database for %s: %v", ws.WorkspaceID, err)
		return nil, ExtractOpenFailed
	}
	defer db.Close()

	entries, err := QueryChatEntries(db)
	if err != nil {
		LogDebug("state database query failed for %s: %v", ws.WorkspaceID, err)
		return nil, ExtractOpenFailed
	}
	if len(entries) == 0 {
		return nil, ExtractNoMatches
	}

	var sessions []*ChatSession
	for _, entry := range entries {
		var value interface{}
		if err := json.Unmarshal([]byte(entry.Value), &value); err != nil {
			continue
		}
		sessions = append(sessions, sessionsFromValue(value, ws, entry.Key)...)
	}
	if len(sessions) == 0 {
		return nil, ExtractNoMatches
	}
	return sessions, ExtractOK
}

// sessionsFromValue interprets one decoded store value. Three shapes are
// recognized, tried in order: a list of session records, an object carrying
// a sessions collection keyed by id, and a bare session object. The store
// key disambiguates the bare-object fallback id so two bare rows from the
// same scan never collide.
func sessionsFromValue(value interface{}, ws *WorkspaceInfo, key string) []*ChatSession {
	switch val := value.(type) {
	case []interface{}:
		return sessionsFromList(val, ws)
	case map[string]interface{}:
		if coll, ok := val["sessions"]; ok {
			switch sessions := coll.(type) {
			case map[string]interface{}:
				return sessionsFromKeyedMap(sessions, ws)
			case []interface{}:
				// A sessions array is treated like a top-level list of
				// session records.
				return sessionsFromList(sessions, ws)
			}
		}
		if msgs := ExtractMessages(val, false); len(msgs) > 0 {
			return []*ChatSession{BuildRecordSession(val, ws, fmt.Sprintf("db_%s", key))}
		}
		return nil
	default:
		return nil
	}
}

func sessionsFromList(list []interface{}, ws *WorkspaceInfo) []*ChatSession {
	var sessions []*ChatSession
	for i, el := range list {
		if msgs := ExtractMessages(el, false); len(msgs) > 0 {
			sessions = append(sessions, BuildRecordSession(el, ws, fmt.Sprintf("db_%d", i)))
		}
	}
	return sessions
}

func sessionsFromKeyedMap(m map[string]interface{}, ws *WorkspaceInfo) []*ChatSession {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sessions []*ChatSession
	for _, key := range keys {
		if msgs := ExtractMessages(m[key], false); len(msgs) > 0 {
			sessions = append(sessions, BuildRecordSession(m[key], ws, key))
		}
	}
	return sessions
}
