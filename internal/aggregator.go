package internal

import (
	"os"
	"sort"
)

// DiscoverAll locates every variant's storage root plus any extra roots from
// configuration, then discovers the workspaces underneath them.
func DiscoverAll(env Environment, variants []Variant, extraRoots []string) []*WorkspaceInfo {
	roots := LocateStorageRoots(env, variants)
	for _, path := range extraRoots {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			LogDebug("ignoring configured root %s: not a directory", path)
			continue
		}
		roots = append(roots, StorageRoot{Variant: "custom", Path: path})
	}
	return DiscoverWorkspaces(roots)
}

// GetAllSessions runs the full build pipeline over the discovered
// workspaces: transcript files first, then the state database, per
// workspace. Sessions with no messages are dropped, duplicate session ids
// keep the first occurrence, and the result is sorted most recently
// modified first. The sort is stable so ties keep aggregation order.
func GetAllSessions(workspaces []*WorkspaceInfo) []*ChatSession {
	var all []*ChatSession
	for _, ws := range workspaces {
		for _, path := range ws.ChatSessionFiles {
			session, err := BuildFileSession(path, ws)
			if err != nil {
				LogWarn("skipping transcript %s: %v", path, err)
				continue
			}
			all = append(all, session)
		}

		dbSessions, outcome := ExtractFromStateDB(ws)
		if outcome != ExtractOK && outcome != ExtractNoDatabase {
			LogDebug("state database for workspace %s: %s", ws.WorkspaceID, outcome)
		}
		all = append(all, dbSessions...)
	}

	seen := make(map[string]bool)
	result := make([]*ChatSession, 0, len(all))
	for _, session := range all {
		if len(session.Messages) == 0 {
			continue
		}
		if seen[session.SessionID] {
			continue
		}
		seen[session.SessionID] = true
		result = append(result, session)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ModifiedAt.After(result[j].ModifiedAt)
	})
	return result
}
