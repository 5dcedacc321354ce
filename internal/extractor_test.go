package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/testutil"
)

func dbWorkspace(t *testing.T) *WorkspaceInfo {
	t.Helper()
	dir := t.TempDir()
	testutil.CreateStateDB(t, dir)
	return &WorkspaceInfo{
		WorkspaceID: "dbws01",
		Variant:     "VS Code",
		StoragePath: dir,
		HasStateDB:  true,
	}
}

func TestExtractFromStateDB_ListValue(t *testing.T) {
	ws := dbWorkspace(t)
	testutil.InsertEntry(t, ws.StateDBPath(), "chat.sessions",
		`[{"messages": [{"role": "user", "content": "first"}]},
		  {"messages": [{"role": "user", "content": "second"}]}]`)

	sessions, outcome := ExtractFromStateDB(ws)
	if outcome != ExtractOK {
		t.Fatalf("outcome = %s, want ok", outcome)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != "db_0" || sessions[1].SessionID != "db_1" {
		t.Errorf("positional ids = %q, %q; want db_0, db_1", sessions[0].SessionID, sessions[1].SessionID)
	}
	for _, session := range sessions {
		if session.Source != SourceDatabase {
			t.Errorf("Source = %q, want %q", session.Source, SourceDatabase)
		}
	}
}

func TestExtractFromStateDB_KeyedSessionsMap(t *testing.T) {
	ws := dbWorkspace(t)
	testutil.InsertEntry(t, ws.StateDBPath(), "interactive.sessions",
		`{"sessions": {
			"zz-later": {"messages": [{"role": "user", "content": "b"}]},
			"aa-first": {"messages": [{"role": "user", "content": "a"}]}
		}}`)

	sessions, outcome := ExtractFromStateDB(ws)
	if outcome != ExtractOK {
		t.Fatalf("outcome = %s, want ok", outcome)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	// Map keys become ids, visited in sorted order.
	if sessions[0].SessionID != "aa-first" || sessions[1].SessionID != "zz-later" {
		t.Errorf("ids = %q, %q; want aa-first, zz-later", sessions[0].SessionID, sessions[1].SessionID)
	}
}

func TestExtractFromStateDB_SessionsArray(t *testing.T) {
	ws := dbWorkspace(t)
	testutil.InsertEntry(t, ws.StateDBPath(), "chat.store",
		`{"sessions": [{"messages": [{"role": "user", "content": "x"}]}]}`)

	sessions, outcome := ExtractFromStateDB(ws)
	if outcome != ExtractOK {
		t.Fatalf("outcome = %s, want ok", outcome)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].SessionID != "db_0" {
		t.Errorf("SessionID = %q, want db_0", sessions[0].SessionID)
	}
}

func TestExtractFromStateDB_BareSessionObject(t *testing.T) {
	ws := dbWorkspace(t)
	testutil.InsertEntry(t, ws.StateDBPath(), "copilot.conversation",
		`{"messages": [{"role": "user", "content": "solo"}]}`)

	sessions, outcome := ExtractFromStateDB(ws)
	if outcome != ExtractOK {
		t.Fatalf("outcome = %s, want ok", outcome)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].SessionID != "db_copilot.conversation" {
		t.Errorf("SessionID = %q, want db_copilot.conversation", sessions[0].SessionID)
	}
}

func TestExtractFromStateDB_BareObjectsGetDistinctIDs(t *testing.T) {
	ws := dbWorkspace(t)
	testutil.InsertEntry(t, ws.StateDBPath(), "chat.alpha",
		`{"messages": [{"role": "user", "content": "first"}]}`)
	testutil.InsertEntry(t, ws.StateDBPath(), "chat.beta",
		`{"messages": [{"role": "user", "content": "second"}]}`)

	sessions, outcome := ExtractFromStateDB(ws)
	if outcome != ExtractOK {
		t.Fatalf("outcome = %s, want ok", outcome)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID == sessions[1].SessionID {
		t.Fatalf("bare rows share id %q; first-wins dedup would drop one", sessions[0].SessionID)
	}

	// Both survive aggregation.
	kept := GetAllSessions([]*WorkspaceInfo{ws})
	if len(kept) != 2 {
		t.Errorf("expected both sessions after aggregation, got %d", len(kept))
	}
}

func TestExtractFromStateDB_RecordIDWins(t *testing.T) {
	ws := dbWorkspace(t)
	testutil.InsertEntry(t, ws.StateDBPath(), "chat.sessions",
		`[{"sessionId": "real-id", "messages": [{"role": "user", "content": "x"}]}]`)

	sessions, outcome := ExtractFromStateDB(ws)
	if outcome != ExtractOK {
		t.Fatalf("outcome = %s, want ok", outcome)
	}
	if sessions[0].SessionID != "real-id" {
		t.Errorf("SessionID = %q, want real-id", sessions[0].SessionID)
	}
}

func TestExtractFromStateDB_Outcomes(t *testing.T) {
	t.Run("no database", func(t *testing.T) {
		ws := &WorkspaceInfo{WorkspaceID: "nodb", StoragePath: t.TempDir()}
		sessions, outcome := ExtractFromStateDB(ws)
		if outcome != ExtractNoDatabase {
			t.Errorf("outcome = %s, want no database", outcome)
		}
		if sessions != nil {
			t.Errorf("expected no sessions, got %d", len(sessions))
		}
	})

	t.Run("corrupt database", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "state.vscdb"), []byte("garbage"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		ws := &WorkspaceInfo{WorkspaceID: "corrupt", StoragePath: dir, HasStateDB: true}
		_, outcome := ExtractFromStateDB(ws)
		if outcome != ExtractOpenFailed {
			t.Errorf("outcome = %s, want open failed", outcome)
		}
	})

	t.Run("no matching keys", func(t *testing.T) {
		ws := dbWorkspace(t)
		testutil.InsertEntry(t, ws.StateDBPath(), "editor.fontSize", `14`)
		_, outcome := ExtractFromStateDB(ws)
		if outcome != ExtractNoMatches {
			t.Errorf("outcome = %s, want no matching entries", outcome)
		}
	})

	t.Run("matching key with unusable value", func(t *testing.T) {
		ws := dbWorkspace(t)
		testutil.InsertEntry(t, ws.StateDBPath(), "chat.editor.fontSize", `"just a string"`)
		testutil.InsertEntry(t, ws.StateDBPath(), "chat.broken", `{not json`)
		_, outcome := ExtractFromStateDB(ws)
		if outcome != ExtractNoMatches {
			t.Errorf("outcome = %s, want no matching entries", outcome)
		}
	})
}
