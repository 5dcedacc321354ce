package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/testutil"
)

const minimalTranscript = `{"messages": [{"role": "user", "content": "hello"}]}`

func TestGetAllSessions_Deduplication(t *testing.T) {
	root := t.TempDir()

	ws1Dir := testutil.CreateWorkspaceFixture(t, root, "ws1", "file:///home/user/alpha")
	testutil.WriteSessionFile(t, ws1Dir, "shared.json", `{"messages": [{"role": "user", "content": "from alpha"}]}`)

	ws2Dir := testutil.CreateWorkspaceFixture(t, root, "ws2", "file:///home/user/beta")
	testutil.WriteSessionFile(t, ws2Dir, "shared.json", `{"messages": [{"role": "user", "content": "from beta"}]}`)

	workspaces := DiscoverWorkspaces([]StorageRoot{{Variant: "VS Code", Path: root}})
	sessions := GetAllSessions(workspaces)

	if len(sessions) != 1 {
		t.Fatalf("expected duplicate id collapsed to 1 session, got %d", len(sessions))
	}
	if sessions[0].Messages[0].Content != "from alpha" {
		t.Errorf("first occurrence must win, got content %q", sessions[0].Messages[0].Content)
	}
}

func TestGetAllSessions_DropsEmptySessions(t *testing.T) {
	root := t.TempDir()
	wsDir := testutil.CreateWorkspaceFixture(t, root, "ws1", "")
	testutil.WriteSessionFile(t, wsDir, "empty.json", `{"title": "No content here"}`)
	testutil.WriteSessionFile(t, wsDir, "full.json", minimalTranscript)

	workspaces := DiscoverWorkspaces([]StorageRoot{{Variant: "VS Code", Path: root}})
	sessions := GetAllSessions(workspaces)

	if len(sessions) != 1 {
		t.Fatalf("expected empty session dropped, got %d sessions", len(sessions))
	}
	if sessions[0].SessionID != "full" {
		t.Errorf("SessionID = %q, want %q", sessions[0].SessionID, "full")
	}
}

func TestGetAllSessions_SortedByModifiedDesc(t *testing.T) {
	root := t.TempDir()
	wsDir := testutil.CreateWorkspaceFixture(t, root, "ws1", "")

	oldPath := testutil.WriteSessionFile(t, wsDir, "older.json", minimalTranscript)
	midPath := testutil.WriteSessionFile(t, wsDir, "middle.json", minimalTranscript)
	newPath := testutil.WriteSessionFile(t, wsDir, "newest.json", minimalTranscript)

	base := time.Now().Add(-time.Hour)
	for i, path := range []string{oldPath, midPath, newPath} {
		mtime := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("Failed to set mtime: %v", err)
		}
	}

	workspaces := DiscoverWorkspaces([]StorageRoot{{Variant: "VS Code", Path: root}})
	sessions := GetAllSessions(workspaces)

	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	wantOrder := []string{"newest", "middle", "older"}
	for i, want := range wantOrder {
		if sessions[i].SessionID != want {
			t.Errorf("sessions[%d] = %q, want %q", i, sessions[i].SessionID, want)
		}
	}
}

func TestGetAllSessions_StableOrderOnTies(t *testing.T) {
	root := t.TempDir()

	ws1Dir := testutil.CreateWorkspaceFixture(t, root, "ws1", "")
	tieA := testutil.WriteSessionFile(t, ws1Dir, "tie-a.json", minimalTranscript)

	ws2Dir := testutil.CreateWorkspaceFixture(t, root, "ws2", "")
	tieB := testutil.WriteSessionFile(t, ws2Dir, "tie-b.json", minimalTranscript)

	mtime := time.Now().Add(-time.Hour).Truncate(time.Second)
	for _, path := range []string{tieA, tieB} {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("Failed to set mtime: %v", err)
		}
	}

	workspaces := DiscoverWorkspaces([]StorageRoot{{Variant: "VS Code", Path: root}})
	sessions := GetAllSessions(workspaces)

	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != "tie-a" || sessions[1].SessionID != "tie-b" {
		t.Errorf("equal timestamps must keep aggregation order, got %q then %q",
			sessions[0].SessionID, sessions[1].SessionID)
	}
}

func TestGetAllSessions_MissingTranscriptSkipped(t *testing.T) {
	root := t.TempDir()
	wsDir := testutil.CreateWorkspaceFixture(t, root, "ws1", "")
	testutil.WriteSessionFile(t, wsDir, "good.json", minimalTranscript)

	workspaces := DiscoverWorkspaces([]StorageRoot{{Variant: "VS Code", Path: root}})
	if len(workspaces) != 1 {
		t.Fatalf("expected 1 workspace, got %d", len(workspaces))
	}
	// Simulate a transcript deleted between discovery and aggregation.
	workspaces[0].ChatSessionFiles = append(workspaces[0].ChatSessionFiles,
		filepath.Join(wsDir, "chatSessions", "vanished.json"))

	sessions := GetAllSessions(workspaces)
	if len(sessions) != 1 {
		t.Fatalf("expected the surviving transcript only, got %d sessions", len(sessions))
	}
	if sessions[0].SessionID != "good" {
		t.Errorf("SessionID = %q, want %q", sessions[0].SessionID, "good")
	}
}

func TestGetAllSessions_FilesAndDatabaseCombined(t *testing.T) {
	root := t.TempDir()

	fileWSDir := testutil.CreateWorkspaceFixture(t, root, "filews", "file:///home/user/proj1")
	testutil.WriteSessionFile(t, fileWSDir, "exchange.json", `{"request": "fix bug", "response": "done"}`)

	dbWSDir := testutil.CreateWorkspaceFixture(t, root, "dbws", "file:///home/user/proj2")
	dbPath := testutil.CreateStateDB(t, dbWSDir)
	testutil.InsertEntry(t, dbPath, "chat.session.1",
		`[{"requests": [{"request": "add tests", "response": "added"}]}]`)

	workspaces := DiscoverWorkspaces([]StorageRoot{{Variant: "VS Code", Path: root}})
	sessions := GetAllSessions(workspaces)

	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	bySource := make(map[string]*ChatSession)
	for _, session := range sessions {
		bySource[session.Source] = session
	}

	fileSession, ok := bySource[SourceFile]
	if !ok {
		t.Fatal("no file-sourced session aggregated")
	}
	if fileSession.SessionID != "exchange" {
		t.Errorf("file session id = %q, want %q", fileSession.SessionID, "exchange")
	}

	dbSession, ok := bySource[SourceDatabase]
	if !ok {
		t.Fatal("no database-sourced session aggregated")
	}
	if dbSession.WorkspaceName != "proj2" {
		t.Errorf("db session workspace = %q, want %q", dbSession.WorkspaceName, "proj2")
	}

	for _, session := range sessions {
		if len(session.Messages) != 2 {
			t.Fatalf("session %s: expected 2 messages, got %d", session.SessionID, len(session.Messages))
		}
		if session.Messages[0].Role != RoleUser {
			t.Errorf("session %s: first message role = %q, want user", session.SessionID, session.Messages[0].Role)
		}
		if session.Messages[1].Role != RoleAssistant {
			t.Errorf("session %s: second message role = %q, want assistant", session.SessionID, session.Messages[1].Role)
		}
	}
}

func TestDiscoverAll_ExtraRoots(t *testing.T) {
	extra := t.TempDir()
	wsDir := testutil.CreateWorkspaceFixture(t, extra, "extra01", "")
	testutil.WriteSessionFile(t, wsDir, "s.json", minimalTranscript)

	env := fakeEnv(t.TempDir(), "linux", nil)
	workspaces := DiscoverAll(env, DefaultVariants, []string{extra, "/does/not/exist"})

	if len(workspaces) != 1 {
		t.Fatalf("expected 1 workspace from extra root, got %d", len(workspaces))
	}
	if workspaces[0].Variant != "custom" {
		t.Errorf("Variant = %q, want %q", workspaces[0].Variant, "custom")
	}
}
