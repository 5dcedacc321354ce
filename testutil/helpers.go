package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// CreateWorkspaceFixture creates a workspace storage folder under root with
// the given id. When folderURI is non-empty a workspace.json sidecar
// pointing at it is written. Returns the workspace folder path.
func CreateWorkspaceFixture(t *testing.T, root, id, folderURI string) string {
	t.Helper()
	wsDir := filepath.Join(root, id)
	if err := os.MkdirAll(wsDir, 0755); err != nil {
		t.Fatalf("Failed to create workspace dir: %v", err)
	}

	if folderURI != "" {
		data, err := json.Marshal(map[string]string{"folder": folderURI})
		if err != nil {
			t.Fatalf("Failed to marshal workspace.json: %v", err)
		}
		if err := os.WriteFile(filepath.Join(wsDir, "workspace.json"), data, 0644); err != nil {
			t.Fatalf("Failed to write workspace.json: %v", err)
		}
	}
	return wsDir
}

// WriteSessionFile writes one transcript JSON file into the workspace's
// chatSessions directory and returns its path.
func WriteSessionFile(t *testing.T, wsDir, name, content string) string {
	t.Helper()
	sessionsDir := filepath.Join(wsDir, "chatSessions")
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		t.Fatalf("Failed to create chatSessions dir: %v", err)
	}
	path := filepath.Join(sessionsDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write session file %s: %v", name, err)
	}
	return path
}

// JSONUnmarshal unmarshals JSON for testing
func JSONUnmarshal(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
}
