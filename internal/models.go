package internal

import (
	"fmt"
	"path/filepath"
	"time"
)

// Message roles after normalization.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleUnknown   = "unknown"
)

// Session provenance.
const (
	SourceFile     = "file"
	SourceDatabase = "database"
)

// WorkspaceInfo describes one per-workspace storage folder discovered under
// an editor's workspaceStorage root. It is built fresh on every discovery
// pass and never mutated afterwards.
type WorkspaceInfo struct {
	WorkspaceID      string   `json:"workspace_id" yaml:"workspace_id"`
	Variant          string   `json:"variant" yaml:"variant"`
	StoragePath      string   `json:"storage_path" yaml:"storage_path"`
	ProjectPath      string   `json:"project_path,omitempty" yaml:"project_path,omitempty"`
	ProjectName      string   `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	ChatSessionFiles []string `json:"chat_session_files,omitempty" yaml:"chat_session_files,omitempty"`
	HasStateDB       bool     `json:"has_state_db" yaml:"has_state_db"`
}

// Name returns the best available display name for the workspace, falling
// back to a placeholder derived from the workspace id.
func (w *WorkspaceInfo) Name() string {
	if w.ProjectName != "" {
		return w.ProjectName
	}
	id := w.WorkspaceID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("workspace-%s", id)
}

// StateDBPath returns the path to the workspace's state.vscdb file.
func (w *WorkspaceInfo) StateDBPath() string {
	return filepath.Join(w.StoragePath, "state.vscdb")
}

// ChatMessage is one normalized conversational turn.
type ChatMessage struct {
	Role        string      `json:"role" yaml:"role"`
	Content     string      `json:"content" yaml:"content"`
	Timestamp   time.Time   `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	ToolCalls   interface{} `json:"tool_calls,omitempty" yaml:"tool_calls,omitempty"`
	ToolResults interface{} `json:"tool_results,omitempty" yaml:"tool_results,omitempty"`

	// Raw holds the original record for messages parsed out of transcript
	// files. Database-derived messages never carry it.
	Raw interface{} `json:"-" yaml:"-"`
}

// ChatSession is one normalized conversation, the unit of export and search.
type ChatSession struct {
	SessionID     string        `json:"session_id" yaml:"session_id"`
	Title         string        `json:"title" yaml:"title"`
	Messages      []ChatMessage `json:"messages" yaml:"messages"`
	WorkspaceID   string        `json:"workspace_id,omitempty" yaml:"workspace_id,omitempty"`
	WorkspaceName string        `json:"workspace_name,omitempty" yaml:"workspace_name,omitempty"`
	ProjectPath   string        `json:"project_path,omitempty" yaml:"project_path,omitempty"`
	CreatedAt     time.Time     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	ModifiedAt    time.Time     `json:"modified_at,omitempty" yaml:"modified_at,omitempty"`
	Model         string        `json:"model,omitempty" yaml:"model,omitempty"`
	AgentMode     string        `json:"agent_mode,omitempty" yaml:"agent_mode,omitempty"`
	Source        string        `json:"source" yaml:"source"`
}
