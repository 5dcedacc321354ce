package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Candidate fields for session-level metadata, in precedence order.
var (
	titleFields     = []string{"customTitle", "title", "name"}
	sessionIDFields = []string{"sessionId", "id", "conversationId"}
	createdAtFields = []string{"createdAt", "creationDate", "created", "createdTime", "timestamp"}
	modelFields     = []string{"model", "modelId", "defaultModel"}
	agentModeFields = []string{"agentMode", "mode", "chatMode"}
)

// BuildFileSession reads one transcript file and assembles a session from
// it. The filename (without extension) is the session id and the file's
// modification time is the session's ModifiedAt. Unreadable or malformed
// files return a typed error the caller logs and skips.
func BuildFileSession(path string, ws *WorkspaceInfo) (*ChatSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, &ParseError{Source: SourceFile, Key: path, Err: err}
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	session := buildSession(value, ws, id, SourceFile)
	if info, err := os.Stat(path); err == nil {
		session.ModifiedAt = info.ModTime()
	}
	return session, nil
}

// BuildRecordSession assembles a session from one decoded database record.
// The record's own session identifier wins over the caller-supplied fallback
// id. ModifiedAt is the extraction time; the store keeps no better signal.
func BuildRecordSession(value interface{}, ws *WorkspaceInfo, fallbackID string) *ChatSession {
	id := fallbackID
	if rec, ok := value.(map[string]interface{}); ok {
		for _, field := range sessionIDFields {
			if s, ok := rec[field].(string); ok && s != "" {
				id = s
				break
			}
		}
	}
	session := buildSession(value, ws, id, SourceDatabase)
	session.ModifiedAt = time.Now()
	return session
}

func buildSession(value interface{}, ws *WorkspaceInfo, id, source string) *ChatSession {
	session := &ChatSession{
		SessionID:     id,
		Messages:      ExtractMessages(value, source == SourceFile),
		WorkspaceID:   ws.WorkspaceID,
		WorkspaceName: ws.Name(),
		ProjectPath:   ws.ProjectPath,
		Source:        source,
	}

	if rec, ok := value.(map[string]interface{}); ok {
		for _, field := range titleFields {
			if t, ok := rec[field].(string); ok && t != "" {
				session.Title = t
				break
			}
		}
		for _, field := range createdAtFields {
			if v, ok := rec[field]; ok {
				if t := parseTimeValue(v); !t.IsZero() {
					session.CreatedAt = t
					break
				}
			}
		}
		session.Model = firstStringField(rec, modelFields)
		session.AgentMode = firstStringField(rec, agentModeFields)
	}

	if session.Title == "" {
		session.Title = titleFromMessages(session.Messages)
	}
	if session.Title == "" {
		session.Title = fmt.Sprintf("Session %s", id)
	}
	return session
}

func firstStringField(rec map[string]interface{}, fields []string) string {
	for _, field := range fields {
		if s, ok := rec[field].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// titleFromMessages derives a title from the first user message: its first
// 60 characters, with an ellipsis when truncated.
func titleFromMessages(msgs []ChatMessage) string {
	for _, msg := range msgs {
		if msg.Role != RoleUser {
			continue
		}
		text := strings.TrimSpace(msg.Content)
		if text == "" {
			continue
		}
		runes := []rune(text)
		if len(runes) > 60 {
			return string(runes[:60]) + "..."
		}
		return text
	}
	return ""
}
