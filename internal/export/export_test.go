package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/internal"
	"gopkg.in/yaml.v3"
)

func exportFixture() *internal.ChatSession {
	return &internal.ChatSession{
		SessionID:     "abc123",
		Title:         "Test Session",
		WorkspaceName: "myproject",
		ProjectPath:   "/home/user/myproject",
		Model:         "gpt-4",
		Source:        internal.SourceFile,
		Messages: []internal.ChatMessage{
			{
				Role:      internal.RoleUser,
				Content:   "how do I read a file",
				Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			},
			{
				Role:    internal.RoleAssistant,
				Content: "use os.ReadFile:\n```go\ndata, err := os.ReadFile(path)\n```",
			},
		},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{"jsonl", "jsonl", false},
		{"json", "json", false},
		{"yaml", "yaml", false},
		{"md", "md", false},
		{"markdown", "md", false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewExporter(%q) expected error", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewExporter(%q) error: %v", tt.format, err)
			}
			if exporter.Extension() != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", exporter.Extension(), tt.wantExt)
			}
		})
	}
}

func TestJSONLExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(exportFixture(), &buf); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if first["role"] != internal.RoleUser {
		t.Errorf("line 1 role = %v, want user", first["role"])
	}
	if first["content"] != "how do I read a file" {
		t.Errorf("line 1 content = %v", first["content"])
	}
	if first["timestamp"] != "2024-03-01T10:00:00Z" {
		t.Errorf("line 1 timestamp = %v", first["timestamp"])
	}

	var second map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2 is not valid JSON: %v", err)
	}
	if _, ok := second["timestamp"]; ok {
		t.Error("line 2 carries a timestamp for a zero-time message")
	}
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(exportFixture(), &buf); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	var decoded internal.ChatSession
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.SessionID != "abc123" {
		t.Errorf("SessionID = %q, want abc123", decoded.SessionID)
	}
	if len(decoded.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(decoded.Messages))
	}
}

func TestYAMLExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(exportFixture(), &buf); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	var decoded internal.ChatSession
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Title != "Test Session" {
		t.Errorf("Title = %q, want Test Session", decoded.Title)
	}
}

func TestMarkdownExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(exportFixture(), &buf); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Test Session",
		"**Session:** abc123",
		"**Workspace:** myproject",
		"**Model:** gpt-4",
		"**user:**",
		"**assistant:**",
		"```go",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "emphasis escaped",
			in:   "this is **bold** text",
			want: `this is \*\*bold\*\* text`,
		},
		{
			name: "code blocks untouched",
			in:   "before\n```\n**not escaped**\n```\nafter **escaped**",
			want: "before\n```\n**not escaped**\n```\nafter \\*\\*escaped\\*\\*",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeMarkdown(tt.in); got != tt.want {
				t.Errorf("escapeMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}
