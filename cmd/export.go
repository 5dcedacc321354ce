package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/internal"
	"github.com/ashwin-phadke/copilot-chat-extractor-vscode/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat    string
	exportOut       string
	exportWorkspace string
	exportSessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export chat sessions to various formats (jsonl, md, yaml, json).

You can export all sessions, filter by workspace name, or export a specific
session by ID. Use 'copilot-chat-extractor list' to see available session IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions := loadSessions()

		if exportWorkspace != "" {
			filtered := make([]*internal.ChatSession, 0)
			for _, session := range sessions {
				if session.WorkspaceName == exportWorkspace || session.WorkspaceID == exportWorkspace {
					filtered = append(filtered, session)
				}
			}
			sessions = filtered
		}

		if exportSessionID != "" {
			session := findSession(sessions, exportSessionID)
			if session == nil {
				return fmt.Errorf("session not found: %s (use 'copilot-chat-extractor list' to see available sessions)", exportSessionID)
			}
			sessions = []*internal.ChatSession{session}
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		outDir := exportOut
		if outDir == "" {
			outDir = cfg.ExportDir
		}
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for _, session := range sessions {
			filename := fmt.Sprintf("session_%s.%s", session.SessionID, exporter.Extension())
			path := filepath.Join(outDir, filename)

			file, err := os.Create(path)
			if err != nil {
				internal.LogError("failed to create file %s: %v", path, err)
				continue
			}

			if err := exporter.Export(session, file); err != nil {
				_ = file.Close()
				internal.LogError("failed to export session %s: %v", session.SessionID, err)
				continue
			}

			if err := file.Close(); err != nil {
				internal.LogWarn("failed to close file %s: %v", path, err)
				continue
			}
			exported++
		}

		fmt.Printf("Export complete: %d session(s) exported to %s\n", exported, outDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output directory (default from config)")
	exportCmd.Flags().StringVar(&exportWorkspace, "workspace", "", "Filter by workspace name or id")
	exportCmd.Flags().StringVar(&exportSessionID, "session-id", "", "Export a specific session by ID")
}
