package internal

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// workspaceDescriptor mirrors the workspace.json sidecar the editor writes
// next to each workspace storage folder.
type workspaceDescriptor struct {
	Folder    string `json:"folder"`
	Workspace string `json:"workspace"`
}

// DiscoverWorkspaces scans every located root for per-workspace storage
// folders that hold chat data, either as chatSessions/*.json transcript
// files or as a state.vscdb key-value store. A root that cannot be listed
// contributes zero workspaces; discovery never fails as a whole.
func DiscoverWorkspaces(roots []StorageRoot) []*WorkspaceInfo {
	var workspaces []*WorkspaceInfo
	for _, root := range roots {
		entries, err := os.ReadDir(root.Path)
		if err != nil {
			LogDebug("skipping unreadable root %s: %v", root.Path, err)
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			storagePath := filepath.Join(root.Path, entry.Name())
			ws := inspectWorkspace(root.Variant, entry.Name(), storagePath)
			if ws != nil {
				workspaces = append(workspaces, ws)
			}
		}
	}
	return workspaces
}

// inspectWorkspace examines one candidate workspace folder. It returns nil
// when the folder holds neither transcript files nor a state database.
func inspectWorkspace(variant, id, storagePath string) *WorkspaceInfo {
	files := listSessionFiles(filepath.Join(storagePath, "chatSessions"))

	hasDB := false
	if info, err := os.Stat(filepath.Join(storagePath, "state.vscdb")); err == nil && !info.IsDir() {
		hasDB = true
	}

	if len(files) == 0 && !hasDB {
		return nil
	}

	ws := &WorkspaceInfo{
		WorkspaceID:      id,
		Variant:          variant,
		StoragePath:      storagePath,
		ChatSessionFiles: files,
		HasStateDB:       hasDB,
	}
	resolveProject(ws)
	return ws
}

// listSessionFiles returns the *.json files directly under dir, sorted by
// name. A missing or unreadable dir yields nil.
func listSessionFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files
}

// resolveProject fills ProjectPath/ProjectName from the workspace.json
// sidecar. Missing or malformed descriptors leave both fields unset; the
// workspace is still emitted.
func resolveProject(ws *WorkspaceInfo) {
	data, err := os.ReadFile(filepath.Join(ws.StoragePath, "workspace.json"))
	if err != nil {
		return
	}
	var desc workspaceDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		LogDebug("malformed workspace.json in %s: %v", ws.StoragePath, err)
		return
	}
	uri := desc.Folder
	if uri == "" {
		uri = desc.Workspace
	}
	if uri == "" {
		return
	}
	path := decodeFolderURI(uri)
	if path == "" {
		return
	}
	ws.ProjectPath = path
	ws.ProjectName = filepath.Base(path)
}

// decodeFolderURI strips a file:// scheme prefix and percent-decodes the
// remainder. Values that are already plain paths pass through unchanged.
func decodeFolderURI(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	return path
}
