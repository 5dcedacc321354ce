package internal

import (
	"os"
	"path/filepath"
	"runtime"
)

// Variant identifies one supported editor build by display name and the
// product directory it stores user data under.
type Variant struct {
	Name       string
	ProductDir string
}

// DefaultVariants lists the editor builds whose workspace storage is scanned.
var DefaultVariants = []Variant{
	{Name: "VS Code", ProductDir: "Code"},
	{Name: "VS Code Insiders", ProductDir: "Code - Insiders"},
	{Name: "VSCodium", ProductDir: "VSCodium"},
	{Name: "Cursor", ProductDir: "Cursor"},
	{Name: "Windsurf", ProductDir: "Windsurf"},
}

// Environment carries the ambient inputs the locator needs. Passing it
// explicitly keeps the pipeline a pure function of its inputs and makes the
// locator testable without touching the real home directory.
type Environment struct {
	Home   string
	OS     string // runtime.GOOS value
	Getenv func(string) string
}

// DetectEnvironment builds an Environment from the running process.
func DetectEnvironment() Environment {
	home, err := os.UserHomeDir()
	if err != nil {
		LogDebug("failed to resolve home directory: %v", err)
		home = ""
	}
	return Environment{
		Home:   home,
		OS:     runtime.GOOS,
		Getenv: os.Getenv,
	}
}

// StorageRoot is one existing workspaceStorage directory for a variant.
type StorageRoot struct {
	Variant string
	Path    string
}

// VariantRoot returns the workspaceStorage path for a variant on the
// environment's OS, or "" when the OS is not supported.
func (e Environment) VariantRoot(v Variant) string {
	switch e.OS {
	case "darwin":
		return filepath.Join(e.Home, "Library", "Application Support", v.ProductDir, "User", "workspaceStorage")
	case "linux":
		return filepath.Join(e.Home, ".config", v.ProductDir, "User", "workspaceStorage")
	case "windows":
		appData := ""
		if e.Getenv != nil {
			appData = e.Getenv("APPDATA")
		}
		if appData == "" {
			appData = filepath.Join(e.Home, "AppData", "Roaming")
		}
		return filepath.Join(appData, v.ProductDir, "User", "workspaceStorage")
	default:
		return ""
	}
}

// LocateStorageRoots returns the variant roots that exist on disk. A machine
// with no supported editor installed yields an empty slice, never an error.
func LocateStorageRoots(env Environment, variants []Variant) []StorageRoot {
	var roots []StorageRoot
	for _, v := range variants {
		root := env.VariantRoot(v)
		if root == "" {
			continue
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		roots = append(roots, StorageRoot{Variant: v.Name, Path: root})
	}
	return roots
}
