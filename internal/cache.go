package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const cacheVersion = "1.0"

// DefaultCacheTTL bounds how long a cached aggregation pass is trusted
// before the pipeline is re-run.
const DefaultCacheTTL = 15 * time.Minute

// CacheManager persists the result of an aggregation pass so list/export
// can skip re-extraction. The core pipeline never reads it; it is purely a
// consumer-side convenience.
type CacheManager struct {
	cacheDir string
	ttl      time.Duration
}

// CacheMetadata stores provenance for the cached index.
type CacheMetadata struct {
	CacheVersion string    `json:"cache_version" yaml:"cache_version"`
	GeneratedAt  time.Time `json:"generated_at" yaml:"generated_at"`
}

// SessionIndexEntry is one session summary in the YAML index.
type SessionIndexEntry struct {
	ID           string    `yaml:"id"`
	Title        string    `yaml:"title,omitempty"`
	MessageCount int       `yaml:"message_count"`
	Workspace    string    `yaml:"workspace,omitempty"`
	ModifiedAt   time.Time `yaml:"modified_at,omitempty"`
	Source       string    `yaml:"source"`
}

// SessionIndex is the YAML index of all cached sessions.
type SessionIndex struct {
	Sessions []SessionIndexEntry `yaml:"sessions"`
	Metadata CacheMetadata       `yaml:"metadata"`
}

// NewCacheManager creates a cache manager rooted at cacheDir.
func NewCacheManager(cacheDir string) *CacheManager {
	return &CacheManager{cacheDir: cacheDir, ttl: DefaultCacheTTL}
}

// EnsureCacheDir ensures the cache directory exists.
func (cm *CacheManager) EnsureCacheDir() error {
	return os.MkdirAll(cm.cacheDir, 0755)
}

// IndexPath returns the path to the session index YAML file.
func (cm *CacheManager) IndexPath() string {
	return filepath.Join(cm.cacheDir, "sessions.yaml")
}

// SessionPath returns the path to a session's cache file.
func (cm *CacheManager) SessionPath(sessionID string) string {
	return filepath.Join(cm.cacheDir, fmt.Sprintf("session_%s.json", sanitizeID(sessionID)))
}

// sanitizeID makes a session id safe to use as a filename component.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}

// IsCacheValid reports whether a cached index exists and is younger than
// the TTL.
func (cm *CacheManager) IsCacheValid() bool {
	index, err := cm.LoadIndex()
	if err != nil {
		return false
	}
	if index.Metadata.CacheVersion != cacheVersion {
		return false
	}
	return time.Since(index.Metadata.GeneratedAt) < cm.ttl
}

// LoadIndex loads the session index.
func (cm *CacheManager) LoadIndex() (*SessionIndex, error) {
	data, err := os.ReadFile(cm.IndexPath())
	if err != nil {
		return nil, err
	}
	var index SessionIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("unmarshal index: %w", err)
	}
	return &index, nil
}

// SaveSessions writes every session to its cache file and rebuilds the
// index.
func (cm *CacheManager) SaveSessions(sessions []*ChatSession) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	index := SessionIndex{
		Sessions: make([]SessionIndexEntry, 0, len(sessions)),
		Metadata: CacheMetadata{
			CacheVersion: cacheVersion,
			GeneratedAt:  time.Now(),
		},
	}

	for _, session := range sessions {
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			LogWarn("failed to marshal session %s: %v", session.SessionID, err)
			continue
		}
		if err := os.WriteFile(cm.SessionPath(session.SessionID), data, 0644); err != nil {
			LogWarn("failed to cache session %s: %v", session.SessionID, err)
			continue
		}
		index.Sessions = append(index.Sessions, SessionIndexEntry{
			ID:           session.SessionID,
			Title:        session.Title,
			MessageCount: len(session.Messages),
			Workspace:    session.WorkspaceName,
			ModifiedAt:   session.ModifiedAt,
			Source:       session.Source,
		})
	}

	data, err := yaml.Marshal(&index)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	return os.WriteFile(cm.IndexPath(), data, 0644)
}

// LoadSession loads a single cached session.
func (cm *CacheManager) LoadSession(sessionID string) (*ChatSession, error) {
	data, err := os.ReadFile(cm.SessionPath(sessionID))
	if err != nil {
		return nil, err
	}
	var session ChatSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// LoadAllSessions loads every session listed in the index, skipping entries
// whose cache file has gone missing.
func (cm *CacheManager) LoadAllSessions() ([]*ChatSession, error) {
	index, err := cm.LoadIndex()
	if err != nil {
		return nil, err
	}
	var sessions []*ChatSession
	for _, entry := range index.Sessions {
		session, err := cm.LoadSession(entry.ID)
		if err != nil {
			LogDebug("cached session %s unavailable: %v", entry.ID, err)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// ClearCache removes the index and every cached session file.
func (cm *CacheManager) ClearCache() error {
	index, err := cm.LoadIndex()
	if err == nil {
		for _, entry := range index.Sessions {
			_ = os.Remove(cm.SessionPath(entry.ID))
		}
	}
	if err := os.Remove(cm.IndexPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
