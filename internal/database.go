package internal

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// chatKeyPatterns are the substrings that mark an ItemTable key as chat
// related. Patterns are OR-combined; matching is a plain case-sensitive
// substring test, mirroring the key families the editors have used over
// time.
var chatKeyPatterns = []string{
	"chat",
	"interactive",
	"copilot",
	"composer",
	"session",
}

// KVEntry is one key/value row from the state database.
type KVEntry struct {
	Key   string
	Value string
}

// OpenStateDB opens a state.vscdb file read-only and verifies the
// connection. Callers own the returned handle and must close it.
func OpenStateDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return db, nil
}

// QueryChatEntries returns the ItemTable rows whose key matches any chat
// key pattern, in key order. NULL values are dropped.
func QueryChatEntries(db *sql.DB) ([]KVEntry, error) {
	conditions := make([]string, 0, len(chatKeyPatterns))
	args := make([]interface{}, 0, len(chatKeyPatterns))
	for _, pattern := range chatKeyPatterns {
		conditions = append(conditions, "key LIKE ?")
		args = append(args, "%"+pattern+"%")
	}

	query := fmt.Sprintf(
		"SELECT key, value FROM ItemTable WHERE (%s) AND value IS NOT NULL ORDER BY key",
		strings.Join(conditions, " OR "),
	)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ItemTable: %w", err)
	}
	defer rows.Close()

	var entries []KVEntry
	for rows.Next() {
		var entry KVEntry
		var value sql.NullString
		if err := rows.Scan(&entry.Key, &value); err != nil {
			return nil, fmt.Errorf("scan ItemTable row: %w", err)
		}
		if value.Valid {
			entry.Value = value.String
			entries = append(entries, entry)
		}
	}
	return entries, rows.Err()
}
