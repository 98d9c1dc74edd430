package db

import (
	"database/sql"
	"time"
)

// GetValue returns the value stored under key, or ("", false) if absent.
func GetValue(database *sql.DB, key string) (string, bool, error) {
	var value string
	err := database.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetValue upserts a value under key. The write is a single statement, so a
// record is either fully present or absent, never partial.
func SetValue(database *sql.DB, key, value string) error {
	_, err := database.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// DeleteValue removes the value stored under key. Missing keys are not an error.
func DeleteValue(database *sql.DB, key string) error {
	_, err := database.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Turn is one entry of the conversation history.
type Turn struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// InsertTurn appends a turn to the conversation history.
func InsertTurn(database *sql.DB, t *Turn) error {
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().UnixMilli()
	}
	_, err := database.Exec(`
		INSERT INTO turns (id, role, content, created_at)
		VALUES (?, ?, ?, ?)`,
		t.ID, t.Role, t.Content, t.CreatedAt)
	return err
}

// RecentTurns returns up to limit most recent turns in chronological order.
func RecentTurns(database *sql.DB, limit int) ([]Turn, error) {
	rows, err := database.Query(`
		SELECT id, role, content, created_at FROM turns
		ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// ClearTurns removes all conversation history.
func ClearTurns(database *sql.DB) error {
	_, err := database.Exec(`DELETE FROM turns`)
	return err
}
