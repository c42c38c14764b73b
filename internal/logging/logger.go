package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type CompletionLog struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	GameState string    `json:"game_state"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Metadata  string    `json:"metadata"`
	Rating    *int      `json:"rating,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}

type CompletionMetadata struct {
	Model        string        `json:"model"`
	Operation    string        `json:"operation"`
	MaxTokens    int           `json:"max_tokens"`
	ResponseTime time.Duration `json:"response_time_ms"`
	Error        *string       `json:"error,omitempty"`
}

// CompletionLogger records every LLM exchange to SQLite for later review.
type CompletionLogger struct {
	db *sql.DB
}

func NewCompletionLogger() (*CompletionLogger, error) {
	db, err := sql.Open("sqlite3", "./completions.db")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger := &CompletionLogger{db: db}
	if err := logger.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return logger, nil
}

func (cl *CompletionLogger) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS completions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		session_id TEXT NOT NULL DEFAULT '',
		game_state TEXT NOT NULL,
		prompt TEXT NOT NULL,
		response TEXT NOT NULL,
		metadata TEXT NOT NULL,
		rating INTEGER,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_completions_timestamp ON completions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_completions_session ON completions(session_id);
	`

	_, err := cl.db.Exec(schema)
	return err
}

func (cl *CompletionLogger) LogCompletion(
	sessionID string,
	gameState interface{},
	prompt string,
	response string,
	metadata CompletionMetadata,
) error {
	gameStateJson, err := json.Marshal(gameState)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	metadataJson, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = cl.db.Exec(`
		INSERT INTO completions (session_id, game_state, prompt, response, metadata)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, string(gameStateJson), prompt, response, string(metadataJson))

	return err
}

func (cl *CompletionLogger) GetRecentCompletions(limit int) ([]CompletionLog, error) {
	rows, err := cl.db.Query(`
		SELECT id, timestamp, session_id, game_state, prompt, response, metadata, rating, notes
		FROM completions
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var completions []CompletionLog
	for rows.Next() {
		var c CompletionLog
		if err := rows.Scan(&c.ID, &c.Timestamp, &c.SessionID, &c.GameState, &c.Prompt, &c.Response, &c.Metadata, &c.Rating, &c.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}

func (cl *CompletionLogger) RateCompletion(id int, rating int, notes string) error {
	var notesValue interface{}
	if notes != "" {
		notesValue = notes
	}

	result, err := cl.db.Exec(`
		UPDATE completions SET rating = ?, notes = ? WHERE id = ?
	`, rating, notesValue, id)
	if err != nil {
		return fmt.Errorf("failed to rate completion: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no completion with id %d", id)
	}

	return nil
}

func (cl *CompletionLogger) Close() error {
	return cl.db.Close()
}
