package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Storage writes crawl reports to a SQLite file
type Storage struct {
	db *sql.DB
}

// NewStorage opens or creates the database and initializes the schema
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// initSchema creates tables and indices if they don't exist
func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id INTEGER PRIMARY KEY AUTOINCREMENT,
		article TEXT NOT NULL,
		max_depth INTEGER NOT NULL,
		percentile INTEGER,
		articles_visited INTEGER NOT NULL,
		total_words INTEGER NOT NULL,
		distinct_words INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS word_counts (
		run_id INTEGER NOT NULL,
		word TEXT NOT NULL,
		count INTEGER NOT NULL,
		percentage REAL NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
		PRIMARY KEY (run_id, word)
	);

	CREATE INDEX IF NOT EXISTS idx_word_counts_count ON word_counts(run_id, count DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores a run and its word table in one transaction.
// Returns the new run_id.
func (s *Storage) SaveRun(run Run, counts map[string]int, percentages map[string]float64) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var percentile sql.NullInt64
	if run.Percentile != nil {
		percentile = sql.NullInt64{Int64: int64(*run.Percentile), Valid: true}
	}

	res, err := tx.Exec(`
		INSERT INTO runs (article, max_depth, percentile, articles_visited, total_words, distinct_words)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.Article, run.MaxDepth, percentile, run.ArticlesVisited, run.TotalWords, len(counts))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve run_id: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO word_counts (run_id, word, count, percentage) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare word insert: %w", err)
	}
	defer stmt.Close()

	for word, n := range counts {
		if _, err := stmt.Exec(id, word, n, percentages[word]); err != nil {
			return 0, fmt.Errorf("failed to insert word %q: %w", word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return int(id), nil
}

// GetRun retrieves a run by id, returns nil if not found
func (s *Storage) GetRun(runID int) (*Run, error) {
	var run Run
	var percentile sql.NullInt64
	err := s.db.QueryRow(`
		SELECT run_id, article, max_depth, percentile, articles_visited, total_words, distinct_words, created_at
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(&run.RunID, &run.Article, &run.MaxDepth, &percentile,
		&run.ArticlesVisited, &run.TotalWords, &run.DistinctWords, &run.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if percentile.Valid {
		p := int(percentile.Int64)
		run.Percentile = &p
	}

	return &run, nil
}

// TopWords returns up to limit words of a run, most frequent first
func (s *Storage) TopWords(runID, limit int) ([]WordCount, error) {
	rows, err := s.db.Query(`
		SELECT run_id, word, count, percentage
		FROM word_counts
		WHERE run_id = ?
		ORDER BY count DESC, word ASC
		LIMIT ?
	`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load words: %w", err)
	}
	defer rows.Close()

	var words []WordCount
	for rows.Next() {
		var wc WordCount
		if err := rows.Scan(&wc.RunID, &wc.Word, &wc.Count, &wc.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, wc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating words: %w", err)
	}

	return words, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}
