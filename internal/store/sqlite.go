package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobdigest/internal/model"
)

// Ensure SQLiteStore implements model.DigestStore.
var _ model.DigestStore = (*SQLiteStore)(nil)

// ErrNotFound is returned when a digest id does not exist.
var ErrNotFound = errors.New("digest not found")

// timestamps are stored as RFC 3339 text so they sort and round-trip exactly.
const timeLayout = time.RFC3339Nano

// SQLiteStore keeps digest history and the completion log in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and applies
// any pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// SaveDigest stores d and its records in one transaction and returns the new id.
func (s *SQLiteStore) SaveDigest(d model.Digest) (id int64, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin save digest: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.Exec(
		"INSERT INTO digests (generated_at, record_count, skipped, html) VALUES (?, ?, ?, ?)",
		d.GeneratedAt.UTC().Format(timeLayout), len(d.Records), d.Skipped, d.HTML,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting digest: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading digest id: %w", err)
	}

	for i, r := range d.Records {
		_, err = tx.Exec(
			"INSERT INTO records (digest_id, position, title, description, link) VALUES (?, ?, ?, ?, ?)",
			id, i, r.Title, r.Description, r.Link,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting record %d of digest %d: %w", i, id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit digest: %w", err)
	}
	return id, nil
}

// MarkDelivered flags the digest as sent.
func (s *SQLiteStore) MarkDelivered(id int64) error {
	res, err := s.db.Exec("UPDATE digests SET delivered = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking digest %d delivered: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking digest %d delivered: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("digest %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListDigests returns up to limit digests, newest first. A limit of zero or
// less returns all of them.
func (s *SQLiteStore) ListDigests(limit int) ([]model.DigestSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		"SELECT id, generated_at, record_count, delivered FROM digests ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing digests: %w", err)
	}
	defer rows.Close()

	var out []model.DigestSummary
	for rows.Next() {
		var (
			sum       model.DigestSummary
			generated string
			delivered int
		)
		if err := rows.Scan(&sum.ID, &generated, &sum.RecordCount, &delivered); err != nil {
			return nil, fmt.Errorf("scanning digest: %w", err)
		}
		if sum.GeneratedAt, err = time.Parse(timeLayout, generated); err != nil {
			return nil, fmt.Errorf("parsing generated_at of digest %d: %w", sum.ID, err)
		}
		sum.Delivered = delivered != 0
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing digests: %w", err)
	}
	return out, nil
}

// LoadRecords returns the records of digest id in their original order.
func (s *SQLiteStore) LoadRecords(id int64) ([]model.JobRecord, error) {
	rows, err := s.db.Query(
		"SELECT title, description, link FROM records WHERE digest_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("loading records of digest %d: %w", id, err)
	}
	defer rows.Close()

	var out []model.JobRecord
	for rows.Next() {
		var r model.JobRecord
		if err := rows.Scan(&r.Title, &r.Description, &r.Link); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading records of digest %d: %w", id, err)
	}
	return out, nil
}

// LoadHTML returns the stored document of digest id.
func (s *SQLiteStore) LoadHTML(id int64) (string, error) {
	var html string
	err := s.db.QueryRow("SELECT html FROM digests WHERE id = ?", id).Scan(&html)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("digest %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("loading html of digest %d: %w", id, err)
	}
	return html, nil
}

// SaveCompletion appends a prompt/completion pair to the log.
func (s *SQLiteStore) SaveCompletion(e model.CompletionEntry) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.Exec(
		"INSERT INTO completions (prompt, completion, created_at) VALUES (?, ?, ?)",
		e.Prompt, e.Completion, created.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving completion: %w", err)
	}
	return nil
}

// ListCompletions returns every logged pair, oldest first.
func (s *SQLiteStore) ListCompletions() ([]model.CompletionEntry, error) {
	rows, err := s.db.Query("SELECT prompt, completion, created_at FROM completions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	var out []model.CompletionEntry
	for rows.Next() {
		var (
			e       model.CompletionEntry
			created string
		)
		if err := rows.Scan(&e.Prompt, &e.Completion, &created); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
