package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ajaysvasan/neurolearn/internal/model"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.SetMetadata("schema_version", schemaVersion); err != nil {
		return nil, fmt.Errorf("record schema version: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS test_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT 'medium',
		question_count INTEGER NOT NULL DEFAULT 0,
		letter_grade TEXT NOT NULL DEFAULT '',
		score_percent REAL NOT NULL DEFAULT 0,
		report TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		question_number INTEGER NOT NULL,
		question TEXT NOT NULL DEFAULT '',
		correct_answer TEXT NOT NULL,
		user_answer TEXT NOT NULL,
		is_correct INTEGER NOT NULL DEFAULT 0,
		is_skipped INTEGER NOT NULL DEFAULT 0,
		time_taken REAL NOT NULL DEFAULT 0,
		pdf_reference TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (session_id) REFERENCES test_sessions(id)
	);

	CREATE TABLE IF NOT EXISTS test_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateSession stores one analyzed submission: the session row, its
// attempts, and the full report JSON, in a single transaction.
func (s *Store) CreateSession(sess model.TestSession, attempts []model.Attempt, report any) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("marshal report: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	createdAt := sess.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := tx.Exec(
		`INSERT INTO test_sessions (created_at, source, difficulty, question_count, letter_grade, score_percent, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		createdAt, sess.Source, sess.Difficulty, len(attempts), sess.LetterGrade, sess.ScorePercent, string(reportJSON),
	)
	if err != nil {
		return 0, err
	}
	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, a := range attempts {
		_, err := tx.Exec(
			`INSERT INTO attempts (session_id, question_number, question, correct_answer, user_answer, is_correct, is_skipped, time_taken, pdf_reference)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionID, a.QuestionNumber, a.QuestionText, a.CorrectAnswer, a.UserAnswer, a.Correct, a.Skipped, a.TimeTaken, a.Reference,
		)
		if err != nil {
			return 0, err
		}
	}

	return sessionID, tx.Commit()
}

// GetSession returns a session by ID.
func (s *Store) GetSession(id int64) (model.TestSession, error) {
	var sess model.TestSession
	err := s.db.QueryRow(
		`SELECT id, created_at, source, difficulty, question_count, letter_grade, score_percent
		 FROM test_sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.CreatedAt, &sess.Source, &sess.Difficulty, &sess.QuestionCount, &sess.LetterGrade, &sess.ScorePercent)
	return sess, err
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions() ([]model.TestSession, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, source, difficulty, question_count, letter_grade, score_percent
		 FROM test_sessions ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []model.TestSession
	for rows.Next() {
		var sess model.TestSession
		if err := rows.Scan(&sess.ID, &sess.CreatedAt, &sess.Source, &sess.Difficulty, &sess.QuestionCount, &sess.LetterGrade, &sess.ScorePercent); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// GetReport returns the stored report JSON for a session.
func (s *Store) GetReport(sessionID int64) (json.RawMessage, error) {
	var raw string
	err := s.db.QueryRow(`SELECT report FROM test_sessions WHERE id = ?`, sessionID).Scan(&raw)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// GetAttempts returns all attempts for a session in question order.
func (s *Store) GetAttempts(sessionID int64) ([]model.Attempt, error) {
	rows, err := s.db.Query(
		`SELECT question_number, question, correct_answer, user_answer, is_correct, is_skipped, time_taken, pdf_reference
		 FROM attempts WHERE session_id = ? ORDER BY question_number`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.QuestionNumber, &a.QuestionText, &a.CorrectAnswer, &a.UserAnswer, &a.Correct, &a.Skipped, &a.TimeTaken, &a.Reference); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// SessionCount returns the number of stored sessions.
func (s *Store) SessionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM test_sessions`).Scan(&count)
	return count, err
}
