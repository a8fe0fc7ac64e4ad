package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStorage{
		db:   db,
		path: dbPath,
	}, nil
}

// Initialize creates the database schema.
func (s *SQLiteStorage) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS personas (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		directive TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exports (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		format TEXT NOT NULL,
		filename TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exports_session_id ON exports(session_id);
	CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SavePersona inserts or replaces a custom persona.
func (s *SQLiteStorage) SavePersona(p *Persona) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO personas (id, name, description, directive, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description, directive = excluded.directive
	`

	_, err := s.db.Exec(query, p.ID, p.Name, p.Description, p.Directive, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save persona: %w", err)
	}
	return nil
}

// GetPersona retrieves a custom persona by ID. Returns nil if not found.
func (s *SQLiteStorage) GetPersona(id string) (*Persona, error) {
	query := `SELECT id, name, description, directive, created_at FROM personas WHERE id = ?`

	var p Persona
	err := s.db.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Directive, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get persona: %w", err)
	}
	return &p, nil
}

// ListPersonas returns all stored custom personas.
func (s *SQLiteStorage) ListPersonas() ([]*Persona, error) {
	query := `SELECT id, name, description, directive, created_at FROM personas ORDER BY created_at`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	defer rows.Close()

	var personas []*Persona
	for rows.Next() {
		var p Persona
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Directive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan persona: %w", err)
		}
		personas = append(personas, &p)
	}
	return personas, rows.Err()
}

// DeletePersona removes a custom persona.
func (s *SQLiteStorage) DeletePersona(id string) error {
	_, err := s.db.Exec(`DELETE FROM personas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete persona: %w", err)
	}
	return nil
}

// RecordExport records a completed export.
func (s *SQLiteStorage) RecordExport(rec *ExportRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `INSERT INTO exports (id, session_id, format, filename, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query, rec.ID, rec.SessionID, rec.Format, rec.Filename, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// ListExports returns recent exports, newest first.
func (s *SQLiteStorage) ListExports(limit int) ([]*ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, session_id, format, filename, created_at FROM exports ORDER BY created_at DESC LIMIT ?`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	var records []*ExportRecord
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Format, &rec.Filename, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// DefaultDBPath returns the default database file path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rostrum.db"
	}
	return filepath.Join(home, ".rostrum", "rostrum.db")
}
