package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	ActionSongCreated     = "song_created"
	ActionSongUpdated     = "song_updated"
	ActionSongDeleted     = "song_deleted"
	ActionRedirectAdded   = "redirect_added"
	ActionRedirectDeleted = "redirect_deleted"
)

// fixed width so that text order is time order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one admin change to the catalog or the redirects
type Entry struct {
	ID     string    `json:"id"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Detail string    `json:"detail"`
	At     time.Time `json:"at"`
}

type AuditLog struct {
	database *sql.DB
}

func NewAuditLog(database *sql.DB) *AuditLog {
	return &AuditLog{database: database}
}

func (a *AuditLog) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS audit_log (
			id TEXT PRIMARY KEY,
			actor TEXT NOT NULL,
			action TEXT NOT NULL,
			target TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			at TEXT NOT NULL
		)
	`
	if _, err := a.database.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create audit_log table: %w", err)
	}
	return nil
}

func (a *AuditLog) Record(ctx context.Context, entry Entry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	query := `INSERT INTO audit_log (id, actor, action, target, detail, at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := a.database.ExecContext(ctx, query,
		entry.ID,
		entry.Actor,
		entry.Action,
		entry.Target,
		entry.Detail,
		entry.At.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first
func (a *AuditLog) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	rows, err := a.database.QueryContext(ctx,
		`SELECT id, actor, action, target, detail, at FROM audit_log ORDER BY at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var at string
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.Target, &entry.Detail, &at); err != nil {
			log.Printf("error scanning row: %v", err)
			continue
		}
		entry.At, err = time.Parse(timeLayout, at)
		if err != nil {
			log.Printf("error parsing audit time %q: %v", at, err)
			continue
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}

	return entries, nil
}
