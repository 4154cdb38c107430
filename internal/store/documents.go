package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ideaspark/wireframe/internal/typeid"
)

type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Snapshot struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"documentId"`
	Version    int             `json:"version"`
	Data       json.RawMessage `json:"data,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (db *DB) CreateDocument(ctx context.Context, name string) (*Document, error) {
	now := time.Now().UTC()
	doc := &Document{ID: typeid.NewDocumentID(), Name: name, CreatedAt: now, UpdatedAt: now}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO documents (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

func (db *DB) GetDocument(ctx context.Context, id string) (*Document, error) {
	doc := &Document{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Name, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns every document, most recently updated first.
func (db *DB) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM documents ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and all of its snapshots.
func (db *DB) DeleteDocument(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// SaveSnapshot stores data as the next version of the document and prunes
// versions older than the retention window.
func (db *DB) SaveSnapshot(ctx context.Context, documentID string, data []byte) (*Snapshot, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE id = ?`, documentID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check document: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}

	var latest int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM snapshots WHERE document_id = ?`, documentID,
	).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("latest version: %w", err)
	}

	now := time.Now().UTC()
	snap := &Snapshot{
		ID:         typeid.NewSnapshotID(),
		DocumentID: documentID,
		Version:    latest + 1,
		Data:       json.RawMessage(data),
		CreatedAt:  now,
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, document_id, version, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.DocumentID, snap.Version, string(data), snap.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE documents SET updated_at = ? WHERE id = ?`, now, documentID); err != nil {
		return nil, fmt.Errorf("touch document: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE document_id = ? AND version <= ?`,
		documentID, snap.Version-SnapshotRetention,
	)
	if err != nil {
		return nil, fmt.Errorf("prune snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return snap, nil
}

func (db *DB) LatestSnapshot(ctx context.Context, documentID string) (*Snapshot, error) {
	snap := &Snapshot{}
	var data string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, document_id, version, data, created_at FROM snapshots
		 WHERE document_id = ? ORDER BY version DESC LIMIT 1`, documentID,
	).Scan(&snap.ID, &snap.DocumentID, &snap.Version, &data, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot for %s: %w", documentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	snap.Data = json.RawMessage(data)
	return snap, nil
}

// ListSnapshots returns snapshot metadata, newest first. Data is not loaded.
func (db *DB) ListSnapshots(ctx context.Context, documentID string) ([]Snapshot, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, document_id, version, created_at FROM snapshots
		 WHERE document_id = ? ORDER BY version DESC`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.DocumentID, &s.Version, &s.CreatedAt); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

// Load returns the latest snapshot data of a document.
func (db *DB) Load(ctx context.Context, id string) ([]byte, error) {
	snap, err := db.LatestSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return snap.Data, nil
}

// Save stores data as a new snapshot of a document.
func (db *DB) Save(ctx context.Context, id string, data []byte) error {
	_, err := db.SaveSnapshot(ctx, id, data)
	return err
}
