// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists segmentations in SQLite and answers chunk queries
// by section type, document and text.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/section-engine/internal/batch"
	"github.com/pdiddy/section-engine/internal/textutil"
	"github.com/pdiddy/section-engine/pkg/types"
)

const (
	indexDir       = "index"
	dbFile         = "segments.db"
	segmentsSuffix = "-segments.yaml"

	defaultMaxResults = 20
)

// Store manages the segment database.
type Store struct {
	db         *sql.DB
	dataDir    string
	docsDir    string
	maxResults int
}

// NewStore opens or creates the database at dataDir/index/segments.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		docsDir:    cfg.DocsDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			taxonomy_version TEXT,
			length INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS boundaries (
			document_id TEXT NOT NULL REFERENCES documents(id),
			position INTEGER NOT NULL,
			section_type TEXT NOT NULL,
			confidence REAL,
			source TEXT,
			PRIMARY KEY (document_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			document_id TEXT NOT NULL REFERENCES documents(id),
			chunk_index INTEGER NOT NULL,
			section_type TEXT NOT NULL,
			start_pos INTEGER NOT NULL,
			end_pos INTEGER NOT NULL,
			confidence REAL,
			content TEXT NOT NULL,
			folded TEXT NOT NULL,
			PRIMARY KEY (document_id, chunk_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_section_type ON chunks(section_type)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			document_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of documents processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads segments files from docsDir/segments/ and loads them into
// the database. Files whose modification time matches the last indexing
// run are skipped; changed files replace the stored document. After any
// change it refreshes the YAML export.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	segDir := filepath.Join(s.docsDir, batch.SegmentsDir)

	entries, err := os.ReadDir(segDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading segments directory %s: %w", segDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), segmentsSuffix) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		docID := strings.TrimSuffix(entry.Name(), segmentsSuffix)

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE document_id = ?`, docID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", docID)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		seg, err := batch.ReadSegmentation(filepath.Join(segDir, entry.Name()))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		if seg.SourceID == "" {
			seg.SourceID = docID
		}

		if err := s.Put(ctx, docID, seg, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d chunks)\n", docID, len(seg.Chunks))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d chunks)\n", docID, len(seg.Chunks))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if _, err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

// Put stores seg under docID, replacing any earlier version, and records
// modTime as the source file's indexing state. Chunks keep the document's
// id as their source id.
func (s *Store) Put(ctx context.Context, docID string, seg types.Segmentation, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM chunks WHERE document_id = ?`,
		`DELETE FROM boundaries WHERE document_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, docID); err != nil {
			return fmt.Errorf("deleting old rows: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, taxonomy_version, length) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			taxonomy_version=excluded.taxonomy_version, length=excluded.length`,
		docID, seg.TaxonomyVersion, seg.Length,
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	bstmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO boundaries (document_id, position, section_type, confidence, source)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing boundary insert: %w", err)
	}
	defer bstmt.Close()

	for _, b := range seg.Boundaries {
		if _, err := bstmt.ExecContext(ctx, docID, b.Position, b.SectionType, b.Confidence, string(b.Source)); err != nil {
			return fmt.Errorf("inserting boundary at %d: %w", b.Position, err)
		}
	}

	cstmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO chunks (document_id, chunk_index, section_type, start_pos, end_pos, confidence, content, folded)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer cstmt.Close()

	for _, c := range seg.Chunks {
		_, err := cstmt.ExecContext(ctx,
			docID, c.Index, c.SectionType, c.StartPos, c.EndPos, c.Confidence,
			c.Content, textutil.Fold(c.Content),
		)
		if err != nil {
			return fmt.Errorf("inserting chunk %d: %w", c.Index, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (document_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(document_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		docID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// Boundaries returns the stored boundaries of a document in position order.
func (s *Store) Boundaries(ctx context.Context, docID string) ([]types.Boundary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, section_type, confidence, source FROM boundaries
		 WHERE document_id = ? ORDER BY position`, docID)
	if err != nil {
		return nil, fmt.Errorf("querying boundaries: %w", err)
	}
	defer rows.Close()

	var out []types.Boundary
	for rows.Next() {
		var (
			b      types.Boundary
			source sql.NullString
		)
		if err := rows.Scan(&b.Position, &b.SectionType, &b.Confidence, &source); err != nil {
			return nil, fmt.Errorf("scanning boundary: %w", err)
		}
		b.Source = types.BoundarySource(source.String)
		out = append(out, b)
	}
	return out, rows.Err()
}
