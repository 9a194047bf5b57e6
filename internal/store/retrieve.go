// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/section-engine/internal/textutil"
	"github.com/pdiddy/section-engine/pkg/types"
)

// QueryOptions holds parameters for chunk queries.
type QueryOptions struct {
	// Query is matched word by word against the accent-folded chunk text.
	// Every word must occur.
	Query string

	// SectionType filters by section label.
	SectionType string

	// SourceID filters by document.
	SourceID string

	// MaxResults limits result count. Zero uses store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.SectionType == "" && q.SourceID == ""
}

// QueryResult is a stored chunk with its document's taxonomy version.
type QueryResult struct {
	types.Chunk
	TaxonomyVersion string `json:"taxonomy_version" yaml:"taxonomy_version"`
}

// likeEscaper escapes LIKE wildcards; queries use ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Retrieve returns chunks matching opts ordered by document and chunk
// index.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT c.document_id, c.chunk_index, c.section_type, c.start_pos, c.end_pos,
			c.confidence, c.content, d.taxonomy_version
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE 1=1`)

	for _, word := range strings.Fields(textutil.Fold(opts.Query)) {
		qb.WriteString(` AND c.folded LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(word)+"%")
	}

	if opts.SectionType != "" {
		qb.WriteString(` AND c.section_type = ?`)
		args = append(args, opts.SectionType)
	}

	if opts.SourceID != "" {
		qb.WriteString(` AND c.document_id = ?`)
		args = append(args, opts.SourceID)
	}

	qb.WriteString(` ORDER BY c.document_id, c.chunk_index LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying segment store: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var qr QueryResult
		if err := rows.Scan(
			&qr.SourceID, &qr.Index, &qr.SectionType, &qr.StartPos, &qr.EndPos,
			&qr.Confidence, &qr.Content, &qr.TaxonomyVersion,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, qr)
	}

	return results, rows.Err()
}

// SectionCounts returns the number of stored chunks per section type.
func (s *Store) SectionCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section_type, count(*) FROM chunks GROUP BY section_type`)
	if err != nil {
		return nil, fmt.Errorf("counting sections: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}
