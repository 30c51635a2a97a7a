package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores documents as JSONB rows in the pos_documents table. Range
// queries lean on the doc_instant SQL helper (see migrations/0001_documents.sql)
// so that string and epoch-number timestamps both participate, matching the
// lenient reads the engine performs in Go.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// RangeQuery implements Store.
func (p *Postgres) RangeQuery(ctx context.Context, partition, field string, start, end time.Time) ([]Document, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT doc_id, doc
		FROM pos_documents
		WHERE partition = $1
		  AND doc_instant(doc -> $2::text) >= $3
		  AND doc_instant(doc -> $2::text) < $4`,
		partition, field, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("docstore: range query %s.%s: %w", partition, field, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("docstore: scan %s: %w", partition, err)
		}
		fields := make(map[string]any)
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("docstore: decode %s/%s: %w", partition, id, err)
		}
		out = append(out, Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: range query %s.%s: %w", partition, field, err)
	}
	return out, nil
}

// MergeSet implements Store. The JSONB concatenation keeps fields that are
// not part of this write, and ServerTimestamp markers become now() assigned
// by the database.
func (p *Postgres) MergeSet(ctx context.Context, key Key, fields map[string]any) error {
	plain := make(map[string]any, len(fields))
	var serverFields []string
	for k, v := range fields {
		if _, isMarker := v.(serverTimestamp); isMarker {
			serverFields = append(serverFields, k)
			continue
		}
		plain[k] = v
	}
	payload, err := json.Marshal(plain)
	if err != nil {
		return fmt.Errorf("docstore: encode %s/%s: %w", key.Partition, key.ID(), err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO pos_documents (partition, doc_id, doc)
		VALUES ($1, $2,
			$3::jsonb || (
				SELECT COALESCE(
					jsonb_object_agg(f, to_jsonb(to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US"Z"'))),
					'{}'::jsonb)
				FROM unnest($4::text[]) AS f))
		ON CONFLICT (partition, doc_id)
		DO UPDATE SET doc = pos_documents.doc || EXCLUDED.doc`,
		key.Partition, key.ID(), payload, serverFields)
	if err != nil {
		return fmt.Errorf("docstore: merge set %s/%s: %w", key.Partition, key.ID(), err)
	}
	return nil
}
