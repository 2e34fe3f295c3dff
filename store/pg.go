package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"moatrack/record"
)

// PG implements record.Store over a PostgreSQL moa_records table treated as
// a flat document collection: client-generated keys, partial-merge updates,
// and a notify trigger feeding the live snapshot hub. It performs no
// retries; every failure crosses the boundary as a *record.StoreError.
type PG struct {
	pool  *pgxpool.Pool
	idGen func() string
	hub   *Hub
}

func NewPG(pool *pgxpool.Pool) *PG {
	pg := &PG{
		pool:  pool,
		idGen: func() string { return uuid.NewString() },
	}
	pg.hub = NewHub(pool, pg.FetchAll)
	return pg
}

// WithIDGen replaces the document key generator, for deterministic tests.
func (s *PG) WithIDGen(idGen func() string) *PG {
	s.idGen = idGen
	return s
}

func (s *PG) FetchAll(ctx context.Context) ([]record.Record, error) {
	return s.fetch(ctx, `SELECT`+selectColumns+` FROM moa_records ORDER BY created_at DESC`)
}

func (s *PG) FetchByStatus(ctx context.Context, status record.Status) ([]record.Record, error) {
	return s.fetch(ctx, `SELECT`+selectColumns+` FROM moa_records WHERE status = $1 ORDER BY created_at DESC`, string(status))
}

func (s *PG) fetch(ctx context.Context, query string, args ...any) ([]record.Record, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &record.StoreError{Op: "fetch", Err: err}
	}
	defer rows.Close()

	records := make([]record.Record, 0, 16)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, &record.StoreError{Op: "fetch", Err: fmt.Errorf("scan: %w", err)}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &record.StoreError{Op: "fetch", Err: err}
	}
	return records, nil
}

func (s *PG) Create(ctx context.Context, fields record.Fields) (string, error) {
	id := s.idGen()

	columns := []string{"id"}
	values := []any{id}
	for _, field := range sortedFields(fields) {
		column, ok := columnByField[field]
		if !ok {
			return "", &record.StoreError{Op: "create", Err: fmt.Errorf("unknown field %q", field)}
		}
		v, err := columnValue(field, fields[field])
		if err != nil {
			return "", &record.StoreError{Op: "create", Err: err}
		}
		columns = append(columns, column)
		values = append(values, v)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO moa_records (%s) VALUES (%s)`,
		strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if _, err := s.pool.Exec(ctx, query, values...); err != nil {
		return "", &record.StoreError{Op: "create", Err: err}
	}
	return id, nil
}

// Update merges the supplied fields into the stored document. Omitted
// attributes keep their stored values; a nil value writes NULL.
func (s *PG) Update(ctx context.Context, id string, fields record.Fields) error {
	if len(fields) == 0 {
		return nil
	}

	sets := make([]string, 0, len(fields)+1)
	values := make([]any, 0, len(fields)+1)
	for _, field := range sortedFields(fields) {
		column, ok := columnByField[field]
		if !ok {
			return &record.StoreError{Op: "update", Err: fmt.Errorf("unknown field %q", field)}
		}
		v, err := columnValue(field, fields[field])
		if err != nil {
			return &record.StoreError{Op: "update", Err: err}
		}
		values = append(values, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(values)))
	}
	sets = append(sets, "updated_at = now()")

	values = append(values, id)
	query := fmt.Sprintf(`UPDATE moa_records SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(values))

	tag, err := s.pool.Exec(ctx, query, values...)
	if err != nil {
		return &record.StoreError{Op: "update", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &record.StoreError{Op: "update", Err: record.ErrNotFound}
	}
	return nil
}

func (s *PG) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM moa_records WHERE id = $1`, id)
	if err != nil {
		return &record.StoreError{Op: "delete", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &record.StoreError{Op: "delete", Err: record.ErrNotFound}
	}
	return nil
}

func (s *PG) Subscribe(ctx context.Context) (<-chan []record.Record, func(), error) {
	return s.hub.Subscribe(ctx)
}

// sortedFields fixes the attribute iteration order so generated SQL is
// stable across calls.
func sortedFields(fields record.Fields) []string {
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}
