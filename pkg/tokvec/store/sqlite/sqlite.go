// Package sqlite provides a SQLite-backed store.Store. A model is stored
// normalized across five tables so it can be reassembled exactly: header
// row, token dictionary, column dictionary, information weights, and the
// nonzero matrix cells.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/tokvec/pkg/tokvec/cooccur"
	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
	"github.com/cognicore/tokvec/pkg/tokvec/sparse"
	"github.com/cognicore/tokvec/pkg/tokvec/store"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
	"github.com/cognicore/tokvec/pkg/tokvec/vocab"
)

// sqliteStore implements the Store interface using SQLite.
type sqliteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens a SQLite database with WAL mode enabled and creates the
// model tables if they do not exist.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys so deleting a model cascades
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS models (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	window_radius INTEGER NOT NULL,
	orientation TEXT NOT NULL,
	window_function TEXT NOT NULL,
	ngram_size INTEGER NOT NULL,
	token_count INTEGER NOT NULL,
	column_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS model_tokens (
	model_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	kind INTEGER NOT NULL,
	int_val INTEGER,
	float_val REAL,
	str_val TEXT,
	PRIMARY KEY(model_id, idx),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS model_columns (
	model_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	bucket INTEGER NOT NULL,
	PRIMARY KEY(model_id, idx),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS model_column_tokens (
	model_id TEXT NOT NULL,
	col INTEGER NOT NULL,
	position INTEGER NOT NULL,
	kind INTEGER NOT NULL,
	int_val INTEGER,
	float_val REAL,
	str_val TEXT,
	PRIMARY KEY(model_id, col, position),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS model_weights (
	model_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	weight REAL NOT NULL,
	PRIMARY KEY(model_id, idx),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS model_cells (
	model_id TEXT NOT NULL,
	row_idx INTEGER NOT NULL,
	col_idx INTEGER NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY(model_id, row_idx, col_idx),
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// mintID returns a fresh ULID. MonotonicEntropy is not safe for
// concurrent use.
func (s *sqliteStore) mintID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}

// tokenColumns splits a token into its kind tag and one non-NULL value
// column.
func tokenColumns(t token.Token) (int, any, any, any) {
	switch t.Kind() {
	case token.KindInt:
		return int(token.KindInt), t.Int(), nil, nil
	case token.KindFloat:
		return int(token.KindFloat), nil, t.Float(), nil
	default:
		return int(token.KindString), nil, nil, t.Str()
	}
}

// tokenFromColumns rebuilds a token from its kind tag and value columns.
func tokenFromColumns(kind int, intVal sql.NullInt64, floatVal sql.NullFloat64, strVal sql.NullString) (token.Token, error) {
	switch token.Kind(kind) {
	case token.KindInt:
		if !intVal.Valid {
			return token.Token{}, fmt.Errorf("int token with NULL value: %w", internalerr.ErrInvalidInput)
		}
		return token.Int(intVal.Int64), nil
	case token.KindFloat:
		if !floatVal.Valid {
			return token.Token{}, fmt.Errorf("float token with NULL value: %w", internalerr.ErrInvalidInput)
		}
		return token.Float(floatVal.Float64), nil
	case token.KindString:
		if !strVal.Valid {
			return token.Token{}, fmt.Errorf("string token with NULL value: %w", internalerr.ErrInvalidInput)
		}
		return token.Str(strVal.String), nil
	default:
		return token.Token{}, fmt.Errorf("unknown token kind %d: %w", kind, internalerr.ErrInvalidInput)
	}
}

// SaveModel persists a fitted model and returns its assigned ID.
func (s *sqliteStore) SaveModel(ctx context.Context, m *cooccur.Model) (string, error) {
	if m == nil {
		return "", fmt.Errorf("save model: %w", internalerr.ErrInvalidInput)
	}

	id := s.mintID()
	cfg := m.Config()
	dict := m.TokenDictionary()
	columns := m.Columns()
	rows, cols := m.Matrix().Dims()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO models (id, created_at, window_radius, orientation, window_function, ngram_size, token_count, column_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		time.Now().UTC().Format(time.RFC3339),
		cfg.WindowRadius,
		string(cfg.Orientation),
		string(cfg.WindowFunction),
		cfg.NgramSize,
		rows,
		cols,
	)
	if err != nil {
		return "", err
	}

	if err := insertTokens(ctx, tx, id, dict.Tokens()); err != nil {
		return "", err
	}
	if err := insertColumns(ctx, tx, id, columns); err != nil {
		return "", err
	}
	if err := insertWeights(ctx, tx, id, m.InformationWeights()); err != nil {
		return "", err
	}
	if err := insertCells(ctx, tx, id, m.Matrix()); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func insertTokens(ctx context.Context, tx *sql.Tx, id string, toks []token.Token) error {
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO model_tokens (model_id, idx, kind, int_val, float_val, str_val)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range toks {
		kind, iv, fv, sv := tokenColumns(t)
		if _, err := stmt.ExecContext(ctx, id, i, kind, iv, fv, sv); err != nil {
			return err
		}
	}
	return nil
}

func insertColumns(ctx context.Context, tx *sql.Tx, id string, columns []cooccur.ColumnKey) error {
	colStmt, err := tx.PrepareContext(ctx, `
INSERT INTO model_columns (model_id, idx, bucket) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer colStmt.Close()

	tokStmt, err := tx.PrepareContext(ctx, `
INSERT INTO model_column_tokens (model_id, col, position, kind, int_val, float_val, str_val)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tokStmt.Close()

	for ci, key := range columns {
		if _, err := colStmt.ExecContext(ctx, id, ci, int(key.Bucket)); err != nil {
			return err
		}
		for pos, t := range key.Ngram {
			kind, iv, fv, sv := tokenColumns(t)
			if _, err := tokStmt.ExecContext(ctx, id, ci, pos, kind, iv, fv, sv); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertWeights(ctx context.Context, tx *sql.Tx, id string, weights []float64) error {
	if len(weights) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO model_weights (model_id, idx, weight) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, w := range weights {
		if _, err := stmt.ExecContext(ctx, id, i, w); err != nil {
			return err
		}
	}
	return nil
}

func insertCells(ctx context.Context, tx *sql.Tx, id string, m *sparse.CSR) error {
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO model_cells (model_id, row_idx, col_idx, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var insertErr error
	m.NonZero(func(i, j int, v float64) {
		if insertErr != nil {
			return
		}
		if _, err := stmt.ExecContext(ctx, id, i, j, v); err != nil {
			insertErr = err
		}
	})
	return insertErr
}

// GetModel loads a model by ID and reassembles it.
func (s *sqliteStore) GetModel(ctx context.Context, id string) (*cooccur.Model, error) {
	var (
		cfg        cooccur.Config
		orient     string
		fn         string
		tokenCount int
		colCount   int
	)
	err := s.db.QueryRowContext(ctx, `
SELECT window_radius, orientation, window_function, ngram_size, token_count, column_count
FROM models WHERE id = ?`, id).
		Scan(&cfg.WindowRadius, &orient, &fn, &cfg.NgramSize, &tokenCount, &colCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	cfg.Orientation = cooccur.Orientation(orient)
	cfg.WindowFunction = cooccur.WindowFunc(fn)

	dict, err := s.loadDictionary(ctx, id, tokenCount)
	if err != nil {
		return nil, err
	}
	columns, err := s.loadColumns(ctx, id, colCount)
	if err != nil {
		return nil, err
	}
	info, err := s.loadWeights(ctx, id)
	if err != nil {
		return nil, err
	}
	matrix, err := s.loadCells(ctx, id, tokenCount, colCount)
	if err != nil {
		return nil, err
	}

	m, err := cooccur.Restore(cfg, dict, columns, info, matrix)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", id, err)
	}
	return m, nil
}

func (s *sqliteStore) loadDictionary(ctx context.Context, id string, count int) (*vocab.Dictionary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT idx, kind, int_val, float_val, str_val
FROM model_tokens WHERE model_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	toks := make([]token.Token, count)
	for rows.Next() {
		var (
			idx  int
			kind int
			iv   sql.NullInt64
			fv   sql.NullFloat64
			sv   sql.NullString
		)
		if err := rows.Scan(&idx, &kind, &iv, &fv, &sv); err != nil {
			return nil, err
		}
		if idx < 0 || idx >= count {
			return nil, fmt.Errorf("token index %d outside 0..%d: %w", idx, count-1, internalerr.ErrInvalidInput)
		}
		t, err := tokenFromColumns(kind, iv, fv, sv)
		if err != nil {
			return nil, err
		}
		toks[idx] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vocab.FromTokens(toks)
}

func (s *sqliteStore) loadColumns(ctx context.Context, id string, count int) ([]cooccur.ColumnKey, error) {
	columns := make([]cooccur.ColumnKey, count)

	bucketRows, err := s.db.QueryContext(ctx, `
SELECT idx, bucket FROM model_columns WHERE model_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer bucketRows.Close()

	for bucketRows.Next() {
		var idx, bucket int
		if err := bucketRows.Scan(&idx, &bucket); err != nil {
			return nil, err
		}
		if idx < 0 || idx >= count {
			return nil, fmt.Errorf("column index %d outside 0..%d: %w", idx, count-1, internalerr.ErrInvalidInput)
		}
		columns[idx].Bucket = cooccur.Direction(bucket)
	}
	if err := bucketRows.Err(); err != nil {
		return nil, err
	}

	tokRows, err := s.db.QueryContext(ctx, `
SELECT col, position, kind, int_val, float_val, str_val
FROM model_column_tokens WHERE model_id = ? ORDER BY col, position`, id)
	if err != nil {
		return nil, err
	}
	defer tokRows.Close()

	for tokRows.Next() {
		var (
			col, pos int
			kind     int
			iv       sql.NullInt64
			fv       sql.NullFloat64
			sv       sql.NullString
		)
		if err := tokRows.Scan(&col, &pos, &kind, &iv, &fv, &sv); err != nil {
			return nil, err
		}
		if col < 0 || col >= count {
			return nil, fmt.Errorf("column index %d outside 0..%d: %w", col, count-1, internalerr.ErrInvalidInput)
		}
		t, err := tokenFromColumns(kind, iv, fv, sv)
		if err != nil {
			return nil, err
		}
		if pos != len(columns[col].Ngram) {
			return nil, fmt.Errorf("column %d token positions are not contiguous: %w", col, internalerr.ErrInvalidInput)
		}
		columns[col].Ngram = append(columns[col].Ngram, t)
	}
	if err := tokRows.Err(); err != nil {
		return nil, err
	}
	return columns, nil
}

func (s *sqliteStore) loadWeights(ctx context.Context, id string) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT idx, weight FROM model_weights WHERE model_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weights []float64
	for rows.Next() {
		var (
			idx int
			w   float64
		)
		if err := rows.Scan(&idx, &w); err != nil {
			return nil, err
		}
		if idx != len(weights) {
			return nil, fmt.Errorf("weight indices are not contiguous: %w", internalerr.ErrInvalidInput)
		}
		weights = append(weights, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return weights, nil
}

func (s *sqliteStore) loadCells(ctx context.Context, id string, tokenCount, colCount int) (*sparse.CSR, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT row_idx, col_idx, value
FROM model_cells WHERE model_id = ? ORDER BY row_idx, col_idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coo := sparse.NewCOO(tokenCount, colCount)
	for rows.Next() {
		var (
			i, j int
			v    float64
		)
		if err := rows.Scan(&i, &j, &v); err != nil {
			return nil, err
		}
		if i < 0 || i >= tokenCount || j < 0 || j >= colCount {
			return nil, fmt.Errorf("cell (%d,%d) outside %dx%d: %w",
				i, j, tokenCount, colCount, internalerr.ErrInvalidInput)
		}
		coo.Append(i, j, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return coo.ToCSR(), nil
}

// ListModels returns stored model summaries, oldest first.
func (s *sqliteStore) ListModels(ctx context.Context) ([]store.ModelInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, window_radius, orientation, window_function, token_count, column_count
FROM models ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []store.ModelInfo
	for rows.Next() {
		var (
			info    store.ModelInfo
			created string
		)
		err := rows.Scan(&info.ID, &created, &info.WindowRadius,
			&info.Orientation, &info.WindowFunction, &info.Tokens, &info.Columns)
		if err != nil {
			return nil, err
		}
		info.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteModel removes a stored model and its parts.
func (s *sqliteStore) DeleteModel(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	return nil
}
