package engine

import (
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/geoknoesis/rdfstore/internal/codec"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const memoryDSN = ":memory:"

// sqliteBackend stores statements in a single table. Terms are kept in
// N-Triples syntax; the empty string is the default graph.
type sqliteBackend struct {
	db   *sql.DB
	path string
}

func openSQLiteBackend(_ *World, name string, opts map[string]string) (backend, bool, error) {
	path := memoryDSN
	switch {
	case opts["file"] != "":
		path = opts["file"]
	case opts["dir"] != "":
		if name == "" {
			return nil, false, fmt.Errorf("%w: sqlite dir option needs a storage name", ErrBadOptions)
		}
		path = filepath.Join(opts["dir"], name+".db")
	}
	be, err := openSQLite(path)
	if err != nil {
		return nil, false, err
	}
	if boolOption(opts, "new") {
		if err := be.removeAll(); err != nil {
			_ = be.close()
			return nil, false, err
		}
	}
	return be, true, nil
}

func openSQLite(path string) (*sqliteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection keeps a :memory: database alive and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if path != memoryDSN {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}
	return &sqliteBackend{db: db, path: path}, nil
}

func formatGraph(g codec.Term) string {
	if g == nil {
		return ""
	}
	return codec.FormatTerm(g)
}

func (b *sqliteBackend) add(q codec.Quad) (bool, error) {
	res, err := b.db.Exec(`
		INSERT INTO statements (subject, predicate, object, context)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, codec.FormatTerm(q.S), codec.FormatTerm(q.P), codec.FormatTerm(q.O), formatGraph(q.G))
	if err != nil {
		return false, fmt.Errorf("add statement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add statement: %w", err)
	}
	return n > 0, nil
}

func (b *sqliteBackend) remove(q codec.Quad) (bool, error) {
	res, err := b.db.Exec(`
		DELETE FROM statements
		WHERE subject = ? AND predicate = ? AND object = ? AND context = ?
	`, codec.FormatTerm(q.S), codec.FormatTerm(q.P), codec.FormatTerm(q.O), formatGraph(q.G))
	if err != nil {
		return false, fmt.Errorf("remove statement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove statement: %w", err)
	}
	return n > 0, nil
}

func (b *sqliteBackend) find(p pattern) ([]codec.Quad, error) {
	var where []string
	var args []any
	for _, c := range []struct {
		column string
		term   codec.Term
	}{{"subject", p.s}, {"predicate", p.p}, {"object", p.o}} {
		if c.term != nil {
			where = append(where, c.column+" = ?")
			args = append(args, codec.FormatTerm(c.term))
		}
	}
	if !p.anyGraph {
		where = append(where, "context = ?")
		args = append(args, formatGraph(p.g))
	}
	query := "SELECT subject, predicate, object, context FROM statements"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq"

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("find statements: %w", err)
	}
	defer rows.Close()

	var out []codec.Quad
	for rows.Next() {
		var s, pred, o, g string
		if err := rows.Scan(&s, &pred, &o, &g); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		q, err := decodeRow(s, pred, o, g)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func decodeRow(s, p, o, g string) (codec.Quad, error) {
	var q codec.Quad
	var err error
	if q.S, err = codec.ParseTerm(s); err != nil {
		return q, fmt.Errorf("decode subject %q: %w", s, err)
	}
	pred, err := codec.ParseTerm(p)
	if err != nil {
		return q, fmt.Errorf("decode predicate %q: %w", p, err)
	}
	iri, ok := pred.(codec.IRI)
	if !ok {
		return q, fmt.Errorf("decode predicate %q: not an IRI", p)
	}
	q.P = iri
	if q.O, err = codec.ParseTerm(o); err != nil {
		return q, fmt.Errorf("decode object %q: %w", o, err)
	}
	if g != "" {
		if q.G, err = codec.ParseTerm(g); err != nil {
			return q, fmt.Errorf("decode context %q: %w", g, err)
		}
	}
	return q, nil
}

func (b *sqliteBackend) removeGraph(g codec.Term) error {
	if _, err := b.db.Exec("DELETE FROM statements WHERE context = ?", formatGraph(g)); err != nil {
		return fmt.Errorf("remove context: %w", err)
	}
	return nil
}

func (b *sqliteBackend) removeAll() error {
	if _, err := b.db.Exec("DELETE FROM statements"); err != nil {
		return fmt.Errorf("remove all statements: %w", err)
	}
	return nil
}

func (b *sqliteBackend) size() (int, error) {
	var n int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM statements").Scan(&n); err != nil {
		return 0, fmt.Errorf("count statements: %w", err)
	}
	return n, nil
}

func (b *sqliteBackend) graphs() ([]codec.Term, error) {
	rows, err := b.db.Query(`
		SELECT context FROM statements
		WHERE context != ''
		GROUP BY context
		ORDER BY MIN(seq)
	`)
	if err != nil {
		return nil, fmt.Errorf("list contexts: %w", err)
	}
	defer rows.Close()
	var out []codec.Term
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan context: %w", err)
		}
		term, err := codec.ParseTerm(g)
		if err != nil {
			return nil, fmt.Errorf("decode context %q: %w", g, err)
		}
		out = append(out, term)
	}
	return out, rows.Err()
}

func (b *sqliteBackend) sync() error {
	if b.path == memoryDSN {
		return nil
	}
	if _, err := b.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

func (b *sqliteBackend) close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

func (b *sqliteBackend) clone() (backend, error) {
	if b.path != memoryDSN {
		return openSQLite(b.path)
	}
	c, err := openSQLite(memoryDSN)
	if err != nil {
		return nil, err
	}
	all, err := b.find(pattern{anyGraph: true})
	if err != nil {
		_ = c.close()
		return nil, err
	}
	for _, q := range all {
		if _, err := c.add(q); err != nil {
			_ = c.close()
			return nil, err
		}
	}
	return c, nil
}
