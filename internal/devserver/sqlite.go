package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"todo/internal/service"
)

const schema = `CREATE TABLE IF NOT EXISTS todos (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT    NOT NULL,
	description TEXT    NOT NULL DEFAULT '',
	completed   BOOLEAN NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
)`

// SQLiteRepository stores todos in a SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, completed, created_at, updated_at FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Get(ctx context.Context, id int) (Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, completed, created_at, updated_at FROM todos WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrTodoNotFound
	}
	return rec, err
}

func (r *SQLiteRepository) Create(ctx context.Context, todo service.NewTodo) (Record, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (title, description, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		todo.Title, todo.Description, todo.Completed, now, now)
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("failed to read id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *SQLiteRepository) Update(ctx context.Context, id int, updates service.TodoUpdate) (Record, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	t := updates.Apply(rec.Todo())
	if _, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Description, t.Completed, time.Now().UTC(), id); err != nil {
		return Record{}, fmt.Errorf("failed to update: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var rec Record
	if err := s.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.Completed, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}
