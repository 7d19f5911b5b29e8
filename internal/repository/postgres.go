package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jaekwang-park/todo-lists/internal/model"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS todo_lists (
	id  TEXT PRIMARY KEY,
	seq BIGSERIAL NOT NULL,
	doc JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS todo_items (
	id      TEXT PRIMARY KEY,
	list_id TEXT NOT NULL,
	seq     BIGSERIAL NOT NULL,
	doc     JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS todo_items_list_seq_idx ON todo_items (list_id, seq);`

// NewDB opens and pings a PostgreSQL connection pool.
func NewDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// PostgresStore keeps each list and item as a JSONB document. There is no
// foreign key between the two tables; list existence for item writes is
// checked inside the insert transaction.
type PostgresStore struct {
	db    *sqlx.DB
	newID func() string
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db, newID: uuid.NewString}
}

// Migrate creates the document tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// --- lists ---

func (s *PostgresStore) ListLists(ctx context.Context, page model.Page) ([]model.TodoList, error) {
	query := `SELECT doc FROM todo_lists ORDER BY seq OFFSET $1 LIMIT $2`

	var docs [][]byte
	if err := s.db.SelectContext(ctx, &docs, query, page.Offset(), page.Limit()); err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return decodeDocs[model.TodoList](docs)
}

func (s *PostgresStore) GetList(ctx context.Context, listID string) (model.TodoList, error) {
	var doc []byte
	err := s.db.GetContext(ctx, &doc, `SELECT doc FROM todo_lists WHERE id = $1`, listID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TodoList{}, ErrNotFound
		}
		return model.TodoList{}, fmt.Errorf("failed to get list: %w", err)
	}

	var list model.TodoList
	if err := json.Unmarshal(doc, &list); err != nil {
		return model.TodoList{}, fmt.Errorf("failed to decode list: %w", err)
	}
	return list, nil
}

func (s *PostgresStore) CreateList(ctx context.Context, list model.TodoList) (model.TodoList, error) {
	list.ID = s.newID()
	doc, err := json.Marshal(list)
	if err != nil {
		return model.TodoList{}, fmt.Errorf("failed to encode list: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO todo_lists (id, doc) VALUES ($1, $2::jsonb)`,
		list.ID, string(doc),
	)
	if err != nil {
		return model.TodoList{}, fmt.Errorf("failed to insert list: %w", err)
	}
	return list, nil
}

func (s *PostgresStore) UpdateList(ctx context.Context, list model.TodoList) (model.TodoList, error) {
	doc, err := json.Marshal(list)
	if err != nil {
		return model.TodoList{}, fmt.Errorf("failed to encode list: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE todo_lists SET doc = $2::jsonb WHERE id = $1`,
		list.ID, string(doc),
	)
	if err := affectedOne(result, err, "update list"); err != nil {
		return model.TodoList{}, err
	}
	return list, nil
}

func (s *PostgresStore) DeleteList(ctx context.Context, listID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todo_lists WHERE id = $1`, listID)
	return affectedOne(result, err, "delete list")
}

// --- items ---

func (s *PostgresStore) ListItems(ctx context.Context, listID string, page model.Page) ([]model.TodoItem, error) {
	query := `
		SELECT doc FROM todo_items
		WHERE list_id = $1
		ORDER BY seq OFFSET $2 LIMIT $3`

	var docs [][]byte
	if err := s.db.SelectContext(ctx, &docs, query, listID, page.Offset(), page.Limit()); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return decodeDocs[model.TodoItem](docs)
}

func (s *PostgresStore) ListItemsByState(ctx context.Context, listID, state string, page model.Page) ([]model.TodoItem, error) {
	query := `
		SELECT doc FROM todo_items
		WHERE list_id = $1 AND doc->>'state' = $2
		ORDER BY seq OFFSET $3 LIMIT $4`

	var docs [][]byte
	if err := s.db.SelectContext(ctx, &docs, query, listID, state, page.Offset(), page.Limit()); err != nil {
		return nil, fmt.Errorf("failed to list items by state: %w", err)
	}
	return decodeDocs[model.TodoItem](docs)
}

func (s *PostgresStore) GetItem(ctx context.Context, listID, itemID string) (model.TodoItem, error) {
	var doc []byte
	err := s.db.GetContext(ctx, &doc,
		`SELECT doc FROM todo_items WHERE list_id = $1 AND id = $2`,
		listID, itemID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TodoItem{}, ErrNotFound
		}
		return model.TodoItem{}, fmt.Errorf("failed to get item: %w", err)
	}

	var item model.TodoItem
	if err := json.Unmarshal(doc, &item); err != nil {
		return model.TodoItem{}, fmt.Errorf("failed to decode item: %w", err)
	}
	return item, nil
}

// CreateItem holds a share lock on the parent list row for the duration of
// the insert, so the list cannot be deleted underneath it.
func (s *PostgresStore) CreateItem(ctx context.Context, item model.TodoItem) (model.TodoItem, error) {
	item.ID = s.newID()
	doc, err := json.Marshal(item)
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("failed to encode item: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.GetContext(ctx, &exists, `SELECT 1 FROM todo_lists WHERE id = $1 FOR SHARE`, item.ListID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TodoItem{}, ErrParentNotFound
		}
		return model.TodoItem{}, fmt.Errorf("failed to lock list: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO todo_items (id, list_id, doc) VALUES ($1, $2, $3::jsonb)`,
		item.ID, item.ListID, string(doc),
	)
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("failed to insert item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.TodoItem{}, fmt.Errorf("failed to commit item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) UpdateItem(ctx context.Context, item model.TodoItem) (model.TodoItem, error) {
	doc, err := json.Marshal(item)
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("failed to encode item: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE todo_items SET doc = $3::jsonb WHERE list_id = $1 AND id = $2`,
		item.ListID, item.ID, string(doc),
	)
	if err := affectedOne(result, err, "update item"); err != nil {
		return model.TodoItem{}, err
	}
	return item, nil
}

func (s *PostgresStore) DeleteItem(ctx context.Context, listID, itemID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM todo_items WHERE list_id = $1 AND id = $2`,
		listID, itemID,
	)
	return affectedOne(result, err, "delete item")
}

func (s *PostgresStore) DeleteItemsByList(ctx context.Context, listID string) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todo_items WHERE list_id = $1`, listID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete items: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

func affectedOne(result sql.Result, err error, op string) error {
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeDocs[T any](docs [][]byte) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ensure compile-time interface compliance
var (
	_ ListRepository = (*PostgresStore)(nil)
	_ ItemRepository = (*PostgresStore)(nil)
)
