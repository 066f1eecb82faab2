package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/hoanghai1803/newsbrief/internal/models"
)

// FetchPending returns the records of the named collection that the
// pipeline should process, in store-native order. Rows with a NULL or empty
// URL are never returned. With Options.PendingOnly set, rows that already
// carry a summary are skipped as well.
//
// Every failure wraps ErrStoreRead.
func (s *Store) FetchPending(ctx context.Context, collection string) ([]models.ArticleRecord, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}

	q := s.sb.Select("ID", "URL").From(table).
		Where(sq.NotEq{"URL": nil}).
		Where(sq.NotEq{"URL": ""})
	if s.opts.PendingOnly {
		q = q.Where(sq.Or{sq.Eq{"Summary": nil}, sq.Eq{"Summary": ""}})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building pending query: %w", ErrStoreRead, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", ErrStoreRead, table, err)
	}
	defer rows.Close()

	var records []models.ArticleRecord
	for rows.Next() {
		var r models.ArticleRecord
		if err := rows.Scan(&r.ID, &r.URL); err != nil {
			return nil, fmt.Errorf("%w: scanning %s row: %w", ErrStoreRead, table, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating %s rows: %w", ErrStoreRead, table, err)
	}

	return records, nil
}

// WriteSummary sets the Summary column of exactly the record with the given
// ID. A nil summary stores NULL. An update that matches no row is a failure.
//
// Every failure wraps ErrStoreWrite.
func (s *Store) WriteSummary(ctx context.Context, collection, id string, summary *string) error {
	table, err := tableName(collection)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	var value any
	if summary != nil {
		value = *summary
	}

	query, args, err := s.sb.Update(table).
		Set("Summary", value).
		Where(sq.Eq{"ID": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: building update: %w", ErrStoreWrite, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating %s record %s: %w", ErrStoreWrite, table, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: reading affected rows: %w", ErrStoreWrite, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s record %s: %w", ErrStoreWrite, table, id, ErrNotFound)
	}
	return nil
}

// EnsureCollection creates the collection table with the ID, URL and
// Summary columns if it does not exist yet. Existing tables are left as-is.
func (s *Store) EnsureCollection(ctx context.Context, collection string) error {
	table, err := tableName(collection)
	if err != nil {
		return err
	}

	idColumn := "ID INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.opts.Driver == DriverPostgres {
		idColumn = "ID BIGSERIAL PRIMARY KEY"
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		URL     TEXT NOT NULL,
		Summary TEXT
	)`, table, idColumn)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating collection %s: %w", table, err)
	}
	return nil
}

// AddArticle inserts a new record for url unless the collection already
// holds one with the same URL. It reports whether a row was inserted.
func (s *Store) AddArticle(ctx context.Context, collection, url string) (bool, error) {
	table, err := tableName(collection)
	if err != nil {
		return false, err
	}

	query, args, err := s.sb.Select("COUNT(*)").From(table).Where(sq.Eq{"URL": url}).ToSql()
	if err != nil {
		return false, fmt.Errorf("building existence query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("checking article existence: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	query, args, err = s.sb.Insert(table).Columns("URL").Values(url).ToSql()
	if err != nil {
		return false, fmt.Errorf("building insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("inserting article: %w", err)
	}
	return true, nil
}

// ListArticles returns every record of the collection ordered by ID,
// including rows without a summary.
func (s *Store) ListArticles(ctx context.Context, collection string) ([]models.ArticleRecord, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	query, args, err := s.sb.Select("ID", "URL", "Summary").From(table).OrderBy("ID").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	articles := []models.ArticleRecord{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}

	return articles, nil
}

// GetArticle returns the record with the given ID.
// Returns nil, ErrNotFound if no matching row exists.
func (s *Store) GetArticle(ctx context.Context, collection, id string) (*models.ArticleRecord, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	query, args, err := s.sb.Select("ID", "URL", "Summary").From(table).Where(sq.Eq{"ID": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get query: %w", err)
	}

	a, err := scanArticle(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting article by id: %w", err)
	}
	return a, nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanArticle reads an ID, URL, Summary row. URL may be NULL in tables the
// pipeline did not create.
func scanArticle(row scanner) (*models.ArticleRecord, error) {
	var (
		a       models.ArticleRecord
		url     sql.NullString
		summary sql.NullString
	)
	if err := row.Scan(&a.ID, &url, &summary); err != nil {
		return nil, err
	}
	a.URL = url.String
	if summary.Valid {
		a.Summary = &summary.String
	}
	return &a, nil
}
