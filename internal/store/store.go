// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists classified articles to a SQLite history database.
// The feed engine holds no long-term record; this store is the durable
// collaborator behind the dashboard "news feed" view and the history CLI.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/news-engine/pkg/types"
)

const dbFile = "news-history.db"

const defaultMaxResults = 50

// Store manages the article history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open creates or opens the history database at dataDir/news-history.db,
// creating the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			article_key TEXT NOT NULL UNIQUE,
			provider_id TEXT,
			title TEXT NOT NULL,
			teaser TEXT,
			url TEXT,
			source TEXT NOT NULL,
			channel TEXT NOT NULL,
			priority TEXT NOT NULL,
			tickers TEXT,
			tags TEXT,
			published_at TEXT NOT NULL,
			received_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_channel ON articles(channel)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// articleKey derives the unique row key: URL when present, provider ID
// otherwise, falling back to the title so a keyless article still inserts.
func articleKey(a types.Article) string {
	if a.URL != "" {
		return a.URL
	}
	if a.ID != "" {
		return string(a.Source) + ":" + a.ID
	}
	return "title:" + a.Title
}

// Insert records one classified article. Re-inserting an article already in
// history is a no-op, so callers can replay overlapping fetch windows.
// Returns true when a new row was written.
func (s *Store) Insert(ctx context.Context, a types.Article, cls types.Classification) (bool, error) {
	tickers, err := json.Marshal(a.Tickers)
	if err != nil {
		return false, fmt.Errorf("encoding tickers: %w", err)
	}
	tags, err := json.Marshal(a.Tags)
	if err != nil {
		return false, fmt.Errorf("encoding tags: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO articles
			(article_key, provider_id, title, teaser, url, source, channel, priority, tickers, tags, published_at, received_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		articleKey(a), a.ID, a.Title, a.Teaser, a.URL, string(a.Source),
		string(cls.Channel), string(cls.Priority), string(tickers), string(tags),
		a.PublishedAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("inserting article: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert result: %w", err)
	}
	return n > 0, nil
}

// Record is one history row: the stored article plus its classification
// and the time it entered the store.
type Record struct {
	Article        types.Article
	Classification types.Classification
	ReceivedAt     time.Time
}

// Recent returns the newest records by publication time, at most limit
// (the configured default when limit <= 0).
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	return s.query(ctx, "", nil, limit)
}

// ByTicker returns records mentioning the ticker, newest first.
func (s *Store) ByTicker(ctx context.Context, ticker string, limit int) ([]Record, error) {
	// Tickers are stored as a JSON array; match the quoted symbol.
	pattern := `%"` + strings.ToUpper(ticker) + `"%`
	return s.query(ctx, "tickers LIKE ?", []any{pattern}, limit)
}

// ByChannel returns records routed to the channel, newest first.
func (s *Store) ByChannel(ctx context.Context, channel types.Channel, limit int) ([]Record, error) {
	return s.query(ctx, "channel = ?", []any{string(channel)}, limit)
}

func (s *Store) query(ctx context.Context, where string, args []any, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	q := `SELECT provider_id, title, teaser, url, source, channel, priority, tickers, tags, published_at, received_at
	      FROM articles`
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY published_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec                       Record
			source, channel, priority string
			tickers, tags             string
			publishedAt, receivedAt   string
		)
		if err := rows.Scan(&rec.Article.ID, &rec.Article.Title, &rec.Article.Teaser, &rec.Article.URL,
			&source, &channel, &priority, &tickers, &tags, &publishedAt, &receivedAt); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}

		rec.Article.Source = types.Source(source)
		rec.Classification = types.Classification{
			Channel:  types.Channel(channel),
			Priority: types.Priority(priority),
		}
		if err := json.Unmarshal([]byte(tickers), &rec.Article.Tickers); err != nil {
			return nil, fmt.Errorf("decoding tickers: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &rec.Article.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, publishedAt); err == nil {
			rec.Article.PublishedAt = t
		}
		if t, err := time.Parse(time.RFC3339Nano, receivedAt); err == nil {
			rec.ReceivedAt = t
		}

		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats summarizes the history: total rows plus per-channel and per-source counts.
type Stats struct {
	Total     int
	ByChannel map[types.Channel]int
	BySource  map[types.Source]int
}

// Stats returns history counts for the history CLI.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		ByChannel: make(map[types.Channel]int),
		BySource:  make(map[types.Source]int),
	}

	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM articles`).Scan(&stats.Total); err != nil {
		return Stats{}, fmt.Errorf("counting articles: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT channel, count(*) FROM articles GROUP BY channel`)
	if err != nil {
		return Stats{}, fmt.Errorf("counting by channel: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var channel string
		var n int
		if err := rows.Scan(&channel, &n); err != nil {
			return Stats{}, fmt.Errorf("scanning channel count: %w", err)
		}
		stats.ByChannel[types.Channel(channel)] = n
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	srcRows, err := s.db.QueryContext(ctx, `SELECT source, count(*) FROM articles GROUP BY source`)
	if err != nil {
		return Stats{}, fmt.Errorf("counting by source: %w", err)
	}
	defer srcRows.Close()
	for srcRows.Next() {
		var source string
		var n int
		if err := srcRows.Scan(&source, &n); err != nil {
			return Stats{}, fmt.Errorf("scanning source count: %w", err)
		}
		stats.BySource[types.Source(source)] = n
	}
	return stats, srcRows.Err()
}

// Prune deletes records published before the cutoff and returns the number removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM articles WHERE published_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning articles: %w", err)
	}
	return res.RowsAffected()
}
