// Package pgstore provides a PostgreSQL implementation of feedback.Store.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Damilola24434/feedback-triage/internal/feedback"
)

var tracer = otel.Tracer("github.com/Damilola24434/feedback-triage/internal/feedback/pgstore")

//go:embed schema.sql
var schema string

// Store persists feedback items in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store. The
// caller owns the pool's lifetime.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const itemColumns = `id, source, body, created_at, sentiment, urgency, value_impact, themes, summary`

// Insert stores a new unanalyzed item and returns its assigned id.
func (s *Store) Insert(ctx context.Context, source, text string) (int64, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Insert", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO feedback_items (source, body) VALUES ($1, $2) RETURNING id`,
		source, text,
	).Scan(&id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("insert item: %w", err)
	}
	return id, nil
}

// Get retrieves an item by id.
func (s *Store) Get(ctx context.Context, id int64) (*feedback.Item, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + itemColumns + ` FROM feedback_items WHERE id = $1`
	it, err := scanItemRow(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if it == nil {
		return nil, false, nil
	}
	return it, true, nil
}

// SetAnalysis overwrites all five analysis columns together. Fails with
// feedback.ErrNotFound when the id does not exist.
func (s *Store) SetAnalysis(ctx context.Context, id int64, a *feedback.Analysis) error {
	ctx, span := tracer.Start(ctx, "pgstore.SetAnalysis", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	themesJSON, err := json.Marshal(a.Themes)
	if err != nil {
		return fmt.Errorf("marshal themes: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE feedback_items
		 SET sentiment = $2, urgency = $3, value_impact = $4, themes = $5, summary = $6
		 WHERE id = $1`,
		id, string(a.Sentiment), string(a.Urgency), string(a.ValueImpact), themesJSON, a.Summary,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return feedback.ErrNotFound
	}
	return nil
}

// ListRecent returns up to limit items in descending id order.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]feedback.Item, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListRecent", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + itemColumns + ` FROM feedback_items ORDER BY id DESC LIMIT $1`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []feedback.Item
	for rows.Next() {
		it, err := scanItemRow(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// scanItemRow scans a single row into a feedback.Item. Returns (nil, nil)
// when no row is found. The Analysis is attached only when all scalar
// analysis columns are non-null; a themes column that fails to decode
// degrades that row to nil themes rather than failing the scan, so one
// corrupt field cannot poison a whole digest.
func scanItemRow(row pgx.Row) (*feedback.Item, error) {
	var (
		it         feedback.Item
		sentiment  *string
		urgency    *string
		impact     *string
		themesJSON []byte
		summary    *string
	)

	err := row.Scan(
		&it.ID, &it.Source, &it.Text, &it.CreatedAt,
		&sentiment, &urgency, &impact, &themesJSON, &summary,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	if sentiment != nil && urgency != nil && impact != nil && summary != nil {
		a := &feedback.Analysis{
			Sentiment:   feedback.Sentiment(*sentiment),
			Urgency:     feedback.Level(*urgency),
			ValueImpact: feedback.Level(*impact),
			Summary:     *summary,
		}
		if len(themesJSON) > 0 {
			var themes []string
			if err := json.Unmarshal(themesJSON, &themes); err == nil {
				a.Themes = themes
			}
		}
		it.Analysis = a
	}

	return &it, nil
}
