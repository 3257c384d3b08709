package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"DailyInsights/internal/domain"
	"DailyInsights/internal/ports"
)

const uniqueViolation = "23505"

//go:embed schema.sql
var schemaSQL string

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository reads tenants and sources and persists insights in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.TenantRepository = (*PostgresRepository)(nil)
var _ ports.SourceProvider = (*PostgresRepository)(nil)
var _ ports.InsightRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open opens a lib/pq connection pool for dsn.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the tables used by the insights run.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// ActiveTenants returns active clients with their keyword text and linked
// keywords, ordered by creation time.
func (r *PostgresRepository) ActiveTenants(ctx context.Context) ([]domain.Tenant, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := psql.
		Select("c.id", "c.name", "COALESCE(c.keywords, '')", "k.id", "k.name").
		From("clients c").
		LeftJoin("client_keywords ck ON ck.client_id = c.id").
		LeftJoin("keywords k ON k.id = ck.keyword_id").
		Where(sq.Eq{"c.is_active": true}).
		OrderBy("c.created_at", "c.id", "k.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tenants query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tenants: %w", err)
	}
	defer rows.Close()

	var (
		tenants []domain.Tenant
		pos     = map[string]int{}
	)
	for rows.Next() {
		var (
			id, name, keywords string
			kwID, kwName       sql.NullString
		)
		if err := rows.Scan(&id, &name, &keywords, &kwID, &kwName); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}

		i, ok := pos[id]
		if !ok {
			i = len(tenants)
			pos[id] = i
			tenants = append(tenants, domain.Tenant{ID: id, Name: name, RawKeywordText: keywords, Active: true})
		}
		if kwID.Valid && kwName.Valid {
			tenants[i].LinkedKeywords = append(tenants[i].LinkedKeywords, domain.Keyword{ID: kwID.String, Name: kwName.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return tenants, nil
}

// ActiveSources returns the active scrape endpoints.
func (r *PostgresRepository) ActiveSources(ctx context.Context) ([]domain.Source, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := psql.
		Select("id", "name", "url", "COALESCE(category, '')").
		From("news_sources").
		Where(sq.Eq{"is_active": true}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sources query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var src domain.Source
		if err := rows.Scan(&src.ID, &src.Name, &src.URL, &src.Category); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return sources, nil
}

// ExistingURLs returns the subset of urls already stored as insights.
func (r *PostgresRepository) ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	if r.db == nil || len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := psql.
		Select("url").
		From("daily_insights").
		Where(sq.Expr("url = ANY(?)", pq.Array(urls))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build existing query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[u] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// CreateInsight inserts a new insight. A url collision returns domain.ErrDuplicateURL.
func (r *PostgresRepository) CreateInsight(ctx context.Context, rec domain.InsightRecord) error {
	if r.db == nil {
		return nil
	}

	var clientID any
	if rec.ClientID != nil {
		clientID = *rec.ClientID
	}

	query, args, err := psql.
		Insert("daily_insights").
		Columns("id", "title", "url", "description", "source", "industry", "client_id", "status", "scraped_at", "created_at").
		Values(rec.ID, rec.Title, rec.URL, rec.Description, rec.Source, rec.Industry, clientID, string(rec.Status), rec.ScrapedAt, rec.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateURL
		}
		return fmt.Errorf("insert insight: %w", err)
	}

	return nil
}
