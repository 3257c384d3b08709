package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DailyInsights/internal/domain"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresRepository(db), mock
}

func TestActiveTenantsGroupsLinkedKeywords(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "name", "keywords", "kid", "kname"}).
		AddRow("c1", "Acme", "acme, ai", "k1", "Rockets").
		AddRow("c1", "Acme", "acme, ai", "k2", "Anvils").
		AddRow("c2", "Globex", "", nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.id, c.name, COALESCE(c.keywords, ''), k.id, k.name FROM clients c LEFT JOIN client_keywords")).
		WithArgs(true).
		WillReturnRows(rows)

	tenants, err := repo.ActiveTenants(context.Background())
	require.NoError(t, err)
	require.Len(t, tenants, 2)

	assert.Equal(t, "c1", tenants[0].ID)
	assert.Equal(t, "acme, ai", tenants[0].RawKeywordText)
	assert.Equal(t, []domain.Keyword{{ID: "k1", Name: "Rockets"}, {ID: "k2", Name: "Anvils"}}, tenants[0].LinkedKeywords)
	assert.True(t, tenants[0].Active)

	assert.Equal(t, "c2", tenants[1].ID)
	assert.Empty(t, tenants[1].LinkedKeywords)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveSources(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, url, COALESCE(category, '') FROM news_sources WHERE is_active = $1 ORDER BY name")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "url", "category"}).
			AddRow("s1", "wire", "https://wire.example/feed", "business"))

	sources, err := repo.ActiveSources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, domain.Source{ID: "s1", Name: "wire", URL: "https://wire.example/feed", Category: "business"}, sources[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistingURLs(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT url FROM daily_insights WHERE url = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"url"}).AddRow("https://a"))

	existing, err := repo.ExistingURLs(context.Background(), []string{"https://a", "https://b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"https://a": true}, existing)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistingURLsSkipsEmptyInput(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	existing, err := repo.ExistingURLs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, existing)
	require.NoError(t, mock.ExpectationsWereMet())
}

func sampleRecord(clientID *string) domain.InsightRecord {
	at := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	return domain.InsightRecord{
		ID:          "i1",
		Title:       "Acme expands",
		URL:         "https://a",
		Description: "desc",
		Source:      "wire",
		Industry:    "acme, finance",
		ClientID:    clientID,
		Status:      domain.StatusPending,
		ScrapedAt:   at,
		CreatedAt:   at,
	}
}

func TestCreateInsight(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	client := "c1"
	rec := sampleRecord(&client)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO daily_insights (id,title,url,description,source,industry,client_id,status,scraped_at,created_at)")).
		WithArgs("i1", "Acme expands", "https://a", "desc", "wire", "acme, finance", "c1", "pending", rec.ScrapedAt, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateInsight(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInsightUnassigned(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	rec := sampleRecord(nil)

	mock.ExpectExec("INSERT INTO daily_insights").
		WithArgs("i1", sqlmock.AnyArg(), "https://a", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil, "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateInsight(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInsightMapsUniqueViolation(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO daily_insights").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateInsight(context.Background(), sampleRecord(nil))
	assert.ErrorIs(t, err, domain.ErrDuplicateURL)
}

func TestCreateInsightWrapsOtherErrors(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO daily_insights").
		WillReturnError(errors.New("connection reset"))

	err := repo.CreateInsight(context.Background(), sampleRecord(nil))
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrDuplicateURL))
	assert.Contains(t, err.Error(), "insert insight")
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS clients").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
