package storage_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travel-compass/internal/storage"
	"github.com/neexbeast/travel-compass/internal/travel"
)

// ---- mock Querier ----

type mockQuerier struct {
	queryFn func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	execFn  func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return m.queryFn(ctx, sql, args...)
}
func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return m.execFn(ctx, sql, args...)
}

// ---- mock pgx.Rows ----

type fakeRows struct {
	rows    [][]any
	idx     int
	rowErr  error
	scanErr error
}

func (f *fakeRows) Next() bool                                   { f.idx++; return f.idx <= len(f.rows) }
func (f *fakeRows) Err() error                                   { return f.rowErr }
func (f *fakeRows) Close()                                       {}
func (f *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (f *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (f *fakeRows) RawValues() [][]byte                          { return nil }
func (f *fakeRows) Conn() *pgx.Conn                              { return nil }

func (f *fakeRows) Scan(dest ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	row := f.rows[f.idx-1]
	for i, d := range dest {
		if i >= len(row) {
			break
		}
		switch v := d.(type) {
		case *[]byte:
			*v = row[i].([]byte)
		case *time.Time:
			*v = row[i].(time.Time)
		}
	}
	return nil
}

// ---- helpers ----

func sampleRecord() *travel.Recommendation {
	return &travel.Recommendation{
		ID:    "0b7e2a4c-4a1e-4c57-9a38-0d7d1c6f3f10",
		Query: "Paris",
		Recommendations: []travel.Item{
			{Name: "Louvre", Type: "attraction", Description: "Museum", Rating: "4.8/5"},
		},
		GeographicInfo: travel.Info{
			"country":     "France",
			"coordinates": map[string]any{"latitude": json.Number("48.8566"), "longitude": json.Number("2.3522")},
			"languages":   []any{"French"},
		},
		ClimateInfo: travel.Info{
			"climate_type": "Oceanic",
			"seasons":      map[string]any{"summer": "Warm"},
		},
		CreatedAt: time.Date(2026, 5, 1, 12, 30, 45, 123456000, time.UTC),
	}
}

func marshalRecord(t *testing.T, rec *travel.Recommendation) []byte {
	t.Helper()
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	return b
}

// ---- InsertRecommendation ----

func TestInsertRecommendation_Success(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any
	q := &mockQuerier{
		execFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = args
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	rec := sampleRecord()
	repo := storage.NewRepositoryWithQuerier(q)
	require.NoError(t, repo.InsertRecommendation(context.Background(), rec))

	assert.Contains(t, capturedSQL, "INSERT INTO travel_recommendations")
	require.Len(t, capturedArgs, 4)
	assert.Equal(t, rec.ID, capturedArgs[0])
	assert.Equal(t, "Paris", capturedArgs[1])
	assert.JSONEq(t, string(marshalRecord(t, rec)), string(capturedArgs[2].([]byte)))
	assert.Equal(t, rec.CreatedAt, capturedArgs[3])
}

func TestInsertRecommendation_DBError(t *testing.T) {
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, fmt.Errorf("db error")
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	err := repo.InsertRecommendation(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting recommendation")
}

// ---- RecentRecommendations ----

func TestRecentRecommendations_RoundTrip(t *testing.T) {
	rec := sampleRecord()
	var capturedArgs []any
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
			capturedArgs = args
			return &fakeRows{rows: [][]any{{marshalRecord(t, rec), rec.CreatedAt}}}, nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	got, err := repo.RecentRecommendations(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, []any{10}, capturedArgs)
	assert.Equal(t, rec, got[0])
}

func TestRecentRecommendations_CreatedAtFromColumnInUTC(t *testing.T) {
	rec := sampleRecord()
	column := time.Date(2026, 5, 1, 14, 30, 45, 123456000, time.FixedZone("CEST", 2*3600))
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return &fakeRows{rows: [][]any{{marshalRecord(t, rec), column}}}, nil
		},
	}

	got, err := storage.NewRepositoryWithQuerier(q).RecentRecommendations(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.UTC, got[0].CreatedAt.Location())
	assert.True(t, rec.CreatedAt.Equal(got[0].CreatedAt))
}

func TestRecentRecommendations_NormalizesMissingCollections(t *testing.T) {
	doc := []byte(`{"id":"x","query":"Oslo","recommendations":null,"created_at":"2026-05-01T12:00:00Z"}`)
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return &fakeRows{rows: [][]any{{doc, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}}}, nil
		},
	}

	got, err := storage.NewRepositoryWithQuerier(q).RecentRecommendations(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Recommendations)
	assert.NotNil(t, got[0].GeographicInfo)
	assert.NotNil(t, got[0].ClimateInfo)
}

func TestRecentRecommendations_Empty(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return &fakeRows{}, nil
		},
	}

	got, err := storage.NewRepositoryWithQuerier(q).RecentRecommendations(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecentRecommendations_QueryError(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return nil, fmt.Errorf("query failed")
		},
	}

	_, err := storage.NewRepositoryWithQuerier(q).RecentRecommendations(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying recent recommendations")
}

func TestRecentRecommendations_ScanError(t *testing.T) {
	rows := &fakeRows{
		rows:    [][]any{{[]byte("{}"), time.Now()}},
		scanErr: fmt.Errorf("scan failed"),
	}
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return rows, nil },
	}

	_, err := storage.NewRepositoryWithQuerier(q).RecentRecommendations(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning")
}

func TestRecentRecommendations_RowsErr(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return &fakeRows{rowErr: fmt.Errorf("rows iteration error")}, nil
		},
	}

	_, err := storage.NewRepositoryWithQuerier(q).RecentRecommendations(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterating")
}

func TestRecentRecommendations_BadDocument(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return &fakeRows{rows: [][]any{{[]byte("not-json"), time.Now()}}}, nil
		},
	}

	_, err := storage.NewRepositoryWithQuerier(q).RecentRecommendations(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshaling")
}

func TestNewRepository_NotNil(t *testing.T) {
	assert.NotNil(t, storage.NewRepository(nil))
}

// ---- against a real database ----

// TestRecentRecommendations_Postgres needs TRAVEL_TEST_DSN pointing at a
// disposable database; the table is truncated.
func TestRecentRecommendations_Postgres(t *testing.T) {
	dsn := os.Getenv("TRAVEL_TEST_DSN")
	if dsn == "" {
		t.Skip("TRAVEL_TEST_DSN not set")
	}

	ctx := context.Background()
	pool, err := storage.Connect(ctx, dsn, "")
	require.NoError(t, err)
	defer pool.Close()

	_, err = storage.RunMigrations(ctx, pool, "../../migrations")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, "TRUNCATE travel_recommendations")
	require.NoError(t, err)

	repo := storage.NewRepository(pool)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		rec := sampleRecord()
		rec.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", i)
		rec.Query = fmt.Sprintf("City %d", i)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.InsertRecommendation(ctx, rec))
	}

	got, err := repo.RecentRecommendations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 10)
	for i, rec := range got {
		assert.Equal(t, fmt.Sprintf("City %d", 11-i), rec.Query)
		if i > 0 {
			assert.True(t, got[i-1].CreatedAt.After(rec.CreatedAt))
		}
	}

	want := sampleRecord()
	want.ID = "00000000-0000-4000-8000-000000000011"
	want.Query = "City 11"
	want.CreatedAt = base.Add(11 * time.Minute)
	assert.Equal(t, want, got[0])
}
