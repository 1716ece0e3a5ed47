package dbstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical/dbstore"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*dbstore.Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dialector := postgres.New(postgres.Config{Conn: db})
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return dbstore.New(gormDB), mock
}

func TestFindShowBySourceIDNoMatch(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "shows"`).
		WithArgs("valley-bar", "ev-100", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	show, err := store.FindShowBySourceID(context.Background(), "valley-bar", "ev-100")
	require.NoError(t, err)
	assert.Nil(t, show)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindShowBySourceIDFound(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "shows"`).
		WithArgs("valley-bar", "ev-100", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).
			AddRow(7, "the-national-at-valley-bar-2026-01-30"))

	show, err := store.FindShowBySourceID(context.Background(), "valley-bar", "ev-100")
	require.NoError(t, err)
	require.NotNil(t, show)
	assert.Equal(t, uint64(7), show.ID)
	assert.Equal(t, "the-national-at-valley-bar-2026-01-30", show.Slug)
}

func TestFindShowByNaturalKeyUsesLowerAndWindow(t *testing.T) {
	store, mock := setupMockDB(t)

	from := time.Date(2026, 1, 30, 7, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery(`SELECT .* FROM "shows" JOIN venues .* JOIN show_artists .* JOIN artists .* LOWER\(artists\.name\) .* LOWER\(venues\.name\)`).
		WithArgs(true, "the national", "valley bar", from, to, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	show, err := store.FindShowByNaturalKey(context.Background(), "the national", "valley bar", from, to)
	require.NoError(t, err)
	require.NotNil(t, show)
	assert.Equal(t, uint64(3), show.ID)
}

func TestFindVenueByNameCityCaseInsensitive(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "venues" WHERE LOWER\(name\) = .* AND LOWER\(city\)`).
		WithArgs("valley bar", "phoenix", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Valley Bar"))

	venue, err := store.FindVenueByNameCity(context.Background(), "valley bar", "phoenix")
	require.NoError(t, err)
	require.NotNil(t, venue)
	assert.Equal(t, "Valley Bar", venue.Name)
}

func TestFindArtistByNameNoMatch(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "artists" WHERE LOWER\(name\)`).
		WithArgs("the national", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	artist, err := store.FindArtistByName(context.Background(), "the national")
	require.NoError(t, err)
	assert.Nil(t, artist)
}

func TestUpdateShowSlug(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "shows" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.UpdateShowSlug(context.Background(), 7, "the-national-at-valley-bar-2026-01-30-7")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshShowScrape(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "shows" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	price := 30.0
	err := store.RefreshShowScrape(context.Background(), 7, time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC), &price)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListShowSlugs(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT "slug" FROM "shows" WHERE status = .* ORDER BY id ASC`).
		WithArgs("approved").
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).
			AddRow("a-show-2026-01-01").
			AddRow("b-show-2026-01-02"))

	slugs, err := store.ListShowSlugs(context.Background(), "approved")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-show-2026-01-01", "b-show-2026-01-02"}, slugs)
}

func TestListShowSlugsAllIsUnfiltered(t *testing.T) {
	store, mock := setupMockDB(t)

	// "all" must not become WHERE status = 'all'.
	mock.ExpectQuery(`SELECT "slug" FROM "shows" ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).
			AddRow("a-show-2026-01-01"))

	slugs, err := store.ListShowSlugs(context.Background(), "all")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-show-2026-01-01"}, slugs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListShowsAllIsUnfiltered(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "shows"$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "shows" ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := store.ListShows(context.Background(), "all", 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
