package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/repository"
)

var _ repository.WebsiteRepository = (*repository.PostgresWebsiteRepository)(nil)

var columns = []string{"website_url", "site_name", "page_id", "username", "app_password", "created_at", "updated_at"}

func newPostgresRepo(t *testing.T) (*repository.PostgresWebsiteRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return repository.NewPostgresWebsiteRepository(sqlx.NewDb(db, "postgres"), logger.NewNop()), mock
}

func TestPostgres_List(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT website_url, site_name, page_id, username, app_password, created_at, updated_at FROM websites ORDER BY").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("https://alpha.nl", "Alpha", 12, "u", "p", now, now).
			AddRow("https://beta.com", "Beta", 49, "u", "p", now, now))

	sites, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "Alpha", sites[0].SiteName)
	assert.Equal(t, 49, sites[1].PageID)
}

func TestPostgres_ListEmpty(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	mock.ExpectQuery("FROM websites").WillReturnRows(sqlmock.NewRows(columns))

	sites, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sites)
	assert.Empty(t, sites)
}

func TestPostgres_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("WHERE website_url = \\$1").WithArgs("https://alpha.nl").
					WillReturnRows(sqlmock.NewRows(columns).AddRow("https://alpha.nl", "Alpha", 12, "u", "p", time.Now(), time.Now()))
			},
		},
		{
			name: "not found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("WHERE website_url = \\$1").WithArgs("https://alpha.nl").WillReturnError(sql.ErrNoRows)
			},
			wantErr: repository.ErrWebsiteNotFound,
		},
		{
			name: "driver error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("WHERE website_url = \\$1").WithArgs("https://alpha.nl").WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newPostgresRepo(t)
			tt.setup(mock)

			site, err := repo.Get(context.Background(), "https://alpha.nl")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 12, site.PageID)
		})
	}
}

func TestPostgres_Create(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	now := time.Now()
	mock.ExpectQuery("INSERT INTO websites").
		WithArgs("https://alpha.nl", "Alpha", 12, "u", "p").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery("INSERT INTO websites").
		WithArgs("https://alpha.nl", "Alpha", 12, "u", "p").
		WillReturnError(&pq.Error{Code: "23505"})

	site := &models.Website{WebsiteURL: "https://alpha.nl", SiteName: "Alpha", PageID: 12, Username: "u", AppPassword: "p"}
	require.NoError(t, repo.Create(context.Background(), site))
	assert.Equal(t, now, site.CreatedAt)

	err := repo.Create(context.Background(), site)
	require.ErrorIs(t, err, repository.ErrWebsiteExists)
}

func TestPostgres_Update(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	site := &models.Website{WebsiteURL: "https://new.nl", SiteName: "New", PageID: 3, Username: "u", AppPassword: "p"}

	mock.ExpectQuery("UPDATE websites").
		WithArgs("https://new.nl", "New", 3, "u", "p", "https://old.nl").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
	mock.ExpectQuery("UPDATE websites").
		WithArgs("https://new.nl", "New", 3, "u", "p", "https://missing.nl").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("UPDATE websites").
		WithArgs("https://new.nl", "New", 3, "u", "p", "https://other.nl").
		WillReturnError(&pq.Error{Code: "23505"})

	require.NoError(t, repo.Update(context.Background(), "https://old.nl", site))
	require.ErrorIs(t, repo.Update(context.Background(), "https://missing.nl", site), repository.ErrWebsiteNotFound)
	require.ErrorIs(t, repo.Update(context.Background(), "https://other.nl", site), repository.ErrWebsiteExists)
}

func TestPostgres_Delete(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	mock.ExpectExec("DELETE FROM websites").WithArgs("https://alpha.nl").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM websites").WithArgs("https://alpha.nl").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM websites").WithArgs("https://alpha.nl").WillReturnError(errors.New("boom"))

	require.NoError(t, repo.Delete(context.Background(), "https://alpha.nl"))
	require.ErrorIs(t, repo.Delete(context.Background(), "https://alpha.nl"), repository.ErrWebsiteNotFound)
	require.ErrorContains(t, repo.Delete(context.Background(), "https://alpha.nl"), "boom")
}

func TestPostgres_CountAndInfo(t *testing.T) {
	t.Parallel()

	repo, mock := newPostgresRepo(t)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, repository.SourceDatabase, repo.Info().Source)
}
