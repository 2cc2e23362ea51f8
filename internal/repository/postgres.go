package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/models"
)

const uniqueViolation = "23505"

const websiteColumns = `website_url, site_name, page_id, username, app_password, created_at, updated_at`

// PostgresWebsiteRepository keeps the registry in the websites table.
type PostgresWebsiteRepository struct {
	db       *sqlx.DB
	logger   infralogger.Logger
	loadedAt time.Time
}

func NewPostgresWebsiteRepository(db *sqlx.DB, log infralogger.Logger) *PostgresWebsiteRepository {
	return &PostgresWebsiteRepository{db: db, logger: log, loadedAt: time.Now()}
}

func (r *PostgresWebsiteRepository) List(ctx context.Context) ([]models.Website, error) {
	var sites []models.Website
	query := `SELECT ` + websiteColumns + ` FROM websites ORDER BY created_at, website_url`
	if err := r.db.SelectContext(ctx, &sites, query); err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	if sites == nil {
		sites = []models.Website{}
	}
	return sites, nil
}

func (r *PostgresWebsiteRepository) Get(ctx context.Context, websiteURL string) (*models.Website, error) {
	var site models.Website
	query := `SELECT ` + websiteColumns + ` FROM websites WHERE website_url = $1`
	if err := r.db.GetContext(ctx, &site, query, websiteURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWebsiteNotFound
		}
		return nil, fmt.Errorf("get website %s: %w", websiteURL, err)
	}
	return &site, nil
}

func (r *PostgresWebsiteRepository) Create(ctx context.Context, w *models.Website) error {
	query := `
		INSERT INTO websites (website_url, site_name, page_id, username, app_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		w.WebsiteURL, w.SiteName, w.PageID, w.Username, w.AppPassword,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrWebsiteExists
		}
		return fmt.Errorf("create website %s: %w", w.WebsiteURL, err)
	}

	r.logger.Debug("Website row inserted", infralogger.String("website_url", w.WebsiteURL))
	return nil
}

func (r *PostgresWebsiteRepository) Update(ctx context.Context, originalURL string, w *models.Website) error {
	query := `
		UPDATE websites
		SET website_url = $1, site_name = $2, page_id = $3, username = $4, app_password = $5, updated_at = NOW()
		WHERE website_url = $6
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		w.WebsiteURL, w.SiteName, w.PageID, w.Username, w.AppPassword, originalURL,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrWebsiteNotFound
	case isUniqueViolation(err):
		return ErrWebsiteExists
	default:
		return fmt.Errorf("update website %s: %w", originalURL, err)
	}
}

func (r *PostgresWebsiteRepository) Delete(ctx context.Context, websiteURL string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM websites WHERE website_url = $1`, websiteURL)
	if err != nil {
		return fmt.Errorf("delete website %s: %w", websiteURL, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete website %s: rows affected: %w", websiteURL, err)
	}
	if n == 0 {
		return ErrWebsiteNotFound
	}
	return nil
}

func (r *PostgresWebsiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM websites`); err != nil {
		return 0, fmt.Errorf("count websites: %w", err)
	}
	return n, nil
}

func (r *PostgresWebsiteRepository) Info() StoreInfo {
	return StoreInfo{Source: SourceDatabase, LoadedAt: r.loadedAt}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
