package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/domain"
)

// GetAppSettings returns the settings singleton, creating an empty row on first read.
func (s *Store) GetAppSettings(ctx context.Context) (*domain.AppSettings, error) {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO app_settings (id, updated_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		domain.AppSettingsID, formatTime(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("init app settings: %w", err)
	}

	var (
		as        domain.AppSettings
		updatedAt string
	)
	err = s.q.QueryRowContext(ctx, `
		SELECT id, email_service, email_username, email_pass_key, movie_api_key, book_api_key, updated_at
		FROM app_settings WHERE id = ?`, domain.AppSettingsID).Scan(
		&as.ID, &as.EmailService, &as.EmailUsername, &as.EmailPassKey,
		&as.MovieAPIKey, &as.BookAPIKey, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get app settings: %w", err)
	}
	if as.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &as, nil
}

// SaveAppSettings upserts the settings singleton.
func (s *Store) SaveAppSettings(ctx context.Context, as *domain.AppSettings) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO app_settings (id, email_service, email_username, email_pass_key, movie_api_key, book_api_key, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email_service = excluded.email_service,
			email_username = excluded.email_username,
			email_pass_key = excluded.email_pass_key,
			movie_api_key = excluded.movie_api_key,
			book_api_key = excluded.book_api_key,
			updated_at = excluded.updated_at`,
		domain.AppSettingsID, as.EmailService, as.EmailUsername, as.EmailPassKey,
		as.MovieAPIKey, as.BookAPIKey, formatTime(as.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save app settings: %w", err)
	}
	return nil
}
