package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/normalize"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
)

// AppSettingsService reads and writes the singleton settings row.
type AppSettingsService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewAppSettingsService creates a new app settings service.
func NewAppSettingsService(store *sqlite.Store, logger *slog.Logger) *AppSettingsService {
	return &AppSettingsService{store: store, logger: logger}
}

// AppSettingsRequest contains the integration credentials to store.
type AppSettingsRequest struct {
	EmailService  string `json:"emailService"`
	EmailUsername string `json:"emailUsername"`
	EmailPassKey  string `json:"emailPassKey"`
	MovieAPIKey   string `json:"movieApiKey"`
	BookAPIKey    string `json:"bookApiKey"`
}

// GetSettings returns the settings, creating an empty row on first read.
func (s *AppSettingsService) GetSettings(ctx context.Context) (*domain.AppSettings, error) {
	as, err := s.store.GetAppSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get app settings: %w", err)
	}
	return as, nil
}

// SaveSettings overwrites every field of the settings row.
func (s *AppSettingsService) SaveSettings(ctx context.Context, req AppSettingsRequest) (*domain.AppSettings, error) {
	as := &domain.AppSettings{
		ID:            domain.AppSettingsID,
		EmailService:  normalize.Text(req.EmailService),
		EmailUsername: normalize.Text(req.EmailUsername),
		EmailPassKey:  normalize.Text(req.EmailPassKey),
		MovieAPIKey:   normalize.Text(req.MovieAPIKey),
		BookAPIKey:    normalize.Text(req.BookAPIKey),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.store.SaveAppSettings(ctx, as); err != nil {
		return nil, fmt.Errorf("save app settings: %w", err)
	}
	s.logger.Info("app settings saved", "email_service", as.EmailService)
	return as, nil
}
