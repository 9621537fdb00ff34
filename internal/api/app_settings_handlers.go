package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

func (s *Server) registerAppSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getAppSettings",
		Method:      http.MethodGet,
		Path:        "/api/appSettings",
		Summary:     "Get settings",
		Description: "Returns the application settings, empty until first saved",
		Tags:        []string{"Settings"},
	}, s.handleGetAppSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveAppSettings",
		Method:      http.MethodPost,
		Path:        "/api/appSettings",
		Summary:     "Save settings",
		Description: "Replaces the application settings",
		Tags:        []string{"Settings"},
	}, s.handleSaveAppSettings)
}

// === DTOs ===

// AppSettingsRequest is the body for saving settings.
type AppSettingsRequest struct {
	EmailService  string `json:"emailService,omitempty" doc:"Outgoing mail provider"`
	EmailUsername string `json:"emailUsername,omitempty" doc:"Mail account"`
	EmailPassKey  string `json:"emailPassKey,omitempty" doc:"Mail account secret"`
	MovieAPIKey   string `json:"movieApiKey,omitempty" doc:"Movie metadata API key"`
	BookAPIKey    string `json:"bookApiKey,omitempty" doc:"Book metadata API key"`
}

// SaveAppSettingsInput wraps the settings request for Huma.
type SaveAppSettingsInput struct {
	Body AppSettingsRequest
}

// AppSettingsOutput wraps the settings for Huma.
type AppSettingsOutput struct {
	Body *domain.AppSettings
}

// === Handlers ===

func (s *Server) handleGetAppSettings(ctx context.Context, _ *struct{}) (*AppSettingsOutput, error) {
	settings, err := s.services.AppSettings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &AppSettingsOutput{Body: settings}, nil
}

func (s *Server) handleSaveAppSettings(ctx context.Context, input *SaveAppSettingsInput) (*AppSettingsOutput, error) {
	settings, err := s.services.AppSettings.SaveSettings(ctx, service.AppSettingsRequest(input.Body))
	if err != nil {
		return nil, err
	}
	return &AppSettingsOutput{Body: settings}, nil
}
