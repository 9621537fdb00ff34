package api

import (
	"github.com/bibliohome/bibliohome-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Book              *service.BookService
	Movie             *service.MovieService
	Author            *service.AuthorService
	Genre             *service.GenreService
	Series            *service.SeriesService
	ProductionCompany *service.ProductionCompanyService
	Library           *service.LibraryService
	Instance          *service.InstanceService      // Per-kind book and movie instances
	MediaInstance     *service.MediaInstanceService // Unified library feed
	ReadingStatus     *service.ReadingStatusService // Per-user status overlay
	User              *service.UserService
	AppSettings       *service.AppSettingsService
	Search            *service.SearchService // Catalog full-text search
}
