// Package di provides dependency injection configuration for the Bibliohome server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bibliohome/bibliohome-server/internal/auth"
	"github.com/bibliohome/bibliohome-server/internal/config"
	"github.com/bibliohome/bibliohome-server/internal/di/providers"
	"github.com/bibliohome/bibliohome-server/internal/logger"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Auth layer
	do.Provide(injector, providers.ProvideHasher)
	do.Provide(injector, providers.ProvideNotifier)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideMovieService)
	do.Provide(injector, providers.ProvideAuthorService)
	do.Provide(injector, providers.ProvideGenreService)
	do.Provide(injector, providers.ProvideSeriesService)
	do.Provide(injector, providers.ProvideProductionCompanyService)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideInstanceService)
	do.Provide(injector, providers.ProvideMediaInstanceService)
	do.Provide(injector, providers.ProvideReadingStatusService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideAppSettingsService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*auth.Hasher](injector)

	// Business services
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.MovieService](injector)
	_ = do.MustInvoke[*service.AuthorService](injector)
	_ = do.MustInvoke[*service.GenreService](injector)
	_ = do.MustInvoke[*service.SeriesService](injector)
	_ = do.MustInvoke[*service.ProductionCompanyService](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.InstanceService](injector)
	_ = do.MustInvoke[*service.MediaInstanceService](injector)
	_ = do.MustInvoke[*service.ReadingStatusService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.AppSettingsService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild an in-memory or stale index from the store
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
