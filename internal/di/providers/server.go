package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/bibliohome/bibliohome-server/internal/api"
	"github.com/bibliohome/bibliohome-server/internal/config"
	"github.com/bibliohome/bibliohome-server/internal/logger"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Book:              do.MustInvoke[*service.BookService](i),
		Movie:             do.MustInvoke[*service.MovieService](i),
		Author:            do.MustInvoke[*service.AuthorService](i),
		Genre:             do.MustInvoke[*service.GenreService](i),
		Series:            do.MustInvoke[*service.SeriesService](i),
		ProductionCompany: do.MustInvoke[*service.ProductionCompanyService](i),
		Library:           do.MustInvoke[*service.LibraryService](i),
		Instance:          do.MustInvoke[*service.InstanceService](i),
		MediaInstance:     do.MustInvoke[*service.MediaInstanceService](i),
		ReadingStatus:     do.MustInvoke[*service.ReadingStatusService](i),
		User:              do.MustInvoke[*service.UserService](i),
		AppSettings:       do.MustInvoke[*service.AppSettingsService](i),
		Search:            do.MustInvoke[*service.SearchService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, cfg, log.Logger)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
