package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/id"
	"github.com/bibliohome/bibliohome-server/internal/normalize"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
	"github.com/bibliohome/bibliohome-server/internal/validation"
)

// MovieService orchestrates movie operations.
type MovieService struct {
	store     *sqlite.Store
	search    *SearchService
	logger    *slog.Logger
	validator *validation.Validator
}

// NewMovieService creates a new movie service. search may be nil.
func NewMovieService(store *sqlite.Store, search *SearchService, logger *slog.Logger) *MovieService {
	return &MovieService{
		store:     store,
		search:    search,
		logger:    logger,
		validator: validation.New(),
	}
}

// MovieRequest contains fields for creating or updating a movie. On update,
// empty scalars are left unchanged and non-nil lists replace the links;
// series are upserted alongside the existing ones.
type MovieRequest struct {
	Title               string       `json:"title" validate:"max=500"`
	ReleaseDate         string       `json:"releaseDate" validate:"isodate"`
	Subtitle            string       `json:"subtitle" validate:"max=500"`
	Description         string       `json:"description"`
	UPC                 string       `json:"upc" validate:"max=32"`
	Runtime             *int64       `json:"runtime" validate:"omitempty,gte=0"`
	Budget              *int64       `json:"budget" validate:"omitempty,gte=0"`
	Revenue             *int64       `json:"revenue" validate:"omitempty,gte=0"`
	Photo               string       `json:"photo"`
	Genres              []GenreRef   `json:"genres"`
	ProductionCompanies []CompanyRef `json:"productionCompanies"`
	Series              []SeriesRef  `json:"series"`
}

func (r *MovieRequest) normalize() {
	r.Title = normalize.Text(r.Title)
	r.ReleaseDate = normalize.Text(r.ReleaseDate)
	r.Subtitle = normalize.Text(r.Subtitle)
	r.Description = normalize.Description(r.Description)
	r.UPC = normalize.Text(r.UPC)
	r.Photo = normalize.Text(r.Photo)
}

// CreateMovie creates a movie with its genres, production companies and
// series in one transaction. Title and release date are required.
func (s *MovieService) CreateMovie(ctx context.Context, req MovieRequest) (*domain.Movie, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	var msgs []string
	if req.Title == "" {
		msgs = append(msgs, "Title must not be empty")
	}
	if req.ReleaseDate == "" {
		msgs = append(msgs, "Release date must not be empty")
	}
	if len(msgs) > 0 {
		return nil, domainerrors.ValidationMessages(msgs)
	}
	released, err := normalize.ParseDate(req.ReleaseDate)
	if err != nil {
		return nil, domainerrors.Validation("Invalid release date. Must be in ISO 8601 format.")
	}

	movieID, err := id.Generate(id.Movie)
	if err != nil {
		return nil, err
	}
	m := &domain.Movie{
		Entity:      domain.Entity{ID: movieID},
		Title:       req.Title,
		ReleaseDate: domain.CalendarDay(released),
		Subtitle:    req.Subtitle,
		Description: req.Description,
		UPC:         req.UPC,
		Runtime:     req.Runtime,
		Budget:      req.Budget,
		Revenue:     req.Revenue,
		Photo:       req.Photo,
	}
	m.InitTimestamps()

	err = s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		if err := tx.CreateMovie(ctx, m); err != nil {
			return storeErr(err)
		}
		return s.linkMovie(ctx, tx, m.ID, req)
	})
	if err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	recordMutation("movie", opCreate)
	s.search.afterMovieWrite(ctx, m.ID)
	s.logger.Info("movie created", "id", m.ID, "title", m.Title)

	return s.GetMovie(ctx, m.ID)
}

// UpdateMovie applies the supplied fields to a movie.
func (s *MovieService) UpdateMovie(ctx context.Context, movieID string, req MovieRequest) (*domain.Movie, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		m, err := tx.GetMovie(ctx, movieID)
		if err != nil {
			return storeErr(err)
		}

		setIfNotEmpty(&m.Title, req.Title)
		setIfNotEmpty(&m.Subtitle, req.Subtitle)
		setIfNotEmpty(&m.Description, req.Description)
		setIfNotEmpty(&m.UPC, req.UPC)
		setIfNotEmpty(&m.Photo, req.Photo)
		if req.ReleaseDate != "" {
			released, err := normalize.ParseDate(req.ReleaseDate)
			if err != nil {
				return domainerrors.Validation("Invalid release date. Must be in ISO 8601 format.")
			}
			m.ReleaseDate = domain.CalendarDay(released)
		}
		if req.Runtime != nil && *req.Runtime > 0 {
			m.Runtime = req.Runtime
		}
		if req.Budget != nil && *req.Budget > 0 {
			m.Budget = req.Budget
		}
		if req.Revenue != nil && *req.Revenue > 0 {
			m.Revenue = req.Revenue
		}
		m.Touch()

		if err := tx.UpdateMovie(ctx, m); err != nil {
			return storeErr(err)
		}
		return s.linkMovie(ctx, tx, m.ID, req)
	})
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}

	recordMutation("movie", opUpdate)
	s.search.afterMovieWrite(ctx, movieID)
	s.logger.Info("movie updated", "id", movieID)

	return s.GetMovie(ctx, movieID)
}

// linkMovie resolves and links every association list that is non-nil.
func (s *MovieService) linkMovie(ctx context.Context, tx *sqlite.Store, movieID string, req MovieRequest) error {
	if req.Genres != nil {
		genreIDs, err := resolveGenres(ctx, tx, req.Genres)
		if err != nil {
			return err
		}
		if err := tx.SetMovieGenres(ctx, movieID, genreIDs); err != nil {
			return storeErr(err)
		}
	}
	if req.ProductionCompanies != nil {
		pcIDs, err := resolveCompanies(ctx, tx, req.ProductionCompanies)
		if err != nil {
			return err
		}
		if err := tx.SetMovieProductionCompanies(ctx, movieID, pcIDs); err != nil {
			return storeErr(err)
		}
	}
	if req.Series != nil {
		series, err := resolveSeries(ctx, tx, req.Series, nil)
		if err != nil {
			return err
		}
		for _, link := range series {
			if err := tx.UpsertMovieSeries(ctx, movieID, link.seriesID, link.orderNumber); err != nil {
				return storeErr(err)
			}
		}
	}
	return nil
}

// DeleteMovie removes a movie that has no instances.
func (s *MovieService) DeleteMovie(ctx context.Context, movieID string) error {
	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		if _, err := tx.GetMovie(ctx, movieID); err != nil {
			return storeErr(err)
		}
		instanceIDs, err := tx.MovieInstanceIDs(ctx, movieID)
		if err != nil {
			return err
		}
		if len(instanceIDs) > 0 {
			return domainerrors.Referencedf(
				"Cannot delete movie as there are associated movie instances: %s", strings.Join(instanceIDs, ", "))
		}
		return storeErr(tx.DeleteMovie(ctx, movieID))
	})
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	recordMutation("movie", opDelete)
	s.search.afterDelete(ctx, movieID)
	s.logger.Info("movie deleted", "id", movieID)
	return nil
}

// GetMovie returns a movie with its genres, production companies and series.
func (s *MovieService) GetMovie(ctx context.Context, movieID string) (*domain.Movie, error) {
	m, err := s.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, storeErr(err)
	}
	return m, nil
}

// ListMovies returns every movie, optionally filtered by a title substring.
func (s *MovieService) ListMovies(ctx context.Context, title string) ([]*domain.Movie, error) {
	movies, err := s.store.ListMovies(ctx, normalize.Text(title))
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	if movies == nil {
		movies = []*domain.Movie{}
	}
	return movies, nil
}

// MovieQuery identifies a movie by id, or by exact title plus release date.
type MovieQuery struct {
	ID          string
	Title       string
	ReleaseDate string
}

// MovieMatch is a resolved movie and the libraries already holding a copy.
type MovieMatch struct {
	Movie     *domain.Movie `json:"movie"`
	Libraries []string      `json:"libraries"`
}

// ResolveMovie looks a movie up. A query without an id or a full
// title/release date pair, or with no match, returns nil without error.
func (s *MovieService) ResolveMovie(ctx context.Context, q MovieQuery) (*MovieMatch, error) {
	var (
		m   *domain.Movie
		err error
	)
	title, releaseDate := normalize.Text(q.Title), normalize.Text(q.ReleaseDate)
	switch {
	case strings.TrimSpace(q.ID) != "":
		m, err = s.store.GetMovie(ctx, strings.TrimSpace(q.ID))
	case title != "" && releaseDate != "":
		released, parseErr := normalize.ParseDate(releaseDate)
		if parseErr != nil {
			return nil, nil
		}
		m, err = s.store.GetMovieByTitleAndReleaseDate(ctx, title, released)
	default:
		return nil, nil
	}
	if err != nil {
		if domainerrors.Is(storeErr(err), domainerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve movie: %w", err)
	}

	libraries, err := s.store.LibraryIDsForMovie(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("movie libraries: %w", err)
	}
	if libraries == nil {
		libraries = []string{}
	}
	return &MovieMatch{Movie: m, Libraries: libraries}, nil
}
