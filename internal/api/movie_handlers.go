package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/service"
)

func (s *Server) registerMovieRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createMovie",
		Method:        http.MethodPost,
		Path:          "/api/movie",
		Summary:       "Create movie",
		Description:   "Creates a movie, resolving genres, production companies and series by id or name",
		Tags:          []string{"Movies"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMovies",
		Method:      http.MethodGet,
		Path:        "/api/movie",
		Summary:     "List movies",
		Description: "Returns every movie, optionally filtered by title",
		Tags:        []string{"Movies"},
	}, s.handleListMovies)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchMovie",
		Method:      http.MethodGet,
		Path:        "/api/movie/search",
		Summary:     "Find movie",
		Description: "Looks a movie up by id, or by exact title and release date. A miss returns an empty object.",
		Tags:        []string{"Movies"},
	}, s.handleSearchMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovie",
		Method:      http.MethodGet,
		Path:        "/api/movie/{id}",
		Summary:     "Get movie",
		Description: "Returns a movie with its genres, production companies and series",
		Tags:        []string{"Movies"},
	}, s.handleGetMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMovie",
		Method:      http.MethodPost,
		Path:        "/api/movie/{id}/update",
		Summary:     "Update movie",
		Description: "Overwrites the supplied fields; supplied association lists replace the existing links",
		Tags:        []string{"Movies"},
	}, s.handleUpdateMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMovie",
		Method:      http.MethodPost,
		Path:        "/api/movie/{id}/delete",
		Summary:     "Delete movie",
		Description: "Deletes a movie that no instance refers to",
		Tags:        []string{"Movies"},
	}, s.handleDeleteMovie)
}

// === DTOs ===

// MovieRequest is the body for creating or updating a movie.
type MovieRequest struct {
	Title               string         `json:"title,omitempty" doc:"Title (required on create)"`
	ReleaseDate         string         `json:"releaseDate,omitempty" doc:"ISO-8601 release date (required on create)"`
	Subtitle            string         `json:"subtitle,omitempty" doc:"Subtitle"`
	Description         string         `json:"description,omitempty" doc:"Description; HTML is converted to Markdown"`
	UPC                 string         `json:"upc,omitempty" doc:"Universal product code"`
	Runtime             *int64         `json:"runtime,omitempty" doc:"Runtime in minutes"`
	Budget              *int64         `json:"budget,omitempty" doc:"Budget"`
	Revenue             *int64         `json:"revenue,omitempty" doc:"Revenue"`
	Photo               string         `json:"photo,omitempty" doc:"Poster image URL"`
	Genres              []GenreInput   `json:"genres,omitempty" doc:"Genre names or references"`
	ProductionCompanies []CompanyInput `json:"productionCompanies,omitempty" doc:"Production company names or references"`
	Series              []SeriesInput  `json:"series,omitempty" doc:"Series names or references"`
}

func (r MovieRequest) toService() service.MovieRequest {
	return service.MovieRequest{
		Title:               r.Title,
		ReleaseDate:         r.ReleaseDate,
		Subtitle:            r.Subtitle,
		Description:         r.Description,
		UPC:                 r.UPC,
		Runtime:             r.Runtime,
		Budget:              r.Budget,
		Revenue:             r.Revenue,
		Photo:               r.Photo,
		Genres:              genreRefs(r.Genres),
		ProductionCompanies: companyRefs(r.ProductionCompanies),
		Series:              seriesRefs(r.Series),
	}
}

// CreateMovieInput wraps the create request for Huma.
type CreateMovieInput struct {
	Body MovieRequest
}

// UpdateMovieInput wraps the update request for Huma.
type UpdateMovieInput struct {
	ID   string `path:"id" doc:"Movie ID"`
	Body MovieRequest
}

// MovieOutput wraps a single movie for Huma.
type MovieOutput struct {
	Body *domain.Movie
}

// ListMoviesOutput wraps the movie list for Huma.
type ListMoviesOutput struct {
	Body []*domain.Movie
}

// SearchMovieInput identifies a movie by id or by title and release date.
type SearchMovieInput struct {
	ID          string `query:"id" doc:"Movie ID"`
	Title       string `query:"title" doc:"Exact title"`
	ReleaseDate string `query:"releaseDate" doc:"ISO-8601 release date, compared by day"`
}

// MovieSearchResponse is a resolved movie and the ids of the libraries that
// already hold a copy.
type MovieSearchResponse struct {
	Movie     *domain.Movie `json:"movie" doc:"Movie with genres, production companies and series"`
	Libraries []string      `json:"libraries" doc:"Library IDs holding an instance, in first-seen order"`
}

// SearchMovieOutput is a MovieSearchResponse on a hit and {} on a miss.
type SearchMovieOutput struct {
	Body any
}

// === Handlers ===

func (s *Server) handleCreateMovie(ctx context.Context, input *CreateMovieInput) (*MovieOutput, error) {
	m, err := s.services.Movie.CreateMovie(ctx, input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: m}, nil
}

func (s *Server) handleListMovies(ctx context.Context, input *TitleFilterInput) (*ListMoviesOutput, error) {
	movies, err := s.services.Movie.ListMovies(ctx, input.Title)
	if err != nil {
		return nil, err
	}
	return &ListMoviesOutput{Body: orEmpty(movies)}, nil
}

func (s *Server) handleSearchMovie(ctx context.Context, input *SearchMovieInput) (*SearchMovieOutput, error) {
	match, err := s.services.Movie.ResolveMovie(ctx, service.MovieQuery{
		ID:          input.ID,
		Title:       input.Title,
		ReleaseDate: input.ReleaseDate,
	})
	if err != nil {
		return nil, err
	}
	if match == nil {
		return &SearchMovieOutput{Body: struct{}{}}, nil
	}
	return &SearchMovieOutput{Body: MovieSearchResponse{Movie: match.Movie, Libraries: match.Libraries}}, nil
}

func (s *Server) handleGetMovie(ctx context.Context, input *IDInput) (*MovieOutput, error) {
	m, err := s.services.Movie.GetMovie(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: m}, nil
}

func (s *Server) handleUpdateMovie(ctx context.Context, input *UpdateMovieInput) (*MovieOutput, error) {
	m, err := s.services.Movie.UpdateMovie(ctx, input.ID, input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: m}, nil
}

func (s *Server) handleDeleteMovie(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Movie.DeleteMovie(ctx, input.ID); err != nil {
		return nil, err
	}
	return deleted("Movie"), nil
}
