package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/metrics"
	"github.com/bibliohome/bibliohome-server/internal/search"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
)

// SearchService keeps the full-text index in step with the store and runs
// catalog queries against it.
type SearchService struct {
	index  *search.SearchIndex
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *sqlite.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a free-text query over books and movies.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	start := time.Now()
	res, err := s.index.Search(ctx, params)
	metrics.RecordSearch(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	return res, nil
}

// IndexBook reloads a book with its associations and (re)indexes it.
func (s *SearchService) IndexBook(ctx context.Context, bookID string) error {
	b, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("get book: %w", err)
	}
	if err := s.index.IndexDocument(search.BookToSearchDocument(b)); err != nil {
		return fmt.Errorf("index book: %w", err)
	}
	s.logger.Debug("indexed book", "id", b.ID, "title", b.Title)
	return nil
}

// IndexMovie reloads a movie with its associations and (re)indexes it.
func (s *SearchService) IndexMovie(ctx context.Context, movieID string) error {
	m, err := s.store.GetMovie(ctx, movieID)
	if err != nil {
		return fmt.Errorf("get movie: %w", err)
	}
	if err := s.index.IndexDocument(search.MovieToSearchDocument(m)); err != nil {
		return fmt.Errorf("index movie: %w", err)
	}
	s.logger.Debug("indexed movie", "id", m.ID, "title", m.Title)
	return nil
}

// Remove deletes a book or movie from the index.
func (s *SearchService) Remove(_ context.Context, id string) error {
	return s.index.DeleteDocument(id)
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll drops the index and rebuilds it from every book and movie in the store.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	books, err := s.store.ListBooks(ctx, "")
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}
	movies, err := s.store.ListMovies(ctx, "")
	if err != nil {
		return fmt.Errorf("list movies: %w", err)
	}

	docs := make([]*search.SearchDocument, 0, len(books)+len(movies))
	for _, b := range books {
		docs = append(docs, search.BookToSearchDocument(b))
	}
	for _, m := range movies {
		docs = append(docs, search.MovieToSearchDocument(m))
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index catalog: %w", err)
	}

	metrics.SetIndexedDocuments(uint64(len(docs)))
	s.logger.Info("reindex complete", "books", len(books), "movies", len(movies))
	return nil
}

// afterBookWrite refreshes a book's document. Index failures are logged,
// the store stays the source of truth.
func (s *SearchService) afterBookWrite(ctx context.Context, bookID string) {
	if s == nil {
		return
	}
	if err := s.IndexBook(ctx, bookID); err != nil {
		s.logger.Warn("failed to index book", "id", bookID, "error", err)
	}
}

func (s *SearchService) afterMovieWrite(ctx context.Context, movieID string) {
	if s == nil {
		return
	}
	if err := s.IndexMovie(ctx, movieID); err != nil {
		s.logger.Warn("failed to index movie", "id", movieID, "error", err)
	}
}

func (s *SearchService) afterDelete(ctx context.Context, id string) {
	if s == nil {
		return
	}
	if err := s.Remove(ctx, id); err != nil {
		s.logger.Warn("failed to remove document from index", "id", id, "error", err)
	}
}
