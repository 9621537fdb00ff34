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

// BookService orchestrates book operations.
type BookService struct {
	store     *sqlite.Store
	search    *SearchService
	logger    *slog.Logger
	validator *validation.Validator
}

// NewBookService creates a new book service. search may be nil.
func NewBookService(store *sqlite.Store, search *SearchService, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		search:    search,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateBookRequest contains fields for creating a book.
type CreateBookRequest struct {
	Title         string      `json:"title" validate:"required,max=500"`
	Authors       []AuthorRef `json:"authors"`
	ISBN10        string      `json:"isbn10" validate:"omitempty,max=13"`
	ISBN13        string      `json:"isbn13" validate:"omitempty,max=17"`
	Genres        []GenreRef  `json:"genres"`
	Subtitle      string      `json:"subtitle" validate:"max=500"`
	Description   string      `json:"description"`
	Photo         string      `json:"photo"`
	PageCount     *int        `json:"pageCount" validate:"omitempty,gte=0"`
	Binding       string      `json:"binding" validate:"omitempty,oneof=paperback hardcover"`
	Series        []SeriesRef `json:"series"`
	OrderNumber   *int        `json:"orderNumber"`
	Publisher     string      `json:"publisher"`
	PublishedDate string      `json:"publishedDate" validate:"isodate"`
}

func (r *CreateBookRequest) normalize() {
	r.Title = normalize.Text(r.Title)
	r.ISBN10 = normalize.ISBN(r.ISBN10)
	r.ISBN13 = normalize.ISBN(r.ISBN13)
	r.Subtitle = normalize.Text(r.Subtitle)
	r.Description = normalize.Description(r.Description)
	r.Photo = normalize.Text(r.Photo)
	r.Binding = strings.ToLower(normalize.Text(r.Binding))
	r.Publisher = normalize.Text(r.Publisher)
	r.PublishedDate = normalize.Text(r.PublishedDate)
}

// CreateBook creates a book, resolving its authors, genres and series, in
// one transaction.
func (s *BookService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	published, err := normalize.OptionalDate(req.PublishedDate)
	if err != nil {
		return nil, domainerrors.Validation("Invalid published date. Must be in ISO 8601 format.")
	}

	bookID, err := id.Generate(id.Book)
	if err != nil {
		return nil, err
	}
	b := &domain.Book{
		Entity:        domain.Entity{ID: bookID},
		Title:         req.Title,
		ISBN10:        req.ISBN10,
		ISBN13:        req.ISBN13,
		Subtitle:      req.Subtitle,
		Description:   req.Description,
		Photo:         req.Photo,
		PageCount:     req.PageCount,
		Publisher:     req.Publisher,
		PublishedDate: published,
		Binding:       domain.Binding(req.Binding),
	}
	b.InitTimestamps()

	err = s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		authorIDs, err := resolveAuthors(ctx, tx, req.Authors)
		if err != nil {
			return err
		}
		genreIDs, err := resolveGenres(ctx, tx, req.Genres)
		if err != nil {
			return err
		}
		series, err := resolveSeries(ctx, tx, req.Series, req.OrderNumber)
		if err != nil {
			return err
		}

		if err := tx.CreateBook(ctx, b); err != nil {
			return storeErr(err)
		}
		if err := tx.SetBookAuthors(ctx, b.ID, authorIDs); err != nil {
			return storeErr(err)
		}
		if err := tx.SetBookGenres(ctx, b.ID, genreIDs); err != nil {
			return storeErr(err)
		}
		for _, link := range series {
			if err := tx.UpsertBookSeries(ctx, b.ID, link.seriesID, link.orderNumber); err != nil {
				return storeErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	recordMutation("book", opCreate)
	s.search.afterBookWrite(ctx, b.ID)
	s.logger.Info("book created", "id", b.ID, "title", b.Title)

	return s.GetBook(ctx, b.ID)
}

// UpdateBookRequest contains fields for updating a book. Empty scalars are
// left unchanged; a non-nil association list replaces the existing links,
// except series, which are upserted alongside the existing ones.
type UpdateBookRequest struct {
	Title         string      `json:"title" validate:"max=500"`
	Authors       []AuthorRef `json:"authors"`
	ISBN10        string      `json:"isbn10" validate:"omitempty,max=13"`
	ISBN13        string      `json:"isbn13" validate:"omitempty,max=17"`
	Genres        []GenreRef  `json:"genres"`
	Subtitle      string      `json:"subtitle" validate:"max=500"`
	Description   string      `json:"description"`
	Photo         string      `json:"photo"`
	PageCount     *int        `json:"pageCount" validate:"omitempty,gte=0"`
	Binding       string      `json:"binding" validate:"omitempty,oneof=paperback hardcover"`
	Series        []SeriesRef `json:"series"`
	OrderNumber   *int        `json:"orderNumber"`
	Publisher     string      `json:"publisher"`
	PublishedDate string      `json:"publishedDate" validate:"isodate"`
}

// UpdateBook applies the supplied fields to a book.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	create := CreateBookRequest(req)
	create.normalize()
	req = UpdateBookRequest(create)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	published, err := normalize.OptionalDate(req.PublishedDate)
	if err != nil {
		return nil, domainerrors.Validation("Invalid published date. Must be in ISO 8601 format.")
	}

	err = s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		b, err := tx.GetBook(ctx, bookID)
		if err != nil {
			return storeErr(err)
		}

		setIfNotEmpty(&b.Title, req.Title)
		setIfNotEmpty(&b.ISBN10, req.ISBN10)
		setIfNotEmpty(&b.ISBN13, req.ISBN13)
		setIfNotEmpty(&b.Subtitle, req.Subtitle)
		setIfNotEmpty(&b.Description, req.Description)
		setIfNotEmpty(&b.Photo, req.Photo)
		setIfNotEmpty(&b.Publisher, req.Publisher)
		if req.PageCount != nil && *req.PageCount > 0 {
			b.PageCount = req.PageCount
		}
		if req.Binding != "" {
			b.Binding = domain.Binding(req.Binding)
		}
		if published != nil {
			b.PublishedDate = published
		}
		b.Touch()

		if err := tx.UpdateBook(ctx, b); err != nil {
			return storeErr(err)
		}

		if req.Authors != nil {
			authorIDs, err := resolveAuthors(ctx, tx, req.Authors)
			if err != nil {
				return err
			}
			if err := tx.SetBookAuthors(ctx, b.ID, authorIDs); err != nil {
				return storeErr(err)
			}
		}
		if req.Genres != nil {
			genreIDs, err := resolveGenres(ctx, tx, req.Genres)
			if err != nil {
				return err
			}
			if err := tx.SetBookGenres(ctx, b.ID, genreIDs); err != nil {
				return storeErr(err)
			}
		}
		if req.Series != nil {
			series, err := resolveSeries(ctx, tx, req.Series, req.OrderNumber)
			if err != nil {
				return err
			}
			for _, link := range series {
				if err := tx.UpsertBookSeries(ctx, b.ID, link.seriesID, link.orderNumber); err != nil {
					return storeErr(err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	recordMutation("book", opUpdate)
	s.search.afterBookWrite(ctx, bookID)
	s.logger.Info("book updated", "id", bookID)

	return s.GetBook(ctx, bookID)
}

// DeleteBook removes a book that has no instances.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	err := s.store.WithTx(ctx, func(tx *sqlite.Store) error {
		if _, err := tx.GetBook(ctx, bookID); err != nil {
			return storeErr(err)
		}
		instanceIDs, err := tx.BookInstanceIDs(ctx, bookID)
		if err != nil {
			return err
		}
		if len(instanceIDs) > 0 {
			return domainerrors.Referencedf(
				"Cannot delete book as there are associated book instances: %s", strings.Join(instanceIDs, ", "))
		}
		return storeErr(tx.DeleteBook(ctx, bookID))
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	recordMutation("book", opDelete)
	s.search.afterDelete(ctx, bookID)
	s.logger.Info("book deleted", "id", bookID)
	return nil
}

// GetBook returns a book with its authors, genres and series.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	b, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

// ListBooks returns every book, optionally filtered by a title substring.
func (s *BookService) ListBooks(ctx context.Context, title string) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx, normalize.Text(title))
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return books, nil
}

// BookQuery identifies a book by id, ISBN-10 or ISBN-13, tried in that order.
type BookQuery struct {
	ID     string
	ISBN10 string
	ISBN13 string
}

// BookMatch is a resolved book and the libraries already holding a copy.
type BookMatch struct {
	Book      *domain.Book `json:"book"`
	Libraries []string     `json:"libraries"`
}

// ResolveBook looks a book up by its identifiers. A query with no
// identifier or no match returns nil without error.
func (s *BookService) ResolveBook(ctx context.Context, q BookQuery) (*BookMatch, error) {
	var (
		b   *domain.Book
		err error
	)
	switch {
	case strings.TrimSpace(q.ID) != "":
		b, err = s.store.GetBook(ctx, strings.TrimSpace(q.ID))
	case normalize.ISBN(q.ISBN10) != "":
		b, err = s.store.GetBookByISBN10(ctx, normalize.ISBN(q.ISBN10))
	case normalize.ISBN(q.ISBN13) != "":
		b, err = s.store.GetBookByISBN13(ctx, normalize.ISBN(q.ISBN13))
	default:
		return nil, nil
	}
	if err != nil {
		if domainerrors.Is(storeErr(err), domainerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve book: %w", err)
	}

	readers, err := s.store.BookReaders(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("book readers: %w", err)
	}
	b.Readers = readers

	libraries, err := s.store.LibraryIDsForBook(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("book libraries: %w", err)
	}
	if libraries == nil {
		libraries = []string{}
	}
	return &BookMatch{Book: b, Libraries: libraries}, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
