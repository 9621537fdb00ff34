package service

import (
	"context"
	"strings"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	domainerrors "github.com/bibliohome/bibliohome-server/internal/errors"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
)

// AuthorRef names an existing author by ID, or describes one to
// find-or-create. Name is free text ("Ursula K. Le Guin"); FirstName and
// LastName are used as given when Name is empty.
type AuthorRef struct {
	ID        string
	Name      string
	FirstName string
	LastName  string
}

// GenreRef names an existing genre by ID or a breadcrumb path to find-or-create.
type GenreRef struct {
	ID   string
	Path string
}

// SeriesRef names an existing series by ID or a name to find-or-create.
// OrderNumber is the position of the owning book or movie in the series.
type SeriesRef struct {
	ID          string
	Name        string
	OrderNumber *int
}

// CompanyRef names an existing production company by ID or one to
// find-or-create by name.
type CompanyRef struct {
	ID    string
	Name  string
	Photo string
}

type seriesLink struct {
	seriesID    string
	orderNumber *int
}

func resolveAuthors(ctx context.Context, st *sqlite.Store, refs []AuthorRef) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.ID != "" {
			a, err := st.GetAuthor(ctx, ref.ID)
			if err != nil {
				return nil, storeErr(err)
			}
			ids = append(ids, a.ID)
			continue
		}

		first, last := strings.TrimSpace(ref.FirstName), strings.TrimSpace(ref.LastName)
		if name := strings.TrimSpace(ref.Name); name != "" {
			first, last = domain.ParseAuthorName(name)
		}
		if first == "" && last == "" {
			continue
		}
		a, err := st.FindOrCreateAuthor(ctx, first, last)
		if err != nil {
			return nil, storeErr(err)
		}
		ids = append(ids, a.ID)
	}
	return uniqueIDs(ids), nil
}

// resolveGenres returns the leaf genre of each path.
func resolveGenres(ctx context.Context, st *sqlite.Store, refs []GenreRef) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.ID != "" {
			g, err := st.GetGenre(ctx, ref.ID)
			if err != nil {
				return nil, storeErr(err)
			}
			ids = append(ids, g.ID)
			continue
		}
		if strings.TrimSpace(ref.Path) == "" {
			continue
		}
		chain, err := st.FindOrCreateGenrePath(ctx, ref.Path)
		if err != nil {
			return nil, storeErr(err)
		}
		if len(chain) == 0 {
			continue
		}
		ids = append(ids, chain[len(chain)-1].ID)
	}
	return uniqueIDs(ids), nil
}

// resolveSeries resolves each ref, giving it its own order number or
// fallback when it has none.
func resolveSeries(ctx context.Context, st *sqlite.Store, refs []SeriesRef, fallback *int) ([]seriesLink, error) {
	links := make([]seriesLink, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		var sr *domain.Series
		var err error
		switch {
		case ref.ID != "":
			sr, err = st.GetSeries(ctx, ref.ID)
		case strings.TrimSpace(ref.Name) != "":
			sr, err = st.FindOrCreateSeries(ctx, strings.TrimSpace(ref.Name))
		default:
			continue
		}
		if err != nil {
			return nil, storeErr(err)
		}
		if seen[sr.ID] {
			continue
		}
		seen[sr.ID] = true

		order := ref.OrderNumber
		if order == nil {
			order = fallback
		}
		links = append(links, seriesLink{seriesID: sr.ID, orderNumber: order})
	}
	return links, nil
}

func resolveCompanies(ctx context.Context, st *sqlite.Store, refs []CompanyRef) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.ID != "" {
			pc, err := st.GetProductionCompany(ctx, ref.ID)
			if err != nil {
				return nil, storeErr(err)
			}
			ids = append(ids, pc.ID)
			continue
		}
		name := strings.TrimSpace(ref.Name)
		if name == "" {
			continue
		}
		pc, err := st.FindOrCreateProductionCompany(ctx, name, strings.TrimSpace(ref.Photo))
		if err != nil {
			return nil, storeErr(err)
		}
		ids = append(ids, pc.ID)
	}
	return uniqueIDs(ids), nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// requireFound converts a store not-found into a domain error with msg.
func requireFound(err error, msg string) error {
	err = storeErr(err)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound(msg).WithCause(err)
	}
	return err
}
