// Package main provides a tool to seed the catalog with a starter genre
// taxonomy and, optionally, demo data.
//
// Genres and a default library are always created when missing. --demo
// adds a handful of books, movies and instances; --create-users adds test
// users with random reading statuses on the demo books.
//
// Usage:
//
//	go run ./cmd/seed
//	go run ./cmd/seed --demo --create-users -- --db-path ~/Bibliohome/bibliohome.db
//
// Arguments after -- are server flags (see internal/config).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/bibliohome/bibliohome-server/internal/auth"
	"github.com/bibliohome/bibliohome-server/internal/config"
	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/genre"
	"github.com/bibliohome/bibliohome-server/internal/logger"
	"github.com/bibliohome/bibliohome-server/internal/search"
	"github.com/bibliohome/bibliohome-server/internal/service"
	"github.com/bibliohome/bibliohome-server/internal/store/sqlite"
)

type seeder struct {
	books     *service.BookService
	movies    *service.MovieService
	genres    *service.GenreService
	libraries *service.LibraryService
	instances *service.InstanceService
	status    *service.ReadingStatusService
	users     *service.UserService
}

func main() {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	demo := fs.Bool("demo", false, "Create demo books, movies and instances")
	createUsers := fs.Bool("create-users", false, "Create test users with reading statuses")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs.Args())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg := logger.New(logger.Config{
		Format:      logger.FormatText,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	fmt.Printf("Opening database at: %s\n", cfg.Database.Path)

	st, err := sqlite.Open(cfg.Database.Path, lg.Logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	index, err := search.NewSearchIndex(search.Options{DataPath: cfg.Search.IndexPath, Logger: lg.Logger})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	searchSvc := service.NewSearchService(index, st, lg.Logger)
	s := &seeder{
		books:     service.NewBookService(st, searchSvc, lg.Logger),
		movies:    service.NewMovieService(st, searchSvc, lg.Logger),
		genres:    service.NewGenreService(st, lg.Logger),
		libraries: service.NewLibraryService(st, lg.Logger),
		instances: service.NewInstanceService(st, lg.Logger),
		status:    service.NewReadingStatusService(st, lg.Logger),
		users:     service.NewUserService(st, auth.NewHasher(auth.DefaultParams), service.NewLogNotifier(lg.Logger), lg.Logger),
	}

	ctx := context.Background()

	s.seedGenres(ctx)
	lib := s.ensureLibrary(ctx)

	var books []*domain.Book
	if *demo {
		books = s.seedDemo(ctx, lib)
	}
	if *createUsers {
		s.seedUsers(ctx, books)
	}

	fmt.Println("\nDone!")
}

func (s *seeder) seedGenres(ctx context.Context) {
	fmt.Println("\n=== Genres ===")
	for _, path := range genre.DefaultPaths {
		if _, err := s.genres.CreateGenre(ctx, service.CreateGenreRequest{Path: path}); err != nil {
			log.Printf("Failed to create genre %q: %v", path, err)
			continue
		}
	}
	all, err := s.genres.ListGenres(ctx, "")
	if err != nil {
		log.Printf("Failed to list genres: %v", err)
		return
	}
	fmt.Printf("  %d genres in catalog\n", len(all))
}

func (s *seeder) ensureLibrary(ctx context.Context) *domain.Library {
	libs, err := s.libraries.ListLibraries(ctx, "")
	if err != nil {
		log.Fatalf("Failed to list libraries: %v", err)
	}
	if len(libs) > 0 {
		fmt.Printf("\nUsing library: %s (%s)\n", libs[0].Name, libs[0].ID)
		return libs[0]
	}
	lib, err := s.libraries.CreateLibrary(ctx, service.LibraryRequest{Name: "Home"})
	if err != nil {
		log.Fatalf("Failed to create library: %v", err)
	}
	fmt.Printf("\nCreated library: %s (%s)\n", lib.Name, lib.ID)
	return lib
}

func intp(n int) *int { return &n }

var demoBooks = []service.CreateBookRequest{
	{
		Title:         "A Wizard of Earthsea",
		Authors:       []service.AuthorRef{{Name: "Ursula K. Le Guin"}},
		Genres:        []service.GenreRef{{Path: "Fiction / Fantasy / Epic Fantasy"}},
		Series:        []service.SeriesRef{{Name: "Earthsea", OrderNumber: intp(1)}},
		ISBN13:        "9780547773742",
		PublishedDate: "1968-01-01",
		Binding:       "paperback",
	},
	{
		Title:         "The Tombs of Atuan",
		Authors:       []service.AuthorRef{{Name: "Ursula K. Le Guin"}},
		Genres:        []service.GenreRef{{Path: "Fiction / Fantasy / Epic Fantasy"}},
		Series:        []service.SeriesRef{{Name: "Earthsea", OrderNumber: intp(2)}},
		ISBN13:        "9780547773711",
		PublishedDate: "1971-01-01",
		Binding:       "paperback",
	},
	{
		Title:         "Neuromancer",
		Authors:       []service.AuthorRef{{Name: "William Gibson"}},
		Genres:        []service.GenreRef{{Path: "Fiction / Science Fiction / Cyberpunk"}},
		ISBN13:        "9780441569595",
		PublishedDate: "1984-07-01",
		Binding:       "hardcover",
	},
	{
		Title:         "Sapiens",
		Subtitle:      "A Brief History of Humankind",
		Authors:       []service.AuthorRef{{Name: "Yuval Noah Harari"}},
		Genres:        []service.GenreRef{{Path: "Non-Fiction / History"}},
		ISBN13:        "9780062316097",
		PublishedDate: "2015-02-10",
		Binding:       "hardcover",
	},
}

var demoMovies = []service.MovieRequest{
	{
		Title:               "Spirited Away",
		ReleaseDate:         "2001-07-20",
		Genres:              []service.GenreRef{{Path: "Film / Animation"}},
		ProductionCompanies: []service.CompanyRef{{Name: "Studio Ghibli"}},
	},
	{
		Title:               "Blade Runner",
		ReleaseDate:         "1982-06-25",
		Genres:              []service.GenreRef{{Path: "Film / Drama"}},
		ProductionCompanies: []service.CompanyRef{{Name: "The Ladd Company"}},
	},
}

func (s *seeder) seedDemo(ctx context.Context, lib *domain.Library) []*domain.Book {
	fmt.Println("\n=== Demo catalog ===")

	var books []*domain.Book
	for _, req := range demoBooks {
		b, err := s.books.CreateBook(ctx, req)
		if err != nil {
			log.Printf("Failed to create book %q: %v", req.Title, err)
			continue
		}
		books = append(books, b)
		if _, err := s.instances.CreateInstance(ctx, domain.KindBook, service.InstanceRequest{
			Status:     string(domain.StatusAvailable),
			CatalogID:  b.ID,
			LibraryIDs: []string{lib.ID},
		}); err != nil {
			log.Printf("Failed to create instance of %q: %v", b.Title, err)
		}
		fmt.Printf("  Book: %s\n", b.Title)
	}

	for _, req := range demoMovies {
		m, err := s.movies.CreateMovie(ctx, req)
		if err != nil {
			log.Printf("Failed to create movie %q: %v", req.Title, err)
			continue
		}
		if _, err := s.instances.CreateInstance(ctx, domain.KindMovie, service.InstanceRequest{
			Status:     string(domain.StatusAvailable),
			CatalogID:  m.ID,
			LibraryIDs: []string{lib.ID},
		}); err != nil {
			log.Printf("Failed to create instance of %q: %v", m.Title, err)
		}
		fmt.Printf("  Movie: %s\n", m.Title)
	}

	return books
}

var testUsers = []struct {
	username, first, last string
}{
	{"alex", "Alex", "Johnson"},
	{"jordan", "Jordan", "Smith"},
	{"sam", "Sam", "Taylor"},
}

var statuses = []domain.ReadingStatus{
	domain.ReadingUnread,
	domain.ReadingReading,
	domain.ReadingRead,
	domain.ReadingAbandoned,
}

func (s *seeder) seedUsers(ctx context.Context, books []*domain.Book) {
	fmt.Println("\n=== Test users ===")

	for _, tu := range testUsers {
		u, err := s.users.CreateUser(ctx, service.CreateUserRequest{
			Username:  tu.username,
			Password:  "password",
			Email:     tu.username + "@example.com",
			FirstName: tu.first,
			LastName:  tu.last,
		})
		if err != nil {
			log.Printf("Failed to create user %s: %v", tu.username, err)
			continue
		}
		fmt.Printf("  User: %s (%s)\n", u.Username, u.ID)

		for _, b := range books {
			st := statuses[rand.IntN(len(statuses))]
			if _, err := s.status.UpdateStatus(ctx, service.UpdateStatusRequest{
				BookID: b.ID,
				UserID: u.ID,
				Status: string(st),
			}); err != nil {
				log.Printf("Failed to set status for %s on %q: %v", u.Username, b.Title, err)
			}
		}
	}
}
