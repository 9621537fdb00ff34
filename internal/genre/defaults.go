package genre

// DefaultPaths is a starter taxonomy used when seeding an empty catalog.
var DefaultPaths = []string{
	"Fiction / Fantasy / Epic Fantasy",
	"Fiction / Fantasy / Urban Fantasy",
	"Fiction / Science Fiction / Space Opera",
	"Fiction / Science Fiction / Cyberpunk",
	"Fiction / Mystery & Thriller",
	"Fiction / Romance",
	"Fiction / Horror",
	"Fiction / Literary Fiction",
	"Non-Fiction / Biography & Memoir",
	"Non-Fiction / History",
	"Non-Fiction / Science",
	"Non-Fiction / Self-Help",
	"Film / Action",
	"Film / Animation",
	"Film / Comedy",
	"Film / Documentary",
	"Film / Drama",
}
