package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bibliohome/bibliohome-server/internal/domain"
	"github.com/bibliohome/bibliohome-server/internal/store"
)

// instanceTable describes where one media kind keeps its instances.
type instanceTable struct {
	kind        domain.MediaKind
	table       string // book_instances
	alias       string // bi
	entityCol   string // book_id
	entityTable string // books
	linkTable   string // library_book_instances
	linkCol     string // book_instance_id
	columns     string // select list, scan order of scanInstance
	notFound    string
}

var (
	bookInstances = instanceTable{
		kind:        domain.KindBook,
		table:       "book_instances",
		alias:       "bi",
		entityCol:   "book_id",
		entityTable: "books",
		linkTable:   "library_book_instances",
		linkCol:     "book_instance_id",
		columns:     `bi.id, bi.created_at, bi.updated_at, bi.status, bi.due_back, bi.number_of_copies, bi.book_id, bi.user_id`,
		notFound:    "Book instance not found",
	}
	movieInstances = instanceTable{
		kind:        domain.KindMovie,
		table:       "movie_instances",
		alias:       "mi",
		entityCol:   "movie_id",
		entityTable: "movies",
		linkTable:   "library_movie_instances",
		linkCol:     "movie_instance_id",
		columns:     `mi.id, mi.created_at, mi.updated_at, mi.status, mi.due_back, 0, mi.movie_id, mi.user_id`,
		notFound:    "Movie instance not found",
	}
)

func tableFor(kind domain.MediaKind) instanceTable {
	if kind == domain.KindMovie {
		return movieInstances
	}
	return bookInstances
}

func scanInstance(scanner interface{ Scan(dest ...any) error }, kind domain.MediaKind) (*domain.Instance, error) {
	var (
		inst                 domain.Instance
		createdAt, updatedAt string
		status               string
		dueBack              sql.NullString
		entityID             string
		userID               sql.NullString
	)
	err := scanner.Scan(&inst.ID, &createdAt, &updatedAt, &status, &dueBack,
		&inst.NumberOfCopies, &entityID, &userID)
	if err != nil {
		return nil, err
	}
	if inst.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if inst.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if inst.DueBack, err = parseNullableTime(dueBack); err != nil {
		return nil, err
	}

	inst.Kind = kind
	inst.Status = domain.InstanceStatus(status)
	inst.UserID = userID.String
	inst.Libraries = []domain.LibraryRef{}
	if kind == domain.KindMovie {
		inst.MovieID = entityID
	} else {
		inst.BookID = entityID
	}
	return &inst, nil
}

// CreateInstance inserts an instance row of inst.Kind and links it to libraryIDs.
func (s *Store) CreateInstance(ctx context.Context, inst *domain.Instance, libraryIDs []string) error {
	var err error
	switch inst.Kind {
	case domain.KindBook:
		_, err = s.q.ExecContext(ctx, `
			INSERT INTO book_instances (id, created_at, updated_at, status, due_back, number_of_copies, book_id, user_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			inst.ID, formatTime(inst.CreatedAt), formatTime(inst.UpdatedAt), string(inst.Status),
			nullTimeString(inst.DueBack), inst.NumberOfCopies, inst.BookID, nullString(inst.UserID))
	case domain.KindMovie:
		_, err = s.q.ExecContext(ctx, `
			INSERT INTO movie_instances (id, created_at, updated_at, status, due_back, movie_id, user_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			inst.ID, formatTime(inst.CreatedAt), formatTime(inst.UpdatedAt), string(inst.Status),
			nullTimeString(inst.DueBack), inst.MovieID, nullString(inst.UserID))
	default:
		return store.ErrInvalidInput.WithMessage("unknown media kind " + string(inst.Kind))
	}
	if isForeignKeyViolation(err) {
		return store.ErrNotFound.WithMessage("Referenced catalog entry or user not found")
	}
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("Instance already exists")
	}
	if err != nil {
		return fmt.Errorf("insert %s instance: %w", inst.Kind, err)
	}
	return s.SetInstanceLibraries(ctx, inst.Kind, inst.ID, libraryIDs)
}

// UpdateInstance overwrites the mutable columns of an instance.
func (s *Store) UpdateInstance(ctx context.Context, inst *domain.Instance) error {
	var (
		res sql.Result
		err error
	)
	switch inst.Kind {
	case domain.KindBook:
		res, err = s.q.ExecContext(ctx, `
			UPDATE book_instances SET updated_at = ?, status = ?, due_back = ?, number_of_copies = ?,
				book_id = ?, user_id = ?
			WHERE id = ?`,
			formatTime(inst.UpdatedAt), string(inst.Status), nullTimeString(inst.DueBack),
			inst.NumberOfCopies, inst.BookID, nullString(inst.UserID), inst.ID)
	case domain.KindMovie:
		res, err = s.q.ExecContext(ctx, `
			UPDATE movie_instances SET updated_at = ?, status = ?, due_back = ?, movie_id = ?, user_id = ?
			WHERE id = ?`,
			formatTime(inst.UpdatedAt), string(inst.Status), nullTimeString(inst.DueBack),
			inst.MovieID, nullString(inst.UserID), inst.ID)
	default:
		return store.ErrInvalidInput.WithMessage("unknown media kind " + string(inst.Kind))
	}
	if isForeignKeyViolation(err) {
		return store.ErrNotFound.WithMessage("Referenced catalog entry or user not found")
	}
	if err != nil {
		return fmt.Errorf("update %s instance: %w", inst.Kind, err)
	}
	return expectOne(res, tableFor(inst.Kind).notFound)
}

// SetInstanceLibraries replaces the library links of an instance.
func (s *Store) SetInstanceLibraries(ctx context.Context, kind domain.MediaKind, instanceID string, libraryIDs []string) error {
	t := tableFor(kind)
	return s.replaceLinks(ctx, t.linkTable, t.linkCol, "library_id", instanceID, libraryIDs)
}

// DeleteInstance removes an instance; its library links cascade.
func (s *Store) DeleteInstance(ctx context.Context, kind domain.MediaKind, instanceID string) error {
	t := tableFor(kind)
	res, err := s.q.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE id = ?`, instanceID)
	if err != nil {
		return fmt.Errorf("delete %s instance: %w", kind, err)
	}
	return expectOne(res, t.notFound)
}

// GetInstance retrieves one instance with its libraries and catalog entry.
func (s *Store) GetInstance(ctx context.Context, kind domain.MediaKind, instanceID string) (*domain.Instance, error) {
	t := tableFor(kind)
	row := s.q.QueryRowContext(ctx,
		`SELECT `+t.columns+` FROM `+t.table+` `+t.alias+` WHERE `+t.alias+`.id = ?`, instanceID)
	inst, err := scanInstance(row, kind)
	if err != nil {
		return nil, notFound(err, t.notFound)
	}
	if err := s.hydrateInstances(ctx, kind, []*domain.Instance{inst}); err != nil {
		return nil, err
	}
	return inst, nil
}

// ListInstances returns instances of one kind ordered by the catalog
// entry's sort title. A non-empty libraryID restricts to that library; a
// nil page returns every row.
func (s *Store) ListInstances(ctx context.Context, kind domain.MediaKind, libraryID string, page *store.PageParams) ([]*domain.Instance, error) {
	t := tableFor(kind)
	query := `SELECT ` + t.columns + ` FROM ` + t.table + ` ` + t.alias + `
		JOIN ` + t.entityTable + ` e ON e.id = ` + t.alias + `.` + t.entityCol
	var args []any
	if libraryID != "" {
		query += ` WHERE EXISTS (SELECT 1 FROM ` + t.linkTable + ` l
			WHERE l.` + t.linkCol + ` = ` + t.alias + `.id AND l.library_id = ?)`
		args = append(args, libraryID)
	}
	query += ` ORDER BY e.sort_title COLLATE NOCASE, e.title, ` + t.alias + `.id`
	if page != nil {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, page.Limit(), page.Offset())
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s instances: %w", kind, err)
	}
	out := []*domain.Instance{}
	for rows.Next() {
		inst, err := scanInstance(rows, kind)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan %s instance: %w", kind, err)
		}
		out = append(out, inst)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.hydrateInstances(ctx, kind, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountInstances returns how many instances of one kind exist, restricted
// to a library when libraryID is non-empty.
func (s *Store) CountInstances(ctx context.Context, kind domain.MediaKind, libraryID string) (int, error) {
	t := tableFor(kind)
	if libraryID == "" {
		return s.count(ctx, `SELECT COUNT(*) FROM `+t.table)
	}
	return s.count(ctx, `SELECT COUNT(DISTINCT `+t.linkCol+`) FROM `+t.linkTable+` WHERE library_id = ?`, libraryID)
}

// hydrateInstances attaches library refs and the catalog entry to each instance.
func (s *Store) hydrateInstances(ctx context.Context, kind domain.MediaKind, instances []*domain.Instance) error {
	if len(instances) == 0 {
		return nil
	}
	t := tableFor(kind)
	ids := make([]string, len(instances))
	entityIDs := make([]string, len(instances))
	for i, inst := range instances {
		ids[i] = inst.ID
		entityIDs[i] = inst.CatalogID()
	}

	libs, err := s.librariesForInstances(ctx, t, ids)
	if err != nil {
		return err
	}

	switch kind {
	case domain.KindBook:
		books, err := s.booksByID(ctx, entityIDs)
		if err != nil {
			return err
		}
		for _, inst := range instances {
			inst.Book = books[inst.BookID]
		}
	case domain.KindMovie:
		movies, err := s.moviesByID(ctx, entityIDs)
		if err != nil {
			return err
		}
		for _, inst := range instances {
			inst.Movie = movies[inst.MovieID]
		}
	}

	for _, inst := range instances {
		if l := libs[inst.ID]; l != nil {
			inst.Libraries = l
		}
	}
	return nil
}

func (s *Store) librariesForInstances(ctx context.Context, t instanceTable, instanceIDs []string) (map[string][]domain.LibraryRef, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT l.`+t.linkCol+`, lib.id, lib.name, lib.icon
		FROM `+t.linkTable+` l JOIN libraries lib ON lib.id = l.library_id
		WHERE l.`+t.linkCol+` IN (`+placeholders(len(instanceIDs))+`)
		ORDER BY lib.name COLLATE NOCASE`, stringArgs(instanceIDs)...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t.linkTable, err)
	}
	defer rows.Close()

	out := make(map[string][]domain.LibraryRef, len(instanceIDs))
	for rows.Next() {
		var (
			instanceID string
			ref        domain.LibraryRef
		)
		if err := rows.Scan(&instanceID, &ref.ID, &ref.Name, &ref.Icon); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.linkTable, err)
		}
		out[instanceID] = append(out[instanceID], ref)
	}
	return out, rows.Err()
}
