package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/walklog/backend/internal/domain"
)

// EntryRepo defines the persistence operations for Entries, their
// participants, and their likes.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type EntryRepo interface {
	// Create inserts a new entry together with its participants and returns
	// the persisted record. Returns domain.ErrConflict if the entry is an
	// active auto entry and another one is already running, and
	// domain.ErrValidation if a participant email is not a known user.
	Create(ctx context.Context, entry domain.Entry) (domain.Entry, error)

	// GetByID retrieves a single entry by its UUID primary key.
	// Returns domain.ErrNotFound if no entry with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error)

	// GetActive returns the running auto entry.
	// Returns domain.ErrNotFound when nothing is running.
	GetActive(ctx context.Context) (domain.Entry, error)

	// List returns all entries ordered by start_time descending.
	List(ctx context.Context) ([]domain.Entry, error)

	// ListPaged returns one page of entries ordered by start_time descending,
	// and the total number of entries.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Entry, int64, error)

	// ListBetween returns entries with from <= start_time < to, ordered by
	// start_time descending.
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Entry, error)

	// Update overwrites the mutable fields and the participant list of an
	// existing entry. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, entry domain.Entry) (domain.Entry, error)

	// Delete removes an entry by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddLike records that email liked the entry. Idempotent.
	// Returns domain.ErrNotFound if the entry does not exist and
	// domain.ErrValidation if the email is not a known user.
	AddLike(ctx context.Context, id uuid.UUID, email string) error

	// RemoveLike removes a like. Returns domain.ErrNotFound if there was none.
	RemoveLike(ctx context.Context, id uuid.UUID, email string) error
}

// pgEntryRepo is the Postgres implementation of EntryRepo.
type pgEntryRepo struct {
	db db
}

// NewEntryRepo constructs an EntryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewEntryRepo(db db) EntryRepo {
	return &pgEntryRepo{db: db}
}

const entryColumns = `id, start_time, end_time, status, mode, location, poops, pees, created_at, updated_at`

// Create inserts the entry row and its participants in one transaction.
func (r *pgEntryRepo) Create(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	const q = `
		INSERT INTO entries (start_time, end_time, status, mode, location, poops, pees)
		VALUES (@start_time, @end_time, @status, @mode, @location, @poops, @pees)
		RETURNING ` + entryColumns

	var result domain.Entry
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		result, err = scanEntry(tx.QueryRow(ctx, q, entryArgs(entry)))
		if err != nil {
			return err
		}
		if err := insertParticipants(ctx, tx, result.ID, entry.Users); err != nil {
			return err
		}
		return loadRelations(ctx, tx, []*domain.Entry{&result})
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("repo.EntryRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

// GetByID retrieves an entry by primary key, with participants and likes.
func (r *pgEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	const q = `SELECT ` + entryColumns + ` FROM entries WHERE id = @id`

	result, err := r.getOne(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("repo.EntryRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetActive retrieves the running auto entry.
func (r *pgEntryRepo) GetActive(ctx context.Context) (domain.Entry, error) {
	const q = `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE status = 'active' AND mode = 'auto'
		ORDER BY start_time DESC
		LIMIT 1`

	result, err := r.getOne(ctx, q)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("repo.EntryRepo.GetActive: %w", err)
	}
	return result, nil
}

// List returns every entry, most recent first.
func (r *pgEntryRepo) List(ctx context.Context) ([]domain.Entry, error) {
	const q = `SELECT ` + entryColumns + ` FROM entries ORDER BY start_time DESC`

	entries, err := r.getMany(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.EntryRepo.List: %w", err)
	}
	return entries, nil
}

// ListPaged returns one page of entries and the total entry count.
func (r *pgEntryRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Entry, int64, error) {
	const q = `
		SELECT ` + entryColumns + `
		FROM entries
		ORDER BY start_time DESC
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM entries`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.EntryRepo.ListPaged: count: %w", err)
	}

	entries, err := r.getMany(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.EntryRepo.ListPaged: %w", err)
	}
	return entries, total, nil
}

// ListBetween returns entries that started in [from, to).
func (r *pgEntryRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Entry, error) {
	const q = `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE start_time >= @from AND start_time < @to
		ORDER BY start_time DESC`

	entries, err := r.getMany(ctx, q, pgx.NamedArgs{"from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("repo.EntryRepo.ListBetween: %w", err)
	}
	return entries, nil
}

// Update overwrites the mutable fields and replaces the participant list.
func (r *pgEntryRepo) Update(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	const q = `
		UPDATE entries
		SET start_time = @start_time,
		    end_time   = @end_time,
		    status     = @status,
		    mode       = @mode,
		    location   = @location,
		    poops      = @poops,
		    pees       = @pees,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + entryColumns

	args := entryArgs(entry)
	args["id"] = entry.ID

	var result domain.Entry
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		result, err = scanEntry(tx.QueryRow(ctx, q, args))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM entry_users WHERE entry_id = @id`, pgx.NamedArgs{"id": entry.ID}); err != nil {
			return err
		}
		if err := insertParticipants(ctx, tx, entry.ID, entry.Users); err != nil {
			return err
		}
		return loadRelations(ctx, tx, []*domain.Entry{&result})
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("repo.EntryRepo.Update: %w", mapWriteError(err))
	}
	return result, nil
}

// Delete removes an entry; participants and likes cascade.
func (r *pgEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM entries WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.EntryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EntryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// AddLike inserts a like row, ignoring duplicates.
func (r *pgEntryRepo) AddLike(ctx context.Context, id uuid.UUID, email string) error {
	const q = `
		INSERT INTO entry_likes (entry_id, user_email)
		VALUES (@id, @email)
		ON CONFLICT (entry_id, user_email) DO NOTHING`

	// The savepoint keeps a constraint failure from aborting a caller's transaction.
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, pgx.NamedArgs{"id": id, "email": email})
		return err
	})
	if err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgForeignKeyViolation &&
			pgErr.ConstraintName == "entry_likes_entry_id_fkey" {
			return fmt.Errorf("repo.EntryRepo.AddLike: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.EntryRepo.AddLike: %w", mapWriteError(err))
	}
	return nil
}

// RemoveLike deletes a like row.
func (r *pgEntryRepo) RemoveLike(ctx context.Context, id uuid.UUID, email string) error {
	const q = `DELETE FROM entry_likes WHERE entry_id = @id AND user_email = @email`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "email": email})
	if err != nil {
		return fmt.Errorf("repo.EntryRepo.RemoveLike: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EntryRepo.RemoveLike: %w", domain.ErrNotFound)
	}
	return nil
}

// getOne runs a single-row query and loads the entry's relations.
func (r *pgEntryRepo) getOne(ctx context.Context, q string, args ...any) (domain.Entry, error) {
	result, err := scanEntry(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		return domain.Entry{}, err
	}
	if err := loadRelations(ctx, r.db, []*domain.Entry{&result}); err != nil {
		return domain.Entry{}, err
	}
	return result, nil
}

// getMany runs a multi-row query and loads relations for every entry.
func (r *pgEntryRepo) getMany(ctx context.Context, q string, args ...any) ([]domain.Entry, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	ptrs := make([]*domain.Entry, len(entries))
	for i := range entries {
		ptrs[i] = &entries[i]
	}
	if err := loadRelations(ctx, r.db, ptrs); err != nil {
		return nil, err
	}
	return entries, nil
}

// entryArgs maps the writable entry columns to named args.
func entryArgs(e domain.Entry) pgx.NamedArgs {
	return pgx.NamedArgs{
		"start_time": e.StartTime,
		"end_time":   e.EndTime, // nil becomes NULL
		"status":     string(e.Status),
		"mode":       string(e.Mode),
		"location":   string(e.Location),
		"poops":      e.Poops,
		"pees":       e.Pees,
	}
}

// insertParticipants writes entry_users rows, keeping list order in position.
func insertParticipants(ctx context.Context, tx pgx.Tx, entryID uuid.UUID, users []domain.User) error {
	const q = `
		INSERT INTO entry_users (entry_id, user_email, position)
		VALUES (@entry_id, @email, @position)`

	batch := &pgx.Batch{}
	for i, u := range users {
		batch.Queue(q, pgx.NamedArgs{"entry_id": entryID, "email": u.Email, "position": i})
	}
	if batch.Len() == 0 {
		return nil
	}
	return tx.SendBatch(ctx, batch).Close()
}

// loadRelations fills Users and Likes for entries with two queries in total,
// however many entries there are.
func loadRelations(ctx context.Context, q db, entries []*domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*domain.Entry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		e.Users = []domain.User{}
		e.Likes = []domain.User{}
		byID[e.ID] = e
		ids = append(ids, e.ID.String())
	}

	const usersQ = `
		SELECT eu.entry_id, u.email, u.name, u.image, u.created_at
		FROM entry_users eu
		JOIN users u ON u.email = eu.user_email
		WHERE eu.entry_id = ANY(@ids::uuid[])
		ORDER BY eu.entry_id, eu.position`
	if err := scanRelation(ctx, q, usersQ, ids, func(e *domain.Entry, u domain.User) {
		e.Users = append(e.Users, u)
	}, byID); err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	const likesQ = `
		SELECT el.entry_id, u.email, u.name, u.image, u.created_at
		FROM entry_likes el
		JOIN users u ON u.email = el.user_email
		WHERE el.entry_id = ANY(@ids::uuid[])
		ORDER BY el.entry_id, el.liked_at, u.email`
	if err := scanRelation(ctx, q, likesQ, ids, func(e *domain.Entry, u domain.User) {
		e.Likes = append(e.Likes, u)
	}, byID); err != nil {
		return fmt.Errorf("load likes: %w", err)
	}
	return nil
}

func scanRelation(
	ctx context.Context,
	q db,
	sql string,
	ids []string,
	add func(*domain.Entry, domain.User),
	byID map[uuid.UUID]*domain.Entry,
) error {
	rows, err := q.Query(ctx, sql, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var entryID pgtype.UUID
		var u domain.User
		if err := rows.Scan(&entryID, &u.Email, &u.Name, &u.Image, &u.CreatedAt); err != nil {
			return err
		}
		if e, ok := byID[uuid.UUID(entryID.Bytes)]; ok {
			add(e, u)
		}
	}
	return rows.Err()
}

// scanEntry maps a single database row into a domain.Entry.
// It handles the UUID, the nullable end_time, and the enum conversions.
func scanEntry(s scanner) (domain.Entry, error) {
	var (
		e                      domain.Entry
		id                     pgtype.UUID
		endTime                pgtype.Timestamptz
		status, mode, location string
	)

	err := s.Scan(&id, &e.StartTime, &endTime, &status, &mode, &location,
		&e.Poops, &e.Pees, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Entry{}, domain.ErrNotFound
		}
		return domain.Entry{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.Status = domain.Status(status)
	e.Mode = domain.Mode(mode)
	e.Location = domain.Location(location)
	if endTime.Valid {
		et := endTime.Time
		e.EndTime = &et
	}
	return e, nil
}

// mapWriteError converts constraint violations into domain errors.
// Anything else is returned unchanged.
func mapWriteError(err error) error {
	pgErr, ok := pgError(err)
	if !ok {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: unknown user", domain.ErrValidation)
	case pgUniqueViolation:
		if pgErr.ConstraintName == "entries_one_active_auto_idx" {
			return fmt.Errorf("%w: another walk is already active", domain.ErrConflict)
		}
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}
