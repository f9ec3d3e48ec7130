// Package gallery manages named photo records and their persistence.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Photo is a confirmed gallery record. A row exists only after a successful
// confirm; issuing an upload URL never creates one.
type Photo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	MIMEType  string    `json:"mimeType"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a photo does not exist.
var ErrNotFound = errors.New("photo not found")

// ErrNameTaken is returned when a name is already used by another photo.
var ErrNameTaken = errors.New("photo name already taken")

// ErrPhotoIDUsed is returned when a photo id has already been confirmed.
// Photo ids are single-use; confirming twice is rejected, never overwritten.
var ErrPhotoIDUsed = errors.New("photo id already confirmed")

// ListParams are the normalized query parameters for List.
type ListParams struct {
	Search    string
	Page      int
	Limit     int
	SortBy    string // "name" or "updated_at"
	SortOrder string // "asc" or "desc"
}

// Repository handles all photo database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a confirmed photo and returns the stored record.
func (r *Repository) Create(ctx context.Context, id, name, key string, size int64, mimeType string) (*Photo, error) {
	p := &Photo{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO photos (id, name, key, size, mime_type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, key, size, mime_type, created_at, updated_at`,
		id, name, key, size, mimeType,
	).Scan(&p.ID, &p.Name, &p.Key, &p.Size, &p.MIMEType, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if constraint := uniqueViolation(err); constraint != "" {
			if constraint == "photos_pkey" {
				return nil, ErrPhotoIDUsed
			}
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("create photo: %w", err)
	}
	return p, nil
}

// GetByID fetches a photo by its id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Photo, error) {
	p := &Photo{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, key, size, mime_type, created_at, updated_at
		 FROM photos WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Key, &p.Size, &p.MIMEType, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get photo by id: %w", err)
	}
	return p, nil
}

// List returns one page of photos matching params plus the full filtered
// count. params must already be normalized by the service; SortBy and
// SortOrder are interpolated into the query and must come from the service's
// whitelist, never from raw client input.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Photo, int, error) {
	pattern := "%" + escapeLike(params.Search) + "%"

	var total int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM photos WHERE name ILIKE $1`,
		pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count photos: %w", err)
	}

	offset := (params.Page - 1) * params.Limit
	query := fmt.Sprintf(
		`SELECT id, name, key, size, mime_type, created_at, updated_at
		 FROM photos WHERE name ILIKE $1
		 ORDER BY %s %s, id ASC
		 LIMIT $2 OFFSET $3`,
		params.SortBy, params.SortOrder,
	)

	rows, err := r.db.Query(ctx, query, pattern, params.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.Name, &p.Key, &p.Size, &p.MIMEType, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate photos: %w", err)
	}

	return photos, total, nil
}

// UpdateName renames a photo and refreshes updated_at. Renaming a photo to
// its current name succeeds; the unique constraint only fires against other
// rows.
func (r *Repository) UpdateName(ctx context.Context, id, newName string) (*Photo, error) {
	p := &Photo{}
	err := r.db.QueryRow(ctx,
		`UPDATE photos SET name = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING id, name, key, size, mime_type, created_at, updated_at`,
		id, newName,
	).Scan(&p.ID, &p.Name, &p.Key, &p.Size, &p.MIMEType, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if uniqueViolation(err) != "" {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("rename photo: %w", err)
	}
	return p, nil
}

// Delete removes a photo row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NameExists reports whether name is used by a photo other than excludeID.
// Pass excludeID == "" to check against all photos.
func (r *Repository) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM photos WHERE name = $1 AND id::text <> $2)`,
		name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check name exists: %w", err)
	}
	return exists, nil
}

// uniqueViolation returns the violated constraint name when err is a
// PostgreSQL unique_violation (code 23505), or "" otherwise.
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}

// escapeLike escapes LIKE metacharacters so a search term matches literally.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
