package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Upload represents a stored video.
type Upload struct {
	ID        string
	Category  string
	Trick     string
	Filename  string
	Path      string
	CreatedAt time.Time
}

// UploadRepository provides operations for uploads.
type UploadRepository struct {
	db *sql.DB
}

// Uploads returns the upload repository for this store.
func (s *Store) Uploads() *UploadRepository {
	return &UploadRepository{db: s.db}
}

// Create inserts a new upload.
func (r *UploadRepository) Create(u *Upload) error {
	u.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO uploads (id, category, trick, filename, path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Category, u.Trick, u.Filename, u.Path, u.CreatedAt,
	)
	return err
}

// GetByID retrieves an upload by its ID.
func (r *UploadRepository) GetByID(id string) (*Upload, error) {
	u := &Upload{}

	err := r.db.QueryRow(
		`SELECT id, category, trick, filename, path, created_at
		 FROM uploads WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Category, &u.Trick, &u.Filename, &u.Path, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

// List retrieves uploads, newest first. Empty category or trick match all.
func (r *UploadRepository) List(category, trick string) ([]*Upload, error) {
	rows, err := r.db.Query(
		`SELECT id, category, trick, filename, path, created_at
		 FROM uploads
		 WHERE (? = '' OR category = ?) AND (? = '' OR trick = ?)
		 ORDER BY created_at DESC, rowid DESC`,
		category, category, trick, trick,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*Upload
	for rows.Next() {
		u := &Upload{}
		if err := rows.Scan(&u.ID, &u.Category, &u.Trick, &u.Filename, &u.Path, &u.CreatedAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return uploads, nil
}
