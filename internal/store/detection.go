package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Detection represents a stored trick verdict.
type Detection struct {
	ID        string
	UploadID  string // empty when the session did not come from an upload
	Trick     string
	Detected  bool
	Evidence  []int
	Frames    int
	CreatedAt time.Time
}

// DetectionRepository provides operations for detections.
type DetectionRepository struct {
	db *sql.DB
}

// Detections returns the detection repository for this store.
func (s *Store) Detections() *DetectionRepository {
	return &DetectionRepository{db: s.db}
}

// Create inserts a new detection.
func (r *DetectionRepository) Create(d *Detection) error {
	d.CreatedAt = time.Now()

	evidence := d.Evidence
	if evidence == nil {
		evidence = []int{}
	}
	data, err := json.Marshal(evidence)
	if err != nil {
		return err
	}

	var uploadID any
	if d.UploadID != "" {
		uploadID = d.UploadID
	}

	_, err = r.db.Exec(
		`INSERT INTO detections (id, upload_id, trick, detected, evidence, frames, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, uploadID, d.Trick, d.Detected, string(data), d.Frames, d.CreatedAt,
	)
	return err
}

// ListByUpload retrieves the detections of one upload, oldest first.
func (r *DetectionRepository) ListByUpload(uploadID string) ([]*Detection, error) {
	return r.query(
		`SELECT id, upload_id, trick, detected, evidence, frames, created_at
		 FROM detections WHERE upload_id = ?
		 ORDER BY created_at, rowid`,
		uploadID,
	)
}

// ListRecent retrieves the most recent detections, newest first.
func (r *DetectionRepository) ListRecent(limit int) ([]*Detection, error) {
	return r.query(
		`SELECT id, upload_id, trick, detected, evidence, frames, created_at
		 FROM detections
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
}

func (r *DetectionRepository) query(q string, args ...any) ([]*Detection, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detections []*Detection
	for rows.Next() {
		d := &Detection{}
		var uploadID sql.NullString
		var evidence string

		if err := rows.Scan(&d.ID, &uploadID, &d.Trick, &d.Detected, &evidence, &d.Frames, &d.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(evidence), &d.Evidence); err != nil {
			return nil, err
		}

		d.UploadID = uploadID.String
		detections = append(detections, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return detections, nil
}
