package store

import (
	"reflect"
	"testing"
)

func TestDetectionRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)

	if err := s.Uploads().Create(&Upload{ID: "u1", Category: "street", Trick: "ollie", Filename: "a.mp4", Path: "/a"}); err != nil {
		t.Fatalf("create upload: %v", err)
	}

	first := &Detection{ID: "d1", UploadID: "u1", Trick: "ollie", Detected: true, Evidence: []int{1, 4}, Frames: 6}
	second := &Detection{ID: "d2", UploadID: "u1", Trick: "kickflip", Detected: false, Frames: 6}
	for _, d := range []*Detection{first, second} {
		if err := s.Detections().Create(d); err != nil {
			t.Fatalf("Create(%s) error = %v", d.ID, err)
		}
	}

	got, err := s.Detections().ListByUpload("u1")
	if err != nil {
		t.Fatalf("ListByUpload() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(got))
	}

	if got[0].ID != "d1" || !got[0].Detected || !reflect.DeepEqual(got[0].Evidence, []int{1, 4}) || got[0].Frames != 6 {
		t.Errorf("unexpected first detection %+v", got[0])
	}
	if got[1].Detected || len(got[1].Evidence) != 0 {
		t.Errorf("unexpected second detection %+v", got[1])
	}
	if got[0].UploadID != "u1" {
		t.Errorf("expected upload id u1, got %q", got[0].UploadID)
	}
}

func TestDetectionRepository_WithoutUpload(t *testing.T) {
	s := newTestStore(t)

	if err := s.Detections().Create(&Detection{ID: "d1", Trick: "ollie"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	recent, err := s.Detections().ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(recent) != 1 || recent[0].UploadID != "" {
		t.Errorf("unexpected detections %+v", recent)
	}
}

func TestDetectionRepository_CascadeDelete(t *testing.T) {
	s := newTestStore(t)

	s.Uploads().Create(&Upload{ID: "u1", Category: "c", Trick: "ollie", Filename: "a.mp4", Path: "/a"})
	s.Detections().Create(&Detection{ID: "d1", UploadID: "u1", Trick: "ollie"})

	if _, err := s.DB().Exec("DELETE FROM uploads WHERE id = ?", "u1"); err != nil {
		t.Fatalf("delete upload: %v", err)
	}

	got, err := s.Detections().ListByUpload("u1")
	if err != nil {
		t.Fatalf("ListByUpload() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected detections to be deleted with upload, got %d", len(got))
	}
}

func TestDetectionRepository_ListRecentLimit(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		s.Detections().Create(&Detection{ID: id, Trick: "ollie"})
	}

	got, err := s.Detections().ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(got))
	}
	if got[0].ID != "c" {
		t.Errorf("expected newest first, got %q", got[0].ID)
	}
}
