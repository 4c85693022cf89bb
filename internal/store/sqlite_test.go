package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/jobdigest/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDigest(at time.Time) model.Digest {
	return model.Digest{
		GeneratedAt: at,
		Records: []model.JobRecord{
			{Title: "Curator at M+", Description: "Exhibitions", Link: "https://mplus.org.hk/jobs"},
			{Title: "XR Developer", Link: "https://www.google.com/search?q=XR%20Developer"},
		},
		HTML:    "<html><body><ul></ul></body></html>",
		Skipped: 1,
	}
}

func TestSaveDigestThenLoadRecords(t *testing.T) {
	s := newTestStore(t)
	d := sampleDigest(time.Date(2025, 7, 4, 9, 0, 0, 0, time.UTC))

	id, err := s.SaveDigest(d)
	if err != nil {
		t.Fatalf("SaveDigest: %v", err)
	}

	records, err := s.LoadRecords(id)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for i := range records {
		if records[i] != d.Records[i] {
			t.Errorf("record %d = %+v, want %+v", i, records[i], d.Records[i])
		}
	}

	html, err := s.LoadHTML(id)
	if err != nil {
		t.Fatalf("LoadHTML: %v", err)
	}
	if html != d.HTML {
		t.Errorf("html = %q", html)
	}
}

func TestListDigestsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := s.SaveDigest(sampleDigest(base.AddDate(0, 0, i))); err != nil {
			t.Fatalf("SaveDigest: %v", err)
		}
	}

	all, err := s.ListDigests(0)
	if err != nil {
		t.Fatalf("ListDigests: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d digests, want 3", len(all))
	}
	if !all[0].GeneratedAt.Equal(base.AddDate(0, 0, 2)) {
		t.Errorf("newest GeneratedAt = %v", all[0].GeneratedAt)
	}
	if all[0].RecordCount != 2 || all[0].Delivered {
		t.Errorf("summary = %+v", all[0])
	}

	limited, err := s.ListDigests(2)
	if err != nil {
		t.Fatalf("ListDigests(2): %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d digests, want 2", len(limited))
	}
}

func TestMarkDelivered(t *testing.T) {
	s := newTestStore(t)
	id, err := s.SaveDigest(sampleDigest(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.MarkDelivered(id); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}
	list, err := s.ListDigests(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || !list[0].Delivered {
		t.Errorf("list = %+v, want delivered", list)
	}

	if err := s.MarkDelivered(id + 100); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveEmptyDigest(t *testing.T) {
	s := newTestStore(t)
	id, err := s.SaveDigest(model.Digest{GeneratedAt: time.Now(), HTML: "<ul></ul>"})
	if err != nil {
		t.Fatalf("SaveDigest: %v", err)
	}
	records, err := s.LoadRecords(id)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestLoadHTMLUnknown(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.LoadHTML(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCompletionsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	first := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	entries := []model.CompletionEntry{
		{Prompt: "list jobs", Completion: "[1] A at B — C", CreatedAt: first},
		{Prompt: "list jobs", Completion: "[1] 策展人 at M+", CreatedAt: first.Add(24 * time.Hour)},
	}
	for _, e := range entries {
		if err := s.SaveCompletion(e); err != nil {
			t.Fatalf("SaveCompletion: %v", err)
		}
	}

	got, err := s.ListCompletions()
	if err != nil {
		t.Fatalf("ListCompletions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	for i := range got {
		if got[i].Prompt != entries[i].Prompt || got[i].Completion != entries[i].Completion || !got[i].CreatedAt.Equal(entries[i].CreatedAt) {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestNopStore(t *testing.T) {
	var s model.DigestStore = NewNopStore()
	if _, err := s.SaveDigest(sampleDigest(time.Now())); err != nil {
		t.Errorf("SaveDigest: %v", err)
	}
	list, err := s.ListDigests(10)
	if err != nil || len(list) != 0 {
		t.Errorf("ListDigests = %v, %v", list, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if _, err := s.SaveDigest(sampleDigest(time.Now())); err != nil {
		t.Fatalf("SaveDigest: %v", err)
	}
	s.Close()

	// Migrations already applied must not run again.
	s, err = NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.ListDigests(0)
	if err != nil {
		t.Fatalf("ListDigests: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}
