package persist

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/core"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
)

func newTestLocal(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "test.db"), applog.New(applog.DefaultConfig()))
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLocalStoreGetSet(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	got, err := s.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Get() on missing key = %q, want nil", got)
	}

	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	got, err = s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v2" {
		t.Fatalf("Get() = %q, want v2", got)
	}
}

func TestLoadSnapshotRoundTrip(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	y := core.EmptyYear(2024)
	data, err := json.Marshal(y)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := s.Set(ctx, "pfm:v1", data); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := s.LoadSnapshot(ctx, "pfm:v1")
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot() = ok %v, err %v", ok, err)
	}
	if got.Year != 2024 || len(got.Months) != core.MonthsPerYear {
		t.Fatalf("unexpected snapshot: year %d, %d months", got.Year, len(got.Months))
	}
}

func TestLoadSnapshotDegradesOnCorruptBlob(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	tests := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("{{{{")},
		{"wrong shape", []byte(`{"year":2024,"months":[{"monthIndex":0,"entries":[]}],"installments":[]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Set(ctx, "pfm:v1", tt.data); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			_, ok, err := s.LoadSnapshot(ctx, "pfm:v1")
			if err != nil {
				t.Fatalf("LoadSnapshot() error = %v, want graceful degrade", err)
			}
			if ok {
				t.Fatal("LoadSnapshot() accepted a corrupt blob")
			}
		})
	}
}

func TestReminderCheckpoint(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	ts, err := s.LastReminderCheck(ctx, "pfm:lastReminderCheck")
	if err != nil {
		t.Fatalf("LastReminderCheck() error = %v", err)
	}
	if !ts.IsZero() {
		t.Fatalf("expected zero time before first run, got %v", ts)
	}

	want := time.Date(2024, 4, 12, 9, 0, 0, 0, time.UTC)
	if err := s.SetLastReminderCheck(ctx, "pfm:lastReminderCheck", want); err != nil {
		t.Fatalf("SetLastReminderCheck() error = %v", err)
	}
	ts, err = s.LastReminderCheck(ctx, "pfm:lastReminderCheck")
	if err != nil {
		t.Fatalf("LastReminderCheck() error = %v", err)
	}
	if !ts.Equal(want) {
		t.Fatalf("LastReminderCheck() = %v, want %v", ts, want)
	}
}
