package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestStore creates a new Store backed by a temp-file database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "kathakali-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func floatPtr(v float64) *float64 { return &v }

func TestProfileRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{
		ID:           "test-profile-1",
		Name:         "default",
		CameraID:     1,
		YawRange:     25,
		PitchRange:   12,
		RayBufferLen: 30,
		FastMode:     true,
	}

	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	if profile.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}
	if profile.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set after create")
	}

	retrieved, err := repo.GetByID("test-profile-1")
	if err != nil {
		t.Fatalf("failed to get profile by ID: %v", err)
	}

	if retrieved.Name != profile.Name {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, profile.Name)
	}
	if retrieved.CameraID != profile.CameraID {
		t.Errorf("CameraID mismatch: got %d, want %d", retrieved.CameraID, profile.CameraID)
	}
	if retrieved.YawRange != profile.YawRange {
		t.Errorf("YawRange mismatch: got %f, want %f", retrieved.YawRange, profile.YawRange)
	}
	if retrieved.PitchRange != profile.PitchRange {
		t.Errorf("PitchRange mismatch: got %f, want %f", retrieved.PitchRange, profile.PitchRange)
	}
	if retrieved.RayBufferLen != profile.RayBufferLen {
		t.Errorf("RayBufferLen mismatch: got %d, want %d", retrieved.RayBufferLen, profile.RayBufferLen)
	}
	if !retrieved.FastMode {
		t.Error("FastMode mismatch: got false, want true")
	}
	if retrieved.EuroMinCutoff != nil {
		t.Errorf("EuroMinCutoff = %v, want nil", *retrieved.EuroMinCutoff)
	}
}

func TestProfileRepository_ExplicitFilterCoefficients(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{
		ID:            "test-profile-2",
		Name:          "tuned",
		YawRange:      20,
		PitchRange:    10,
		RayBufferLen:  40,
		EuroMinCutoff: floatPtr(2.0),
		EuroBeta:      floatPtr(0.05),
		EuroFreq:      floatPtr(90),
	}

	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	retrieved, err := repo.GetByName("tuned")
	if err != nil {
		t.Fatalf("failed to get profile by name: %v", err)
	}

	if retrieved.EuroMinCutoff == nil || *retrieved.EuroMinCutoff != 2.0 {
		t.Errorf("EuroMinCutoff = %v, want 2.0", retrieved.EuroMinCutoff)
	}
	if retrieved.EuroBeta == nil || *retrieved.EuroBeta != 0.05 {
		t.Errorf("EuroBeta = %v, want 0.05", retrieved.EuroBeta)
	}
	if retrieved.EuroFreq == nil || *retrieved.EuroFreq != 90 {
		t.Errorf("EuroFreq = %v, want 90", retrieved.EuroFreq)
	}
}

func TestProfileRepository_GetNotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	if _, err := repo.GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID on missing profile: got %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByName("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByName on missing profile: got %v, want ErrNotFound", err)
	}
}

func TestProfileRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	for _, name := range []string{"one", "two", "three"} {
		p := &Profile{
			ID:           "id-" + name,
			Name:         name,
			YawRange:     20,
			PitchRange:   10,
			RayBufferLen: 40,
		}
		if err := repo.Create(p); err != nil {
			t.Fatalf("failed to create profile %q: %v", name, err)
		}
	}

	profiles, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list profiles: %v", err)
	}
	if len(profiles) != 3 {
		t.Errorf("List returned %d profiles, want 3", len(profiles))
	}
}

func TestProfileRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{
		ID:           "test-profile-3",
		Name:         "before",
		YawRange:     20,
		PitchRange:   10,
		RayBufferLen: 40,
	}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	profile.Name = "after"
	profile.YawRange = 30
	profile.FastMode = true
	if err := repo.Update(profile); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}

	retrieved, err := repo.GetByID("test-profile-3")
	if err != nil {
		t.Fatalf("failed to get updated profile: %v", err)
	}
	if retrieved.Name != "after" || retrieved.YawRange != 30 || !retrieved.FastMode {
		t.Errorf("update not persisted: got %q/%v/%v", retrieved.Name, retrieved.YawRange, retrieved.FastMode)
	}

	missing := &Profile{ID: "missing", Name: "nope"}
	if err := repo.Update(missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update on missing profile: got %v, want ErrNotFound", err)
	}
}

func TestProfileRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{
		ID:           "test-profile-4",
		Name:         "doomed",
		YawRange:     20,
		PitchRange:   10,
		RayBufferLen: 40,
	}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	if err := repo.Delete("test-profile-4"); err != nil {
		t.Fatalf("failed to delete profile: %v", err)
	}
	if _, err := repo.GetByID("test-profile-4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted profile still retrievable: err = %v", err)
	}

	if err := repo.Delete("test-profile-4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete on missing profile: got %v, want ErrNotFound", err)
	}
}

func TestProfileRepository_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	first := &Profile{ID: "a", Name: "same", YawRange: 20, PitchRange: 10, RayBufferLen: 40}
	if err := repo.Create(first); err != nil {
		t.Fatalf("failed to create first profile: %v", err)
	}

	second := &Profile{ID: "b", Name: "same", YawRange: 20, PitchRange: 10, RayBufferLen: 40}
	if err := repo.Create(second); err == nil {
		t.Error("creating a profile with a duplicate name should fail")
	}
}

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if _, err := settings.Get(ActiveProfileKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on missing key: got %v, want ErrNotFound", err)
	}

	if err := settings.Set(ActiveProfileKey, "profile-1"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	value, err := settings.Get(ActiveProfileKey)
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if value != "profile-1" {
		t.Errorf("setting value = %q, want %q", value, "profile-1")
	}

	// Overwrite
	if err := settings.Set(ActiveProfileKey, "profile-2"); err != nil {
		t.Fatalf("failed to overwrite setting: %v", err)
	}
	value, _ = settings.Get(ActiveProfileKey)
	if value != "profile-2" {
		t.Errorf("overwritten value = %q, want %q", value, "profile-2")
	}

	if err := settings.Delete(ActiveProfileKey); err != nil {
		t.Fatalf("failed to delete setting: %v", err)
	}
	if _, err := settings.Get(ActiveProfileKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
}
