package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ayusman/kathakali/internal/capture"
	"github.com/ayusman/kathakali/internal/detector"
	"github.com/ayusman/kathakali/internal/pointer"
	"github.com/ayusman/kathakali/internal/server"
	"github.com/ayusman/kathakali/internal/source"
	"github.com/ayusman/kathakali/internal/store"
	"github.com/ayusman/kathakali/internal/tracker"
	"github.com/ayusman/kathakali/internal/tray"
)

const serverAddr = ":8080"

func main() {
	fmt.Println("Kathakali - Head-Pose Cursor Control")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".kathakali")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "kathakali.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	profile, err := loadActiveProfile(st)
	if err != nil {
		log.Fatalf("Failed to load tracking profile: %v", err)
	}
	fmt.Printf("Using profile %q\n", profile.Name)

	// Build the landmark pipeline: camera frames through the face detector.
	camera := capture.NewCamera(profile.CameraID)

	var d detector.Detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err != nil {
		log.Printf("MediaPipe detector unavailable (%v), using mock detector", err)
		d = detector.NewMockDetector()
	} else {
		d = mp
	}

	src := source.NewCameraSource(camera, d)

	trk := tracker.New(trackerConfig(profile), src,
		pointer.SystemScreen{}, pointer.SystemMover{})

	if err := trk.Start(false); err != nil {
		log.Printf("Tracker not started: %v (start it from the tray or API)", err)
	}

	// Configure and start the control server
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Tracker:   trk,
		Camera:    camera,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", serverAddr)
		if err := srv.ListenAndServe(serverAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main goroutine until quit.
	tr := tray.New()
	tr.OnToggleMouse(func(enabled bool) {
		if trk.MouseControlEnabled() != enabled {
			trk.ToggleMouseControl()
		}
	})
	tr.OnCalibrate(trk.CalibrateCenter)
	tr.OnPerformance(trk.SetPerformanceMode)
	tr.OnSettings(func() {
		openBrowser("http://localhost" + serverAddr)
	})
	tr.OnQuit(func() {
		trk.Stop()
	})
	tr.Run()
}

// loadActiveProfile returns the profile selected in settings, creating and
// activating a default profile on first run.
func loadActiveProfile(st *store.Store) (*store.Profile, error) {
	profiles := st.Profiles()
	settings := st.Settings()

	if id, err := settings.Get(store.ActiveProfileKey); err == nil {
		p, err := profiles.GetByID(id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		// Stale setting; fall through and recreate.
	}

	cfg := tracker.DefaultConfig()
	p := &store.Profile{
		ID:           uuid.New().String(),
		Name:         "default",
		CameraID:     cfg.CameraID,
		YawRange:     cfg.YawRange,
		PitchRange:   cfg.PitchRange,
		RayBufferLen: cfg.RayBufferLen,
	}
	if err := profiles.Create(p); err != nil {
		// Another run may have created it already.
		existing, getErr := profiles.GetByName("default")
		if getErr != nil {
			return nil, err
		}
		p = existing
	}

	if err := settings.Set(store.ActiveProfileKey, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// trackerConfig converts a stored profile into tracker tuning parameters.
func trackerConfig(p *store.Profile) tracker.Config {
	cfg := tracker.Config{
		CameraID:     p.CameraID,
		RayBufferLen: p.RayBufferLen,
		YawRange:     p.YawRange,
		PitchRange:   p.PitchRange,
		FastMode:     p.FastMode,
	}
	if p.EuroMinCutoff != nil {
		cfg.EuroMinCutoff = *p.EuroMinCutoff
	}
	if p.EuroBeta != nil {
		cfg.EuroBeta = *p.EuroBeta
	}
	if p.EuroFreq != nil {
		cfg.EuroFreq = *p.EuroFreq
	}
	return cfg
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch {
	case commandExists("open"): // macOS
		cmd = exec.Command("open", url)
	case commandExists("xdg-open"): // Linux
		cmd = exec.Command("xdg-open", url)
	default:
		log.Printf("open %s in your browser", url)
		return
	}
	if err := cmd.Start(); err != nil {
		log.Printf("failed to open browser: %v", err)
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.kathakali/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".kathakali", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
