package tracker

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ayusman/kathakali/internal/detector"
	"github.com/ayusman/kathakali/internal/filter"
	"github.com/ayusman/kathakali/internal/headpose"
	"github.com/ayusman/kathakali/internal/pointer"
	"github.com/ayusman/kathakali/internal/source"
)

// Shutdown timing: a short settle so in-flight iterations observe the stop
// signal, then a bounded wait per loop before resources are released anyway.
const (
	stopSettle  = 50 * time.Millisecond
	stopTimeout = 1 * time.Second
)

// loopID tags the two long-lived loops so a stop initiated from inside one
// of them never waits on itself.
type loopID int

const (
	loopNone loopID = iota
	loopProcess
	loopActuate
)

// Tracker converts a stream of facial-landmark frames into smoothed,
// calibrated pointer moves. Two goroutines cooperate: the processing loop
// consumes frames at camera rate and commits a cursor target, and the
// actuation loop reads the target at a fixed tick and moves the pointer.
// The shared target is the only cross-loop mutable state and is guarded by
// its own mutex held only for the copy.
type Tracker struct {
	cfg      Config
	source   source.Source
	screen   pointer.Screen
	mover    pointer.Mover
	explicit bool // caller supplied filter coefficients; presets never touch them

	mu           sync.RWMutex // guards control state below
	running      bool
	stopCh       chan struct{}
	processDone  chan struct{}
	actuateDone  chan struct{}
	mouseEnabled bool
	fastMode     bool
	tick         time.Duration
	filterX      *filter.OneEuro
	filterY      *filter.OneEuro
	rawYaw       float64
	rawPitch     float64
	calYaw       float64
	calPitch     float64
	mapper       mapper
	screenW      int
	screenH      int

	// estimator is touched only by the processing loop.
	estimator *headpose.Estimator

	targetMu sync.Mutex
	targetX  int
	targetY  int
}

// Status is a snapshot of the tracker state for control surfaces.
type Status struct {
	Running      bool    `json:"running"`
	MouseEnabled bool    `json:"mouse_enabled"`
	FastMode     bool    `json:"fast_mode"`
	RawYaw       float64 `json:"raw_yaw"`
	RawPitch     float64 `json:"raw_pitch"`
	Yaw          float64 `json:"yaw"`
	Pitch        float64 `json:"pitch"`
	TargetX      int     `json:"target_x"`
	TargetY      int     `json:"target_y"`
}

// New creates a Tracker over the given collaborators.
func New(cfg Config, src source.Source, screen pointer.Screen, mover pointer.Mover) *Tracker {
	if cfg.RayBufferLen <= 0 {
		cfg.RayBufferLen = headpose.DefaultRayBufferLen
	}
	if cfg.YawRange <= 0 {
		cfg.YawRange = DefaultYawRange
	}
	if cfg.PitchRange <= 0 {
		cfg.PitchRange = DefaultPitchRange
	}

	explicit := cfg.EuroMinCutoff > 0 || cfg.EuroBeta > 0 || cfg.EuroFreq > 0

	minCutoff, beta, freq := presetFor(cfg.FastMode)
	if cfg.EuroMinCutoff > 0 {
		minCutoff = cfg.EuroMinCutoff
	}
	if cfg.EuroBeta > 0 {
		beta = cfg.EuroBeta
	}
	if cfg.EuroFreq > 0 {
		freq = cfg.EuroFreq
	}

	return &Tracker{
		cfg:          cfg,
		source:       src,
		screen:       screen,
		mover:        mover,
		explicit:     explicit,
		mouseEnabled: true,
		fastMode:     cfg.FastMode,
		tick:         tickFor(cfg.FastMode),
		filterX:      filter.NewOneEuro(minCutoff, beta, filter.DefaultDCutoff, freq),
		filterY:      filter.NewOneEuro(minCutoff, beta, filter.DefaultDCutoff, freq),
		rawYaw:       180,
		rawPitch:     180,
		estimator:    headpose.NewEstimator(cfg.RayBufferLen),
	}
}

// Start opens the landmark source and runs the tracking loops. With
// block=true the processing loop runs on the caller's goroutine and Start
// returns when tracking stops; otherwise both loops run in the background
// and Start returns immediately. Starting a running tracker is a no-op.
//
// Only source acquisition can fail here; every later error is handled inside
// the loops.
func (t *Tracker) Start(block bool) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil
	}

	if err := t.source.Open(); err != nil {
		t.mu.Unlock()
		return fmt.Errorf("open landmark source: %w", err)
	}

	t.screenW, t.screenH = t.screen.Size()
	t.mapper = newMapper(t.cfg.YawRange, t.cfg.PitchRange, t.screenW, t.screenH)

	t.stopCh = make(chan struct{})
	t.processDone = make(chan struct{})
	t.actuateDone = make(chan struct{})
	t.running = true
	// The loops hold their own channel references so a later restart can
	// never hand them the next run's channels.
	stopCh, processDone, actuateDone := t.stopCh, t.processDone, t.actuateDone
	t.mu.Unlock()

	t.targetMu.Lock()
	t.targetX, t.targetY = t.screenW/2, t.screenH/2
	t.targetMu.Unlock()

	go t.actuationLoop(stopCh, actuateDone)

	if block {
		t.processLoop(stopCh, processDone)
		return nil
	}

	go t.processLoop(stopCh, processDone)
	return nil
}

// Stop signals both loops to terminate, waits briefly for them to exit, and
// releases the landmark source. Safe to call from any goroutine, including
// the tracking loops themselves, and safe to call more than once. The
// tracker can be started again afterwards.
func (t *Tracker) Stop() {
	t.stopFrom(loopNone)
}

func (t *Tracker) stopFrom(caller loopID) {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stopCh)
	processDone, actuateDone := t.processDone, t.actuateDone
	t.mu.Unlock()

	// Let in-flight iterations observe the stop signal.
	time.Sleep(stopSettle)

	// Wait for the loops, but never for the loop this call came from.
	if caller != loopProcess {
		waitLoop("processing", processDone)
	}
	if caller != loopActuate {
		waitLoop("actuation", actuateDone)
	}

	if err := t.source.Close(); err != nil {
		log.Printf("error closing landmark source: %v", err)
	}

	log.Println("head tracker stopped")
}

// waitLoop waits for a loop to acknowledge shutdown, bounded by stopTimeout.
// A loop stuck in a blocking read is logged and abandoned; resources are
// released regardless.
func waitLoop(name string, done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(stopTimeout):
		log.Printf("%s loop did not exit within %v", name, stopTimeout)
	}
}

// ToggleMouseControl flips whether the actuation loop actually moves the
// pointer. Tracking and smoothing keep running either way, so re-enabling
// resumes from a current target. Returns the new state.
func (t *Tracker) ToggleMouseControl() bool {
	t.mu.Lock()
	t.mouseEnabled = !t.mouseEnabled
	enabled := t.mouseEnabled
	t.mu.Unlock()

	if enabled {
		log.Println("mouse control enabled")
	} else {
		log.Println("mouse control disabled")
	}
	return enabled
}

// MouseControlEnabled reports whether pointer moves are currently issued.
func (t *Tracker) MouseControlEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mouseEnabled
}

// CalibrateCenter captures the current head pose as "looking at screen
// center". Repeating the call overwrites the offset with the latest pose.
// The offset lives only for the tracker's lifetime.
func (t *Tracker) CalibrateCenter() {
	t.mu.Lock()
	t.calYaw = 180 - t.rawYaw
	t.calPitch = 180 - t.rawPitch
	calYaw, calPitch := t.calYaw, t.calPitch
	t.mu.Unlock()

	log.Printf("calibrated center: yaw offset %.2f, pitch offset %.2f", calYaw, calPitch)
}

// SetPerformanceMode switches between the responsive (~200Hz) and
// power-saving (~60Hz) presets. The actuation tick always changes; the
// filter coefficients follow the preset only when the caller did not supply
// explicit coefficients at construction, and the per-axis filters are
// replaced wholesale rather than mutated.
func (t *Tracker) SetPerformanceMode(fast bool) {
	t.mu.Lock()
	t.fastMode = fast
	t.tick = tickFor(fast)

	if t.explicit {
		t.mu.Unlock()
		log.Println("performance mode: preserving explicit filter coefficients")
		return
	}

	minCutoff, beta, freq := presetFor(fast)
	t.filterX = filter.NewOneEuro(minCutoff, beta, filter.DefaultDCutoff, freq)
	t.filterY = filter.NewOneEuro(minCutoff, beta, filter.DefaultDCutoff, freq)
	t.mu.Unlock()

	if fast {
		log.Printf("performance mode: 200Hz actuation, filters freq=%v cutoff=%v beta=%v", freq, minCutoff, beta)
	} else {
		log.Printf("power saving: 60Hz actuation, filters freq=%v cutoff=%v beta=%v", freq, minCutoff, beta)
	}
}

// IsRunning reports whether the tracking loops are active.
func (t *Tracker) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// Target returns the current cursor target.
func (t *Tracker) Target() (x, y int) {
	t.targetMu.Lock()
	defer t.targetMu.Unlock()
	return t.targetX, t.targetY
}

// Status returns a snapshot of the tracker state.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	s := Status{
		Running:      t.running,
		MouseEnabled: t.mouseEnabled,
		FastMode:     t.fastMode,
		RawYaw:       t.rawYaw,
		RawPitch:     t.rawPitch,
		Yaw:          t.rawYaw + t.calYaw,
		Pitch:        t.rawPitch + t.calPitch,
	}
	t.mu.RUnlock()

	s.TargetX, s.TargetY = t.Target()
	return s
}

// processLoop consumes landmark frames at camera rate. It is the only
// writer of the cursor target. A source failure ends the stream and shuts
// the whole tracker down from inside the loop.
func (t *Tracker) processLoop(stopCh chan struct{}, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		frame, err := t.source.NextFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Println("landmark stream ended")
			} else {
				log.Printf("landmark source failed: %v", err)
			}
			t.stopFrom(loopProcess)
			return
		}

		// No face in frame: hold the previous target rather than snapping
		// anywhere. Angles, ray history and filters stay untouched.
		if !frame.HasFace() {
			continue
		}

		t.processFrame(frame)
	}
}

// processFrame runs one observation through the full pipeline: orientation
// estimate, calibration offset, screen mapping, per-axis smoothing, and the
// shared-target commit.
func (t *Tracker) processFrame(frame source.Frame) {
	points := headpose.FacePoints{
		Left:   toVec(frame.Landmarks.KeyPoint(detector.FaceLeft, frame.Width, frame.Height)),
		Right:  toVec(frame.Landmarks.KeyPoint(detector.FaceRight, frame.Width, frame.Height)),
		Top:    toVec(frame.Landmarks.KeyPoint(detector.FaceTop, frame.Width, frame.Height)),
		Bottom: toVec(frame.Landmarks.KeyPoint(detector.FaceBottom, frame.Width, frame.Height)),
		Front:  toVec(frame.Landmarks.KeyPoint(detector.FaceFront, frame.Width, frame.Height)),
	}

	pose, err := t.estimator.Estimate(points)
	if err != nil {
		// Degenerate geometry is handled like a missing face: skip the frame.
		return
	}

	t.mu.Lock()
	t.rawYaw, t.rawPitch = pose.Yaw, pose.Pitch
	yaw := pose.Yaw + t.calYaw
	pitch := pose.Pitch + t.calPitch
	m := t.mapper
	fx, fy := t.filterX, t.filterY
	t.mu.Unlock()

	screenX, screenY := m.Map(yaw, pitch)

	smoothX := int(math.Round(fx.Filter(float64(screenX))))
	smoothY := int(math.Round(fy.Filter(float64(screenY))))

	t.targetMu.Lock()
	t.targetX, t.targetY = smoothX, smoothY
	t.targetMu.Unlock()
}

// actuationLoop drives the pointer toward the shared target at a fixed
// tick, independent of frame arrival. Stale reads are fine: if processing
// stalls, the cursor holds position instead of stuttering.
func (t *Tracker) actuationLoop(stopCh chan struct{}, done chan struct{}) {
	defer close(done)

	tick := t.tickInterval()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}

		// Pick up performance-mode changes.
		if cur := t.tickInterval(); cur != tick {
			tick = cur
			ticker.Reset(tick)
		}

		if !t.MouseControlEnabled() {
			continue
		}

		x, y := t.Target()
		if err := t.mover.MoveTo(x, y); err != nil {
			// Not fatal; try again next tick.
			log.Printf("pointer move failed: %v", err)
		}
	}
}

func (t *Tracker) tickInterval() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tick
}

func toVec(p detector.Point3D) headpose.Vec3 {
	return headpose.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}
