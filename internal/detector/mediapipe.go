package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// idleShutdown is how long the pose service may sit unused before it is stopped.
const idleShutdown = 30 * time.Second

// MediaPipeProvider implements Provider using a Python MediaPipe Pose subprocess.
// Calls are serialized, so a single provider can be shared by concurrent sessions.
type MediaPipeProvider struct {
	config    Config
	script    string
	logger    *zap.Logger
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeProvider creates a new MediaPipe pose provider.
// The Python process is started lazily on first detection.
func NewMediaPipeProvider(config Config, logger *zap.Logger) (*MediaPipeProvider, error) {
	script := config.ScriptPath
	if script == "" {
		script = findPoseScript()
	}
	if script == "" {
		return nil, fmt.Errorf("pose_service.py not found")
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("pose script: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MediaPipeProvider{
		config: config,
		script: script,
		logger: logger,
	}, nil
}

// Detect sends a frame to the pose service and returns the first detected pose.
func (d *MediaPipeProvider) Detect(frame *gocv.Mat) (FrameLandmarks, error) {
	if frame == nil || frame.Empty() {
		return FrameLandmarks{}, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return FrameLandmarks{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		// A frame that cannot be encoded carries no person for us.
		d.logger.Debug("encode frame failed", zap.Error(err))
		return FrameLandmarks{}, ErrNoDetection
	}
	defer buf.Close()

	line, err := d.roundTrip(buf.GetBytes())
	if err != nil {
		d.shutdown()
		return FrameLandmarks{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	var response struct {
		Poses []jsonPose `json:"poses"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return FrameLandmarks{}, fmt.Errorf("%w: parse response: %v", ErrProviderUnavailable, err)
	}

	d.resetIdleTimer()

	if len(response.Poses) == 0 {
		return FrameLandmarks{}, nil
	}
	return response.Poses[0].toFrameLandmarks(), nil
}

// roundTrip writes one length-prefixed JPEG and reads one JSON line back.
func (d *MediaPipeProvider) roundTrip(data []byte) ([]byte, error) {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return line, nil
}

// Close shuts down the Python process.
func (d *MediaPipeProvider) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeProvider) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := d.config.PythonPath
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, d.script,
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start pose service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	d.logger.Info("pose service started",
		zap.String("python", pythonPath),
		zap.String("script", d.script),
	)
	return nil
}

func (d *MediaPipeProvider) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	d.logger.Info("pose service stopped")
	return err
}

func (d *MediaPipeProvider) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(idleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findPoseScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/pose_service.py",
		"../scripts/pose_service.py",
		filepath.Join(execDir, "scripts/pose_service.py"),
		filepath.Join(os.Getenv("HOME"), ".trickcheck/scripts/pose_service.py"),
	}
	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".trickcheck/venv/bin/python"),
	}
	return firstExisting(candidates)
}

func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

// jsonPose represents one pose from the Python service, 33 landmarks in
// MediaPipe order.
type jsonPose struct {
	Landmarks []jsonLandmark `json:"landmarks"`
}

type jsonLandmark struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Visibility *float64 `json:"visibility"`
}

func (p jsonPose) toFrameLandmarks() FrameLandmarks {
	points := make([]LandmarkPoint, 0, len(p.Landmarks))
	for i := 0; i < int(NumJoints) && i < len(p.Landmarks); i++ {
		l := p.Landmarks[i]
		points = append(points, LandmarkPoint{
			Joint:      Joint(i),
			X:          l.X,
			Y:          l.Y,
			Visibility: l.Visibility,
		})
	}
	return NewFrameLandmarks(points...)
}
