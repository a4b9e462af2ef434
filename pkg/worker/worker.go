package worker

import (
	"bufio"
	"io"
	"log/slog"
	"os/exec"

	"github.com/chenBenjamin97/football-analyzer/pkg/tracks"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/vmihailenco/msgpack/v5"
	"gocv.io/x/gocv"
)

// ErrWorker wraps every failure of the worker process or its replies
var ErrWorker = errors.New("detector worker failed")

// Config tells how to start the python worker
type Config struct {
	Python string
	Script string
	Model  string
}

// ConfigFromViper reads the 'detector' section of the configuration file
func ConfigFromViper() Config {
	return Config{
		Python: viper.GetString("detector.python"),
		Script: viper.GetString("detector.script"),
		Model:  viper.GetString("detector.model"),
	}
}

// Worker runs the detection model and the tracker in a python process and talks to it over stdin/stdout.
// The process is started on first use and keeps the tracker's state, so one Worker serves one video.
// Worker is not safe for concurrent use.
type Worker struct {
	cfg    Config
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
	// stderrDone is closed once the worker's standard error is fully read
	stderrDone chan struct{}
}

// New returns a worker that is not started yet
func New(cfg Config) *Worker {
	return &Worker{cfg: cfg}
}

// newWithConn returns a worker talking to an already running peer
func newWithConn(stdin io.WriteCloser, stdout io.Reader) *Worker {
	return &Worker{stdin: stdin, stdout: stdout}
}

func (w *Worker) start() error {
	if w.stdin != nil {
		return nil
	}

	if w.cfg.Script == "" {
		return errors.Wrap(ErrWorker, "no worker script configured ('detector.script')")
	}

	python := w.cfg.Python
	if python == "" {
		python = "python3"
	}

	cmd := exec.Command(python, w.cfg.Script, "--model", w.cfg.Model)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(err, "could not get worker's standard input")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "could not get worker's standard output")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(err, "could not get worker's standard error")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "could not start '%s %s'", python, w.cfg.Script)
	}

	done := make(chan struct{})
	go logStderr(stderr, done)

	w.cmd = cmd
	w.stderrDone = done
	w.stdin = stdin
	w.stdout = bufio.NewReader(stdout)
	slog.Info("detector worker started", "script", w.cfg.Script, "model", w.cfg.Model, "pid", cmd.Process.Pid)

	return nil
}

// logStderr forwards the worker's log lines until the process exits
func logStderr(stderr io.Reader, done chan<- struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		slog.Debug("detector worker", "line", scanner.Text())
	}
}

func (w *Worker) call(req request) (*response, error) {
	if err := w.start(); err != nil {
		return nil, err
	}

	payload, err := msgpack.Marshal(req)
	if err != nil {
		return nil, errors.Wrapf(err, "could not encode '%s' request", req.Op)
	}
	if err := writeMessage(w.stdin, payload); err != nil {
		return nil, errors.Wrapf(ErrWorker, "%s: %v", req.Op, err)
	}

	data, err := readMessage(w.stdout)
	if err != nil {
		return nil, errors.Wrapf(ErrWorker, "%s: %v", req.Op, err)
	}

	var resp response
	if err := msgpack.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrapf(ErrWorker, "%s: malformed reply: %v", req.Op, err)
	}
	if resp.Error != "" {
		return nil, errors.Wrapf(ErrWorker, "%s: %s", req.Op, resp.Error)
	}

	return &resp, nil
}

// Detect sends a batch of frames to the model and returns one DetectionSet per frame
func (w *Worker) Detect(frames []gocv.Mat, confidence float64) ([]tracks.DetectionSet, error) {
	req := request{Op: opDetect, Confidence: confidence, Frames: make([]frame, 0, len(frames))}
	for _, f := range frames {
		req.Frames = append(req.Frames, frame{Data: f.ToBytes(), Width: f.Cols(), Height: f.Rows(), Channels: f.Channels()})
	}

	resp, err := w.call(req)
	if err != nil {
		return nil, err
	}
	if len(resp.Sets) != len(frames) {
		return nil, errors.Wrapf(ErrWorker, "detect: got %d detection sets for %d frames", len(resp.Sets), len(frames))
	}

	sets := make([]tracks.DetectionSet, 0, len(resp.Sets))
	for _, s := range resp.Sets {
		sets = append(sets, fromWire(s))
	}

	return sets, nil
}

// Update hands one frame's detections to the tracker and returns them with their track IDs
func (w *Worker) Update(set tracks.DetectionSet) ([]tracks.TrackedDetection, error) {
	resp, err := w.call(request{Op: opTrack, Names: set.Names, Detections: toWire(set.Detections)})
	if err != nil {
		return nil, err
	}

	tracked := make([]tracks.TrackedDetection, 0, len(resp.Tracked))
	for _, d := range resp.Tracked {
		tracked = append(tracked, tracks.TrackedDetection{BBox: d.BBox, ClassID: d.ClassID, TrackID: d.TrackID})
	}

	return tracked, nil
}

// Close stops the worker process. Closing a worker that was never started does nothing.
func (w *Worker) Close() error {
	if w.stdin == nil {
		return nil
	}

	err := w.stdin.Close()
	// Wait closes the stderr pipe, so the reader has to reach EOF first
	if w.stderrDone != nil {
		<-w.stderrDone
	}
	if w.cmd != nil {
		if waitErr := w.cmd.Wait(); err == nil {
			err = waitErr
		}
	}
	w.stdin = nil

	return errors.Wrap(err, "could not stop detector worker")
}
