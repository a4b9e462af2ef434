package tracks

import (
	"log/slog"

	"github.com/chenBenjamin97/football-analyzer/pkg/utils"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DetectFrames runs the detector over frames in batches of utils.DetectionBatchSize and returns one DetectionSet per frame,
// in frame order. A failing batch fails the whole call, no partial result is returned.
func DetectFrames(detector Detector, frames []gocv.Mat) ([]DetectionSet, error) {
	detections := make([]DetectionSet, 0, len(frames))

	for i := 0; i < len(frames); i += utils.DetectionBatchSize {
		end := min(i+utils.DetectionBatchSize, len(frames))

		batch, err := detector.Detect(frames[i:end], utils.DetectionConfidence)
		if err != nil {
			return nil, errors.Wrapf(err, "DetectFrames: detector failed on frames %d-%d", i, end-1)
		}
		if len(batch) != end-i {
			return nil, errors.Errorf("DetectFrames: detector returned %d detection sets for %d frames (%d-%d)", len(batch), end-i, i, end-1)
		}

		detections = append(detections, batch...)
		slog.Debug("detected batch", "from", i, "to", end-1)
	}

	slog.Info("detection finished", "frames", len(frames), "detections", len(detections))
	return detections, nil
}
