package tracks

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// BBox is a bounding box in pixel coordinates: [x1, y1, x2, y2]
type BBox [4]float64

// Detection is one object the detector found on a frame
type Detection struct {
	BBox       BBox
	ClassID    int
	Confidence float64
}

// DetectionSet holds all detections of a single frame together with the detector's label set (class ID -> label)
type DetectionSet struct {
	Names      map[int]string
	Detections []Detection
}

// ClassIDs returns the inverse of the label set (label -> class ID).
// When the detector maps a label to more than one class ID the highest ID wins.
func (s DetectionSet) ClassIDs() map[string]int {
	ids := make(map[string]int, len(s.Names))
	for id, name := range s.Names {
		if prev, ok := ids[name]; ok && prev > id {
			continue
		}
		ids[name] = id
	}

	return ids
}

// TrackedDetection is a detection after the tracker assigned it an identity
type TrackedDetection struct {
	BBox    BBox
	ClassID int
	TrackID int
}

// Detector maps a batch of frames to one DetectionSet per frame, in the same order
type Detector interface {
	Detect(frames []gocv.Mat, confidence float64) ([]DetectionSet, error)
}

// Tracker assigns persistent identities to the detections of consecutive frames.
// It keeps state between calls, so one Tracker serves exactly one video.
type Tracker interface {
	Update(set DetectionSet) ([]TrackedDetection, error)
}

// Record is what the table keeps for one object on one frame
type Record struct {
	BBox BBox `msgpack:"bbox"`
}

// FrameTracks maps a track key to its record on a single frame
type FrameTracks map[int]Record

// Table is the per-frame, per-class track table. All three sequences are indexed by frame number.
type Table struct {
	Players  []FrameTracks
	Referees []FrameTracks
	Ball     []FrameTracks
}

// NewTable allocates an empty table with room for given amount of frames
func NewTable(frames int) *Table {
	return &Table{
		Players:  make([]FrameTracks, 0, frames),
		Referees: make([]FrameTracks, 0, frames),
		Ball:     make([]FrameTracks, 0, frames),
	}
}

// Len returns the number of frames in the table
func (t *Table) Len() int {
	return len(t.Players)
}

// Validate makes sure all three class sequences cover the same frames
func (t *Table) Validate() error {
	if len(t.Referees) != len(t.Players) || len(t.Ball) != len(t.Players) {
		return errors.Errorf("mismatched track sequences: players %d, referees %d, ball %d", len(t.Players), len(t.Referees), len(t.Ball))
	}

	return nil
}
