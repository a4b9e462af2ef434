package tracks

import (
	"gocv.io/x/gocv"
)

// footballNames is the label set of the football detection model
var footballNames = map[int]string{0: "ball", 1: "goalkeeper", 2: "player", 3: "referee"}

// fakeDetector hands out scripted detection sets in frame order and records every batch it got
type fakeDetector struct {
	sets        []DetectionSet
	next        int
	batches     []int
	confidences []float64
	failBatch   int
	err         error
}

func (d *fakeDetector) Detect(frames []gocv.Mat, confidence float64) ([]DetectionSet, error) {
	batch := len(d.batches)
	d.batches = append(d.batches, len(frames))
	d.confidences = append(d.confidences, confidence)

	if d.err != nil && batch == d.failBatch {
		return nil, d.err
	}

	if d.sets == nil {
		out := make([]DetectionSet, len(frames))
		for i := range out {
			out[i] = DetectionSet{Names: footballNames}
		}
		return out, nil
	}

	out := d.sets[d.next : d.next+len(frames)]
	d.next += len(frames)
	return out, nil
}

// fakeTracker echoes every detection back, assigning the scripted track ID per call (or 100+index when none is scripted)
type fakeTracker struct {
	ids      [][]int
	received []DetectionSet
	err      error
}

func (tr *fakeTracker) Update(set DetectionSet) ([]TrackedDetection, error) {
	call := len(tr.received)
	tr.received = append(tr.received, set)
	if tr.err != nil {
		return nil, tr.err
	}

	tracked := make([]TrackedDetection, 0, len(set.Detections))
	for i, d := range set.Detections {
		id := 100 + i
		if call < len(tr.ids) && i < len(tr.ids[call]) {
			id = tr.ids[call][i]
		}
		tracked = append(tracked, TrackedDetection{BBox: d.BBox, ClassID: d.ClassID, TrackID: id})
	}

	return tracked, nil
}

type shortDetector struct{}

func (shortDetector) Detect(frames []gocv.Mat, _ float64) ([]DetectionSet, error) {
	return make([]DetectionSet, len(frames)-1), nil
}

func emptyFrames(n int) []gocv.Mat {
	return make([]gocv.Mat, n)
}

func emptySets(n int) []DetectionSet {
	sets := make([]DetectionSet, n)
	for i := range sets {
		sets[i] = DetectionSet{Names: footballNames}
	}
	return sets
}
