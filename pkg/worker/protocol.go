package worker

import (
	"encoding/binary"
	"io"

	"github.com/chenBenjamin97/football-analyzer/pkg/tracks"
	"github.com/pkg/errors"
)

// maxMessageSize guards against reading garbage as a length prefix (a 20 frame 4K batch is ~500MB raw)
const maxMessageSize = 1 << 30

const (
	opDetect = "detect"
	opTrack  = "track"
)

type frame struct {
	Data     []byte `msgpack:"data"`
	Width    int    `msgpack:"width"`
	Height   int    `msgpack:"height"`
	Channels int    `msgpack:"channels"`
}

type detection struct {
	BBox       [4]float64 `msgpack:"bbox"`
	ClassID    int        `msgpack:"class_id"`
	Confidence float64    `msgpack:"confidence"`
	TrackID    int        `msgpack:"track_id"`
}

type detectionSet struct {
	Names      map[int]string `msgpack:"names"`
	Detections []detection    `msgpack:"detections"`
}

type request struct {
	Op         string         `msgpack:"op"`
	Frames     []frame        `msgpack:"frames,omitempty"`
	Confidence float64        `msgpack:"conf,omitempty"`
	Names      map[int]string `msgpack:"names,omitempty"`
	Detections []detection    `msgpack:"detections,omitempty"`
}

type response struct {
	Error   string         `msgpack:"error,omitempty"`
	Sets    []detectionSet `msgpack:"sets,omitempty"`
	Tracked []detection    `msgpack:"tracked,omitempty"`
}

// writeMessage writes payload with a 4 bytes big-endian length prefix
func writeMessage(w io.Writer, payload []byte) error {
	if len(payload) > maxMessageSize {
		return errors.Errorf("message of %d bytes exceeds %d", len(payload), maxMessageSize)
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return errors.Wrap(err, "failed to write length prefix")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "failed to write message")
	}

	return nil
}

// readMessage reads one length-prefixed message
func readMessage(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read length prefix")
	}

	size := binary.BigEndian.Uint32(prefix[:])
	if size > maxMessageSize {
		return nil, errors.Errorf("message of %d bytes exceeds %d", size, maxMessageSize)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Wrapf(err, "failed to read message of %d bytes", size)
	}

	return payload, nil
}

func toWire(detections []tracks.Detection) []detection {
	wire := make([]detection, 0, len(detections))
	for _, d := range detections {
		wire = append(wire, detection{BBox: d.BBox, ClassID: d.ClassID, Confidence: d.Confidence})
	}
	return wire
}

func fromWire(set detectionSet) tracks.DetectionSet {
	out := tracks.DetectionSet{Names: set.Names, Detections: make([]tracks.Detection, 0, len(set.Detections))}
	for _, d := range set.Detections {
		out.Detections = append(out.Detections, tracks.Detection{BBox: d.BBox, ClassID: d.ClassID, Confidence: d.Confidence})
	}
	return out
}
