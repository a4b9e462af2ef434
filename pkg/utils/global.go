package utils

// DetectionBatchSize is the number of frames sent to the detector in one call
const DetectionBatchSize = 20

// DetectionConfidence is the minimum confidence a detection needs to be returned by the detector
const DetectionConfidence = 0.3

// BallTrackID is the fixed key the ball is stored under in every frame, the ball is not tracked by identity
const BallTrackID = 1

// Detector labels the aggregator cares about
const (
	PlayerLabel     = "player"
	GoalkeeperLabel = "goalkeeper"
	RefereeLabel    = "referee"
	BallLabel       = "ball"
)

// LabelTextThreshold is the highest track ID printed without shifting the label text to the left
const LabelTextThreshold = 99

// CacheExtension is the extension of track cache files stored under 'directory.stubs'
const CacheExtension = ".msgpack"
