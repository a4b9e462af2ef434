package tracks

import (
	"log/slog"

	"github.com/chenBenjamin97/football-analyzer/pkg/utils"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Options controls whether GetObjectTracks may use a track cache
type Options struct {
	//ReadFromCache allows loading the table from CachePath instead of running the detector
	ReadFromCache bool
	//CachePath is where the table is stored after each run, empty means no cache
	CachePath string
}

// Aggregator builds a Table out of detector and tracker output. Tracker must be a fresh instance for every video.
type Aggregator struct {
	Detector Detector
	Tracker  Tracker
}

// GetObjectTracks returns the track table of given frames: players and referees keyed by their track ID, the ball under utils.BallTrackID.
func (a *Aggregator) GetObjectTracks(frames []gocv.Mat, opts Options) (*Table, error) {
	if opts.ReadFromCache && opts.CachePath != "" {
		table, ok, err := LoadCache(opts.CachePath)
		if err != nil {
			return nil, err
		}

		if ok {
			if table.Len() != len(frames) {
				return nil, errors.Wrapf(ErrCacheCorrupt, "GetObjectTracks: '%s' holds %d frames, video has %d", opts.CachePath, table.Len(), len(frames))
			}
			slog.Info("loaded tracks from cache", "path", opts.CachePath, "frames", table.Len())
			if err := StoreCache(opts.CachePath, table); err != nil {
				return nil, err
			}
			return table, nil
		}
	}

	detections, err := DetectFrames(a.Detector, frames)
	if err != nil {
		return nil, err
	}

	table := NewTable(len(detections))
	for frameNum, set := range detections {
		players, referees, ball, err := a.trackFrame(set)
		if err != nil {
			return nil, errors.Wrapf(err, "GetObjectTracks: frame %d", frameNum)
		}

		table.Players = append(table.Players, players)
		table.Referees = append(table.Referees, referees)
		table.Ball = append(table.Ball, ball)

		slog.Debug("tracked frame", "frame", frameNum, "players", len(players), "referees", len(referees), "ball", len(ball))
	}

	if opts.CachePath != "" {
		if err := StoreCache(opts.CachePath, table); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// trackFrame feeds one frame's detections to the tracker and splits the result per class
func (a *Aggregator) trackFrame(set DetectionSet) (FrameTracks, FrameTracks, FrameTracks, error) {
	//goalkeepers must be players before the tracker assigns IDs
	remapped := RemapGoalkeepers(set)

	tracked, err := a.Tracker.Update(remapped)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "tracker update failed")
	}

	players, referees, ball := FrameTracks{}, FrameTracks{}, FrameTracks{}

	for _, obj := range tracked {
		switch remapped.Names[obj.ClassID] {
		case utils.PlayerLabel:
			players[obj.TrackID] = Record{BBox: obj.BBox}
		case utils.RefereeLabel:
			referees[obj.TrackID] = Record{BBox: obj.BBox}
		}
	}

	//the ball skips the tracker, the last ball detection of the frame wins.
	//TODO: keep the highest confidence ball instead of the last one once cached tables can be regenerated.
	for _, obj := range remapped.Detections {
		if remapped.Names[obj.ClassID] == utils.BallLabel {
			ball[utils.BallTrackID] = Record{BBox: obj.BBox}
		}
	}

	return players, referees, ball, nil
}
