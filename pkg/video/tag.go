package video

import (
	"log/slog"
	"os"
	"os/exec"
	"path"

	"github.com/chenBenjamin97/football-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/football-analyzer/pkg/utils"
	"github.com/chenBenjamin97/football-analyzer/pkg/worker"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Collaborator detects and tracks objects for exactly one video
type Collaborator interface {
	tracks.Detector
	tracks.Tracker
	Close() error
}

// NewCollaborator returns the detector/tracker used by Tag. Every call must return a fresh tracker.
var NewCollaborator = func() (Collaborator, error) {
	return worker.New(worker.ConfigFromViper()), nil
}

// TagOptions are per-run switches of Tag
type TagOptions struct {
	ReadFromCache bool
}

// Tag reads a video from 'directory.source', finds players, referees and the ball in every frame and plots markers above them.
// The tagged video is saved in 'directory.ready' using 'video.prod_format'. Tracks are cached in 'directory.stubs' when it's configured.
// srcVideoName should include file's extension ('.mp4', etc.)
func Tag(srcVideoName string, opts TagOptions) error {
	name := utils.TrimExt(srcVideoName)
	srcVideoPath := path.Join(viper.GetString("directory.source"), srcVideoName)
	tmpVideoPath := path.Join(viper.GetString("directory.temp"), name+".avi")
	outputVideoPath := path.Join(viper.GetString("directory.ready"), name+"."+viper.GetString("video.prod_format"))

	var cachePath string
	if stubs := viper.GetString("directory.stubs"); stubs != "" {
		cachePath = path.Join(stubs, name+utils.CacheExtension)
	}

	frames, fps, err := ReadFrames(srcVideoPath)
	if err != nil {
		return errors.Wrap(err, "Tag")
	}
	defer CloseFrames(frames)
	slog.Info("read video", "path", srcVideoPath, "frames", len(frames), "fps", fps)

	collaborator, err := NewCollaborator()
	if err != nil {
		return errors.Wrap(err, "Tag: could not create detector")
	}
	defer collaborator.Close()

	aggregator := &tracks.Aggregator{Detector: collaborator, Tracker: collaborator}
	table, err := aggregator.GetObjectTracks(frames, tracks.Options{ReadFromCache: opts.ReadFromCache, CachePath: cachePath})
	if err != nil {
		return errors.Wrapf(err, "Tag: '%s'", srcVideoPath)
	}

	output, err := DrawAnnotations(frames, table)
	if err != nil {
		return errors.Wrapf(err, "Tag: '%s'", srcVideoPath)
	}
	defer CloseFrames(output)

	if err := WriteFrames(tmpVideoPath, viper.GetString("video.codec"), fps, output); err != nil {
		return errors.Wrap(err, "Tag")
	}
	defer os.Remove(tmpVideoPath) //remove '.avi' temp file at the end of this function

	//Convert from 'avi' to wanted format. example: ffmpeg -y -i match.avi match.mp4
	cmd := exec.Command("ffmpeg", "-y", "-loglevel", "error", "-i", tmpVideoPath, outputVideoPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "Tag: ffmpeg failed: %s", out)
	}

	slog.Info("tagged video", "src", srcVideoPath, "dst", outputVideoPath, "frames", len(output))
	return nil
}
