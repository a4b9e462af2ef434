package video

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ReadFrames decodes every frame of given video file. The caller must release them with CloseFrames.
func ReadFrames(videoPath string) ([]gocv.Mat, float64, error) {
	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "ReadFrames: could not open '%s'", videoPath)
	}
	defer capture.Close()

	fps := capture.Get(gocv.VideoCaptureFPS)
	frames := make([]gocv.Mat, 0, max(0, int(capture.Get(gocv.VideoCaptureFrameCount))))

	for {
		frame := gocv.NewMat()
		if ok := capture.Read(&frame); !ok || frame.Empty() { //finished to read all video's frames
			frame.Close()
			break
		}
		frames = append(frames, frame)
	}

	if len(frames) == 0 {
		return nil, 0, errors.Errorf("ReadFrames: no frames in '%s'", videoPath)
	}

	return frames, fps, nil
}

// WriteFrames encodes frames into a new video file. All frames must share the first frame's size.
func WriteFrames(videoPath, codec string, fps float64, frames []gocv.Mat) error {
	if len(frames) == 0 {
		return errors.Errorf("WriteFrames: no frames to write to '%s'", videoPath)
	}

	writer, err := gocv.VideoWriterFile(videoPath, codec, fps, frames[0].Cols(), frames[0].Rows(), true)
	if err != nil {
		return errors.Wrapf(err, "WriteFrames: could not open '%s'", videoPath)
	}
	defer writer.Close()

	for i, frame := range frames {
		if err := writer.Write(frame); err != nil {
			return errors.Wrapf(err, "WriteFrames: frame %d", i)
		}
	}

	return nil
}

// CloseFrames releases given frames
func CloseFrames(frames []gocv.Mat) {
	for i := range frames {
		frames[i].Close()
	}
}
