package video

import (
	"crypto/sha256"
	"testing"

	"github.com/chenBenjamin97/football-analyzer/pkg/tracks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func pitchFrames(t *testing.T, n int) []gocv.Mat {
	t.Helper()
	frames := make([]gocv.Mat, n)
	for i := range frames {
		frames[i] = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 140, 40, 0), 480, 640, gocv.MatTypeCV8UC3)
	}
	t.Cleanup(func() { CloseFrames(frames) })
	return frames
}

func checksums(frames []gocv.Mat) [][32]byte {
	sums := make([][32]byte, len(frames))
	for i, f := range frames {
		sums[i] = sha256.Sum256(f.ToBytes())
	}
	return sums
}

func scenarioTable() *tracks.Table {
	return &tracks.Table{
		Players:  []tracks.FrameTracks{{7: {BBox: tracks.BBox{100, 100, 150, 250}}}, {}, {}},
		Referees: []tracks.FrameTracks{{}, {}, {}},
		Ball:     []tracks.FrameTracks{{1: {BBox: tracks.BBox{300, 300, 310, 310}}}, {}, {}},
	}
}

// bgr returns the pixel at (x, y) as [B, G, R]
func bgr(m gocv.Mat, x, y int) [3]uint8 {
	v := m.GetVecbAt(y, x)
	return [3]uint8{v[0], v[1], v[2]}
}

func TestDrawAnnotationsScenario(t *testing.T) {
	frames := pitchFrames(t, 3)
	before := checksums(frames)

	output, err := DrawAnnotations(frames, scenarioTable())
	require.NoError(t, err)
	defer CloseFrames(output)

	require.Len(t, output, 3)
	for i := range output {
		assert.Equal(t, frames[i].Rows(), output[i].Rows())
		assert.Equal(t, frames[i].Cols(), output[i].Cols())
		assert.Equal(t, frames[i].Type(), output[i].Type())
	}

	// input frames are untouched
	assert.Equal(t, before, checksums(frames))

	// frame 0 got markers, frames 1-2 are copies
	after := checksums(output)
	assert.NotEqual(t, before[0], after[0])
	assert.Equal(t, before[1], after[1])
	assert.Equal(t, before[2], after[2])

	// player label box: x 105..145, y 255..275, red, left of the text
	assert.Equal(t, [3]uint8{0, 0, 255}, bgr(output[0], 108, 272))
	// ellipse arc passes through its right end, one width away from the center
	assert.Equal(t, [3]uint8{0, 0, 255}, bgr(output[0], 175, 250))
	// ball triangle interior is green
	assert.Equal(t, [3]uint8{0, 255, 0}, bgr(output[0], 305, 287))
	// and outlined in black along its base and at its tip
	assert.Equal(t, [3]uint8{0, 0, 0}, bgr(output[0], 305, 280))
	assert.Equal(t, [3]uint8{0, 0, 0}, bgr(output[0], 305, 300))
	// pixels far from every marker keep the pitch color
	assert.Equal(t, [3]uint8{40, 140, 40}, bgr(output[0], 600, 50))
}

func TestDrawAnnotationsReferee(t *testing.T) {
	frames := pitchFrames(t, 1)
	table := &tracks.Table{
		Players:  []tracks.FrameTracks{{}},
		Referees: []tracks.FrameTracks{{31: {BBox: tracks.BBox{100, 100, 150, 250}}}},
		Ball:     []tracks.FrameTracks{{}},
	}

	output, err := DrawAnnotations(frames, table)
	require.NoError(t, err)
	defer CloseFrames(output)

	// referees get no label box
	assert.Equal(t, [3]uint8{40, 140, 40}, bgr(output[0], 108, 272))
	assert.Equal(t, [3]uint8{0, 255, 255}, bgr(output[0], 175, 250))
}

func TestDrawAnnotationsOutOfBounds(t *testing.T) {
	frames := pitchFrames(t, 1)
	table := &tracks.Table{
		Players:  []tracks.FrameTracks{{5: {BBox: tracks.BBox{620, 400, 700, 530}}}},
		Referees: []tracks.FrameTracks{{}},
		Ball:     []tracks.FrameTracks{{1: {BBox: tracks.BBox{-10, 5, -2, 12}}}},
	}

	output, err := DrawAnnotations(frames, table)
	require.NoError(t, err)
	defer CloseFrames(output)
	assert.Len(t, output, 1)
}

func TestDrawAnnotationsShapeMismatch(t *testing.T) {
	frames := pitchFrames(t, 3)

	t.Run("table shorter than video", func(t *testing.T) {
		table := &tracks.Table{Players: []tracks.FrameTracks{{}}, Referees: []tracks.FrameTracks{{}}, Ball: []tracks.FrameTracks{{}}}
		output, err := DrawAnnotations(frames, table)
		assert.True(t, errors.Is(err, ErrShapeMismatch))
		assert.Nil(t, output)
	})

	t.Run("uneven table", func(t *testing.T) {
		table := scenarioTable()
		table.Ball = table.Ball[:2]
		_, err := DrawAnnotations(frames, table)
		assert.True(t, errors.Is(err, ErrShapeMismatch))
	})
}

func TestLabelGeometry(t *testing.T) {
	rect := labelRect(125, 250)
	assert.Equal(t, 40, rect.Dx())
	assert.Equal(t, 20, rect.Dy())
	assert.Equal(t, 125, (rect.Min.X+rect.Max.X)/2)
	assert.Equal(t, 265, (rect.Min.Y+rect.Max.Y)/2)

	short := labelOrigin(125, 250, 12)
	long := labelOrigin(125, 250, 123)
	assert.Equal(t, 117, short.X)
	assert.Equal(t, 270, short.Y)
	assert.Equal(t, short.X-10, long.X)
	assert.Equal(t, short.Y, long.Y)
	assert.Equal(t, short, labelOrigin(125, 250, 99))
}

func TestTrackIDTextShift(t *testing.T) {
	//leftmostText returns the first column inside the label box holding a text pixel
	leftmostText := func(id int) int {
		frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), 300, 300, gocv.MatTypeCV8UC3)
		defer frame.Close()
		drawEllipse(&frame, tracks.BBox{100, 50, 150, 200}, playerColor, &id)

		rect := labelRect(125, 200)
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			for y := rect.Min.Y; y <= rect.Max.Y; y++ {
				if bgr(frame, x, y) == [3]uint8{0, 0, 0} {
					return x
				}
			}
		}
		return -1
	}

	two := leftmostText(12)
	three := leftmostText(123)
	require.NotEqual(t, -1, two)
	require.NotEqual(t, -1, three)
	assert.Equal(t, 10, two-three)
}
