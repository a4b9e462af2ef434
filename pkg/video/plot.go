package video

import (
	"image"
	"image/color"
	"sort"
	"strconv"

	"github.com/chenBenjamin97/football-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/football-analyzer/pkg/utils"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var playerColor = color.RGBA{255, 0, 0, 0}
var refereeColor = color.RGBA{255, 255, 0, 0}
var ballColor = color.RGBA{0, 255, 0, 0}
var darkColor = color.RGBA{0, 0, 0, 0}

const (
	labelWidth     = 40
	labelHeight    = 20
	labelOffsetY   = 15 //label box center sits this far below the ellipse
	labelTextPad   = 12
	labelTextShift = 10 //shift left for ids with 3 digits or more
	labelBaseline  = 15

	triangleHalfWidth = 10
	triangleHeight    = 20
)

// ErrShapeMismatch is returned when the track table does not cover every frame
var ErrShapeMismatch = errors.New("track table does not match frames")

// DrawAnnotations returns a copy of frames with a marker for every player, referee and ball in table.
// Given frames are never modified, the caller owns (and must close) the returned Mats.
func DrawAnnotations(frames []gocv.Mat, table *tracks.Table) ([]gocv.Mat, error) {
	if err := table.Validate(); err != nil {
		return nil, errors.Wrap(ErrShapeMismatch, err.Error())
	}
	if table.Len() < len(frames) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d frames, %d tracked frames", len(frames), table.Len())
	}

	output := make([]gocv.Mat, 0, len(frames))
	for frameNum, frame := range frames {
		annotated := frame.Clone()

		players := table.Players[frameNum]
		for _, trackID := range sortedKeys(players) {
			id := trackID
			drawEllipse(&annotated, players[trackID].BBox, playerColor, &id)
		}

		referees := table.Referees[frameNum]
		for _, trackID := range sortedKeys(referees) {
			drawEllipse(&annotated, referees[trackID].BBox, refereeColor, nil)
		}

		ball := table.Ball[frameNum]
		for _, trackID := range sortedKeys(ball) {
			drawTriangle(&annotated, ball[trackID].BBox, ballColor)
		}

		output = append(output, annotated)
	}

	return output, nil
}

// drawEllipse draws an open ellipse under the bounding box's bottom edge and, when trackID is given, a label box with the ID
func drawEllipse(frame *gocv.Mat, bbox tracks.BBox, plotColor color.RGBA, trackID *int) {
	y2 := int(bbox[3])
	xCenter, _ := utils.Center(bbox)
	width := utils.Width(bbox)

	gocv.EllipseWithParams(frame, image.Pt(xCenter, y2), image.Pt(int(width), int(0.35*width)), 0, -45, 235, plotColor, 2, gocv.Line4, 0)

	if trackID == nil {
		return
	}

	gocv.Rectangle(frame, labelRect(xCenter, y2), plotColor, -1) //thickness -1 == filled rectangle
	gocv.PutText(frame, strconv.Itoa(*trackID), labelOrigin(xCenter, y2, *trackID), gocv.FontHersheySimplex, 0.6, darkColor, 2)
}

// drawTriangle draws a filled triangle pointing down at the middle of the bounding box's top edge
func drawTriangle(frame *gocv.Mat, bbox tracks.BBox, plotColor color.RGBA) {
	y := int(bbox[1])
	x, _ := utils.Center(bbox)

	points := gocv.NewPointsVectorFromPoints([][]image.Point{{
		image.Pt(x, y),
		image.Pt(x-triangleHalfWidth, y-triangleHeight),
		image.Pt(x+triangleHalfWidth, y-triangleHeight),
	}})
	defer points.Close()

	gocv.DrawContours(frame, points, 0, plotColor, -1)
	gocv.DrawContours(frame, points, 0, darkColor, 2)
}

// labelRect is the 40x20 box centered horizontally on xCenter, its center labelOffsetY pixels below y2
func labelRect(xCenter, y2 int) image.Rectangle {
	return image.Rect(
		xCenter-labelWidth/2,
		y2-labelHeight/2+labelOffsetY,
		xCenter+labelWidth/2,
		y2+labelHeight/2+labelOffsetY,
	)
}

// labelOrigin is the bottom-left point of the track ID text inside labelRect
func labelOrigin(xCenter, y2, trackID int) image.Point {
	rect := labelRect(xCenter, y2)
	x := rect.Min.X + labelTextPad
	if trackID > utils.LabelTextThreshold {
		x -= labelTextShift
	}

	return image.Pt(x, rect.Min.Y+labelBaseline)
}

// sortedKeys keeps drawing order stable between runs, overlapping markers are drawn lowest ID first
func sortedKeys(m tracks.FrameTracks) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	return keys
}
