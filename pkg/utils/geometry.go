package utils

// Center returns the center point of a [x1, y1, x2, y2] bounding box, truncated to pixels
func Center(bbox [4]float64) (int, int) {
	return int((bbox[0] + bbox[2]) / 2), int((bbox[1] + bbox[3]) / 2)
}

// Width returns the width of a [x1, y1, x2, y2] bounding box
func Width(bbox [4]float64) float64 {
	return bbox[2] - bbox[0]
}
