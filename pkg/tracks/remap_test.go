package tracks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemapGoalkeepers(t *testing.T) {
	t.Run("goalkeeper becomes player", func(t *testing.T) {
		set := DetectionSet{
			Names: footballNames,
			Detections: []Detection{
				{BBox: BBox{0, 0, 10, 10}, ClassID: 1, Confidence: 0.9},
				{BBox: BBox{20, 20, 30, 30}, ClassID: 3, Confidence: 0.8},
				{BBox: BBox{40, 40, 45, 45}, ClassID: 0, Confidence: 0.4},
			},
		}

		remapped := RemapGoalkeepers(set)
		assert.Equal(t, []int{2, 3, 0}, classIDs(remapped))
		assert.Equal(t, set.Detections[0].BBox, remapped.Detections[0].BBox)
		assert.Equal(t, 0.9, remapped.Detections[0].Confidence)

		// input is left untouched
		assert.Equal(t, []int{1, 3, 0}, classIDs(set))
	})

	t.Run("no goalkeeper detected", func(t *testing.T) {
		set := DetectionSet{Names: footballNames, Detections: []Detection{{ClassID: 2}, {ClassID: 0}}}
		assert.Equal(t, []int{2, 0}, classIDs(RemapGoalkeepers(set)))
	})

	t.Run("label set without player", func(t *testing.T) {
		set := DetectionSet{
			Names:      map[int]string{0: "ball", 1: "goalkeeper"},
			Detections: []Detection{{ClassID: 1}},
		}
		assert.Equal(t, []int{1}, classIDs(RemapGoalkeepers(set)))
	})

	t.Run("empty set", func(t *testing.T) {
		remapped := RemapGoalkeepers(DetectionSet{Names: footballNames})
		assert.Empty(t, remapped.Detections)
	})
}

func TestClassIDs(t *testing.T) {
	assert.Equal(t, map[string]int{"ball": 0, "goalkeeper": 1, "player": 2, "referee": 3}, DetectionSet{Names: footballNames}.ClassIDs())

	dup := DetectionSet{Names: map[int]string{0: "player", 4: "player", 1: "ball"}}
	assert.Equal(t, 4, dup.ClassIDs()["player"])
}

func classIDs(set DetectionSet) []int {
	ids := make([]int, 0, len(set.Detections))
	for _, d := range set.Detections {
		ids = append(ids, d.ClassID)
	}
	return ids
}
