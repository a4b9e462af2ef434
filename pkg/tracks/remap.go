package tracks

import "github.com/chenBenjamin97/football-analyzer/pkg/utils"

// RemapGoalkeepers returns a copy of set in which goalkeepers are classified as players.
// Given set is not modified. If the label set has no "player" label nothing is remapped.
func RemapGoalkeepers(set DetectionSet) DetectionSet {
	remapped := DetectionSet{
		Names:      set.Names,
		Detections: make([]Detection, len(set.Detections)),
	}
	copy(remapped.Detections, set.Detections)

	playerID, ok := set.ClassIDs()[utils.PlayerLabel]
	if !ok {
		return remapped
	}

	for i, d := range remapped.Detections {
		if set.Names[d.ClassID] == utils.GoalkeeperLabel {
			remapped.Detections[i].ClassID = playerID
		}
	}

	return remapped
}
