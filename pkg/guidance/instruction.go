package guidance

import (
	"fmt"
	"strings"

	"github.com/campusmate/campusnav/pkg"
	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/util"
)

func turnPhrase(t pkg.TurnDirective) string {
	switch t {
	case pkg.LEFT:
		return "Turn left"
	case pkg.RIGHT:
		return "Turn right"
	default:
		return "Straight"
	}
}

// contextSuffix. " | Right: .. | Left: ..", right always before left.
func contextSuffix(e *da.Edge) string {
	ctx := make([]string, 0, 2)
	if right, ok := e.GetRightDescriptor(); ok {
		ctx = append(ctx, "Right: "+right)
	}
	if left, ok := e.GetLeftDescriptor(); ok {
		ctx = append(ctx, "Left: "+left)
	}
	if len(ctx) == 0 {
		return ""
	}
	return " | " + strings.Join(ctx, " | ")
}

// SegmentInstruction. direction sentence of one indoor segment.
func SegmentInstruction(s da.RouteSegment) string {
	src, dst := s.GetFrom().Label(), s.GetTo().Label()
	dist := util.TruncateMeters(s.GetEdge().GetWeight())

	var sentence string
	switch s.GetMode() {
	case pkg.STAIRS_UP:
		sentence = fmt.Sprintf("Take stairs up from %s to %s.", src, dst)
	case pkg.STAIRS_DOWN:
		sentence = fmt.Sprintf("Take stairs down from %s to %s.", src, dst)
	case pkg.ELEVATOR:
		sentence = fmt.Sprintf("Take elevator from %s to %s.", src, dst)
	default:
		if turn, ok := s.GetTurn(); ok {
			sentence = fmt.Sprintf("%s towards %s (%d m).", turnPhrase(turn), dst, dist)
		} else {
			sentence = fmt.Sprintf("Walk from %s to %s (%d m).", src, dst, dist)
		}
	}
	return sentence + contextSuffix(s.GetEdge())
}

// IndoorInstructions. one sentence per traversed edge.
func IndoorInstructions(segments []da.RouteSegment) []string {
	instructions := make([]string, len(segments))
	for i, s := range segments {
		instructions[i] = SegmentInstruction(s)
	}
	return instructions
}

func AlreadyThereInstruction(at *da.Waypoint) string {
	return fmt.Sprintf("You are already at your destination %s.", at.Label())
}

// ApproachInstruction. walk from a live GPS position to the snapped waypoint.
func ApproachInstruction(to *da.Waypoint, dist float64) string {
	return fmt.Sprintf("Walk to %s (%d m).", to.Label(), util.TruncateMeters(dist))
}

func NoIndoorPathInstruction(from, to *da.Waypoint) string {
	return fmt.Sprintf("No indoor path found from %s to %s.", from.Label(), to.Label())
}

func buildingName(w *da.Waypoint) string {
	if util.IsBlank(w.GetBuilding()) {
		return "the building"
	}
	return w.GetBuilding()
}

func ExitBuildingInstruction(entrance *da.Waypoint) string {
	return fmt.Sprintf("Exit %s through %s.", buildingName(entrance), entrance.Label())
}

func EnterBuildingInstruction(entrance *da.Waypoint) string {
	return fmt.Sprintf("Enter %s through %s.", buildingName(entrance), entrance.Label())
}
