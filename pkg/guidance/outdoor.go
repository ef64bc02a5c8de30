package guidance

import (
	"fmt"
	"strings"

	da "github.com/campusmate/campusnav/pkg/datastructure"
	"github.com/campusmate/campusnav/pkg/util"
)

// ManeuverInstruction. render one provider step. text is passed to the route verbatim.
func ManeuverInstruction(m da.Maneuver) string {
	onto := ""
	if !util.IsBlank(m.Name) {
		onto = " onto " + strings.TrimSpace(m.Name)
	}
	dist := util.TruncateMeters(m.Distance)

	switch m.Type {
	case "depart":
		if m.Modifier != "" {
			return fmt.Sprintf("Head %s%s (%d m).", m.Modifier, onto, dist)
		}
		return fmt.Sprintf("Head out%s (%d m).", onto, dist)
	case "arrive":
		return "Arrive at the building entrance."
	case "roundabout", "rotary", "roundabout turn":
		return fmt.Sprintf("Go around the roundabout%s (%d m).", onto, dist)
	}

	verb := "Continue"
	switch m.Type {
	case "turn", "end of road":
		verb = "Turn"
	case "fork":
		verb = "Keep"
	case "merge":
		verb = "Merge"
	}

	if m.Modifier != "" {
		return fmt.Sprintf("%s %s%s (%d m).", verb, m.Modifier, onto, dist)
	}
	return fmt.Sprintf("%s%s (%d m).", verb, onto, dist)
}

func OutdoorInstructions(maneuvers []da.Maneuver) []string {
	instructions := make([]string, 0, len(maneuvers))
	for _, m := range maneuvers {
		instructions = append(instructions, ManeuverInstruction(m))
	}
	return instructions
}

// FallbackOutdoorInstruction. used when the outdoor provider is unavailable.
func FallbackOutdoorInstruction(from, to *da.Waypoint, dist float64) string {
	return fmt.Sprintf("Walk outdoors from %s to %s (%d m).", from.Label(), to.Label(), util.TruncateMeters(dist))
}
