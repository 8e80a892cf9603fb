package extract

import "strings"

// delayedBelow is the physical progress percentage under which a project
// counts as delayed.
const delayedBelow = 50

// StatusFlag classifies a project from its physical progress and costs.
// Nil inputs are unknown and never raise a flag.
func StatusFlag(physicalProgress, expenditure, plannedCost *float64) string {
	var flags []string
	if physicalProgress != nil && *physicalProgress < delayedBelow {
		flags = append(flags, StatusDelayed)
	}
	if expenditure != nil && plannedCost != nil && *expenditure > *plannedCost {
		flags = append(flags, StatusCostOverrun)
	}
	if len(flags) == 0 {
		return StatusOnTrack
	}
	return strings.Join(flags, statusSeparator)
}

// StatusFlags lists every value StatusFlag can return.
func StatusFlags() []string {
	return []string{
		StatusOnTrack,
		StatusDelayed,
		StatusCostOverrun,
		StatusDelayed + statusSeparator + StatusCostOverrun,
	}
}
