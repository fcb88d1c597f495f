package schedule

import (
	"sort"
	"time"

	"daydesk/internal/dateutil"
	"daydesk/internal/model"
)

// daysPerWeek is the width of one displayed week row.
const daysPerWeek = 7

// DaySegment is an item's span clipped to one week, expressed as
// zero-based day-column indices (0 = the week's first day).
type DaySegment struct {
	Item     model.ScheduleItem
	StartIdx int
	EndIdx   int
}

// LaneAssignment places one segment on a horizontal lane. Lanes are
// numbered from zero; two segments in the same lane never overlap.
type LaneAssignment struct {
	Segment DaySegment
	Lane    int
}

// WeekLanes is the packed layout of one week row. LaneCount is the
// number of lanes the caller must reserve vertically; zero when the week
// has no multi-day items.
type WeekLanes struct {
	Assignments []LaneAssignment
	LaneCount   int
}

// PackWeek lays out the multi-day items crossing the week that starts on
// weekStart (7 consecutive calendar days).
//
// Only items whose DisplayRange spans more than one calendar day take
// part; single-day items are rendered inline in their day cell by the
// bucket index. Each participating item is clipped to the week and
// greedily assigned the lowest lane whose columns are still free.
//
// Segments are processed by ascending start column, longer segments
// first among equal starts; equal start and equal length keep input
// order. This ordering makes the greedy first-fit deterministic and
// keeps lane fragmentation low. It does not guarantee a globally minimal
// lane count for adversarial inputs, only that overlapping segments
// never share a lane.
//
// Lane numbering is independent per week: an item crossing several week
// rows may land on a different lane in each.
func PackWeek(items []model.ScheduleItem, weekStart dateutil.Date, loc *time.Location) WeekLanes {
	weekEnd := weekStart.AddDays(daysPerWeek - 1)

	segments := make([]DaySegment, 0)
	for _, item := range items {
		r := RangeOf(item, loc)
		if r.Days() <= 1 {
			continue
		}
		if !r.Overlaps(weekStart, weekEnd) {
			continue
		}
		spanStart := dateutil.MaxDate(r.Start, weekStart)
		spanEnd := dateutil.MinDate(r.End, weekEnd)
		segments = append(segments, DaySegment{
			Item:     item,
			StartIdx: dateutil.DaysBetween(weekStart, spanStart),
			EndIdx:   dateutil.DaysBetween(weekStart, spanEnd),
		})
	}

	if len(segments) == 0 {
		return WeekLanes{Assignments: []LaneAssignment{}}
	}

	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].StartIdx != segments[j].StartIdx {
			return segments[i].StartIdx < segments[j].StartIdx
		}
		// Longer segments first among equal starts.
		return segments[i].EndIdx-segments[i].StartIdx > segments[j].EndIdx-segments[j].StartIdx
	})

	var lanes [][daysPerWeek]bool
	assignments := make([]LaneAssignment, 0, len(segments))

	for _, seg := range segments {
		lane := -1
		for li := range lanes {
			if laneFree(lanes[li], seg.StartIdx, seg.EndIdx) {
				lane = li
				break
			}
		}
		if lane == -1 {
			lanes = append(lanes, [daysPerWeek]bool{})
			lane = len(lanes) - 1
		}
		for c := seg.StartIdx; c <= seg.EndIdx; c++ {
			lanes[lane][c] = true
		}
		assignments = append(assignments, LaneAssignment{Segment: seg, Lane: lane})
	}

	return WeekLanes{Assignments: assignments, LaneCount: len(lanes)}
}

func laneFree(lane [daysPerWeek]bool, startIdx, endIdx int) bool {
	for c := startIdx; c <= endIdx; c++ {
		if lane[c] {
			return false
		}
	}
	return true
}

// PackMonth packs every week row of the month grid beginning at
// gridStart (a week boundary) and ending at gridEnd inclusive. Week rows
// are returned in display order.
func PackMonth(items []model.ScheduleItem, gridStart, gridEnd dateutil.Date, loc *time.Location) []WeekLanes {
	weeks := make([]WeekLanes, 0)
	for ws := gridStart; !ws.After(gridEnd); ws = ws.AddDays(daysPerWeek) {
		weeks = append(weeks, PackWeek(items, ws, loc))
	}
	return weeks
}
