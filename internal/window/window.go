// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package window defines the fixed recency-window schedule used when a
// single bounded query saturates the upstream result cap.
package window

import (
	"fmt"

	"github.com/pdiddy/jobscout/pkg/types"
)

// HorizonHours is the schedule's bounded horizon: two weeks of 24-hour
// windows. Postings older than the horizon fall into the final
// open-ended window.
const HorizonHours = 336

const stepHours = 24

// schedule is built once at init. Schedule returns copies so callers
// cannot mutate it.
var schedule = build()

// Schedule returns the fixed ordered window schedule: "last 24 hours",
// then 24-hour bands up to HorizonHours, then one open-ended "older"
// window. End bounds increase strictly except the final entry, which has
// none.
//
// The upstream source accepts only an upper age bound, so each window is
// queried with its end bound alone; window k's result set is therefore a
// superset of window k-1's, and the overlap is discarded during dedup
// rather than at query time.
func Schedule() []types.TimeWindow {
	out := make([]types.TimeWindow, len(schedule))
	copy(out, schedule)
	return out
}

func build() []types.TimeWindow {
	var windows []types.TimeWindow

	first := stepHours
	windows = append(windows, types.TimeWindow{
		EndHours: &first,
		Label:    "last 24 hours",
	})

	for start := stepHours; start < HorizonHours; start += stepHours {
		s, e := start, start+stepHours
		label := fmt.Sprintf("%d-%d hours", s, e)
		if e == HorizonHours {
			label += " (2 weeks)"
		}
		windows = append(windows, types.TimeWindow{
			StartHours: &s,
			EndHours:   &e,
			Label:      label,
		})
	}

	horizon := HorizonHours
	windows = append(windows, types.TimeWindow{
		StartHours: &horizon,
		Label:      fmt.Sprintf("older than %d hours", HorizonHours),
	})

	return windows
}
