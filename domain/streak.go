package domain

import "time"

// DateLayout is the calendar-day format used for streak bookkeeping.
const DateLayout = "2006-01-02"

// StreakResult carries the outcome of applying a completion to a streak.
type StreakResult struct {
	Streak         Streak `json:"streak"`
	IsNewRecord    bool   `json:"is_new_record"`
	IsMilestone    bool   `json:"is_milestone"`
	MilestoneLabel string `json:"milestone_label,omitempty"`
}

var milestoneLabels = map[int]string{
	3:   "3-day spark",
	7:   "One full week",
	14:  "Two weeks strong",
	21:  "Habit forged",
	30:  "Monthly master",
	50:  "Fifty and counting",
	75:  "Diamond discipline",
	100: "Century club",
	150: "Unstoppable",
	200: "Legend in motion",
	365: "A whole year",
}

// NextStreak computes the streak that results from a completion at the given
// time. It is idempotent per calendar day: a second completion on the same day
// returns the input unchanged with both flags false. Any unparseable or
// non-adjacent previous date counts as a gap and restarts at 1.
func NextStreak(cur Streak, at time.Time) StreakResult {
	local := at.In(time.Local)
	today := local.Format(DateLayout)
	yesterday := local.AddDate(0, 0, -1).Format(DateLayout)

	if cur.LastCompletedDate == today {
		return StreakResult{Streak: cur}
	}

	next := 1
	if cur.LastCompletedDate == yesterday {
		next = cur.Current + 1
	}

	out := Streak{
		Current:           next,
		Longest:           cur.Longest,
		LastCompletedDate: today,
		FreezeCount:       cur.FreezeCount,
	}
	if next > out.Longest {
		out.Longest = next
	}

	label, milestone := milestoneLabels[next]
	return StreakResult{
		Streak:         out,
		IsNewRecord:    next > cur.Longest,
		IsMilestone:    milestone,
		MilestoneLabel: label,
	}
}

// IsStale reports whether more than one day has passed since the last
// completion. An unstarted streak is never stale. The comparison is by
// calendar day, not elapsed duration, so DST transitions don't shift it.
func (s Streak) IsStale(now time.Time) bool {
	if s.LastCompletedDate == "" {
		return false
	}
	if _, err := time.ParseInLocation(DateLayout, s.LastCompletedDate, time.Local); err != nil {
		return true
	}
	local := now.In(time.Local)
	today := local.Format(DateLayout)
	yesterday := local.AddDate(0, 0, -1).Format(DateLayout)
	return s.LastCompletedDate != today && s.LastCompletedDate != yesterday
}

// Reset zeroes the running streak while keeping the longest record.
func (s Streak) Reset() Streak {
	return Streak{
		Current:           0,
		Longest:           s.Longest,
		LastCompletedDate: "",
		FreezeCount:       s.FreezeCount,
	}
}
