package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/questforge/backend/domain"
)

// Reduce is the pure transition function of the state engine. It never
// mutates the input tree and never fails: malformed or unrecognized actions
// return the input unchanged. Every derived field (level, longest streak) is
// recomputed from its canonical source rather than patched incrementally.
func Reduce(s domain.Snapshot, action Action) domain.Snapshot {
	switch a := action.(type) {
	case AddTask:
		return sweep(addTask(clone(s), a), time.Now())
	case ToggleTask:
		at := orNow(a.At)
		return sweep(toggleTask(clone(s), a.ID, at), at)
	case DeleteTask:
		return sweep(deleteTask(clone(s), a.ID), time.Now())
	case UnlockAchievement:
		at := orNow(a.At)
		return sweep(unlockAchievement(clone(s), a.ID, at), at)
	case UpdateStreak:
		return sweep(updateStreak(clone(s), a.Streak), time.Now())
	case SetAllData:
		return mergeSnapshot(s, a.Snapshot)
	case AddMoodEntry:
		at := orNow(a.At)
		return sweep(addMood(clone(s), a, at), at)
	case DeleteMoodEntry:
		next := clone(s)
		next.MoodEntries = deleteByID(next.MoodEntries, a.ID, func(m domain.MoodEntry) string { return m.ID })
		return sweep(next, time.Now())
	case AddImportantDate:
		next := clone(s)
		next.ImportantDates = append(next.ImportantDates, domain.ImportantDate{
			ID:        uuid.NewString(),
			Title:     a.Title,
			Date:      a.Date,
			Category:  a.Category,
			CreatedAt: time.Now(),
		})
		return sweep(next, time.Now())
	case DeleteImportantDate:
		next := clone(s)
		next.ImportantDates = deleteByID(next.ImportantDates, a.ID, func(d domain.ImportantDate) string { return d.ID })
		return sweep(next, time.Now())
	case AddQuestion:
		at := orNow(a.At)
		return sweep(addQuestion(clone(s), a, at), at)
	case DeleteQuestion:
		next := clone(s)
		next.Questions = deleteByID(next.Questions, a.ID, func(q domain.Question) string { return q.ID })
		return sweep(next, time.Now())
	case UpdateSettings:
		next := clone(s)
		next.Settings = a.Settings
		return sweep(next, time.Now())
	case SetDailyChallenges:
		next := clone(s)
		next.DailyChallenges = append([]domain.DailyChallenge(nil), a.Challenges...)
		return sweep(next, time.Now())
	default:
		return s
	}
}

func addTask(s domain.Snapshot, a AddTask) domain.Snapshot {
	if a.Title == "" {
		return s
	}
	s.Tasks = append(s.Tasks, domain.NewTask(a.Title, a.Description, a.Priority, a.DueDate))
	return s
}

func toggleTask(s domain.Snapshot, id string, at time.Time) domain.Snapshot {
	for i := range s.Tasks {
		if s.Tasks[i].ID != id {
			continue
		}
		if s.Tasks[i].Completed {
			// Uncompleting never reverses rewards; toggle-spam must not farm XP.
			s.Tasks[i].Completed = false
			s.Tasks[i].CompletedAt = nil
			return s
		}

		s.Tasks[i].Completed = true
		completedAt := at
		s.Tasks[i].CompletedAt = &completedAt

		xp, coins := domain.TaskRewards(s.Tasks[i].Priority)
		s = credit(s, xp, coins)
		s.Stats.TotalTasksCompleted++

		s = advanceChallenges(s, domain.ChallengeCompleteTasks, at)
		if s.Tasks[i].Priority == domain.PriorityHigh {
			s = advanceChallenges(s, domain.ChallengeHighPriority, at)
		}
		return s
	}
	return s
}

func deleteTask(s domain.Snapshot, id string) domain.Snapshot {
	s.Tasks = deleteByID(s.Tasks, id, func(t domain.Task) string { return t.ID })
	return s
}

func unlockAchievement(s domain.Snapshot, id string, at time.Time) domain.Snapshot {
	for _, a := range s.Achievements {
		if a.ID == id {
			return s
		}
	}
	for _, tpl := range s.AvailableAchievements {
		if tpl.ID != id {
			continue
		}
		earned := tpl
		earned.Unlocked = true
		earned.Date = at.Format(domain.DateLayout)
		s.Achievements = append(s.Achievements, earned)
		s = credit(s, earned.Points, domain.CoinRewards[domain.RewardAchievement])
		return s
	}
	return s
}

func updateStreak(s domain.Snapshot, streak domain.Streak) domain.Snapshot {
	if streak.Longest < streak.Current {
		streak.Longest = streak.Current
	}
	s.Streak = streak
	if streak.Longest > s.Stats.LongestStreak {
		s.Stats.LongestStreak = streak.Longest
	}
	return s
}

func addMood(s domain.Snapshot, a AddMoodEntry, at time.Time) domain.Snapshot {
	if a.Mood == "" {
		return s
	}
	s.MoodEntries = append(s.MoodEntries, domain.MoodEntry{
		ID:        uuid.NewString(),
		Mood:      a.Mood,
		Note:      a.Note,
		Date:      at.Format(domain.DateLayout),
		CreatedAt: at,
	})
	s = credit(s, domain.XPRewards[domain.RewardMoodEntry], domain.CoinRewards[domain.RewardMoodEntry])
	return advanceChallenges(s, domain.ChallengeMoodCheckin, at)
}

func addQuestion(s domain.Snapshot, a AddQuestion, at time.Time) domain.Snapshot {
	if a.Text == "" {
		return s
	}
	s.Questions = append(s.Questions, domain.Question{
		ID:        uuid.NewString(),
		Text:      a.Text,
		Answer:    a.Answer,
		CreatedAt: at,
	})
	s = credit(s, domain.XPRewards[domain.RewardKnowledgeEntry], domain.CoinRewards[domain.RewardKnowledgeEntry])
	return advanceChallenges(s, domain.ChallengeKnowledge, at)
}

// mergeSnapshot is the bulk-load path: it fills absent substructures with
// defaults, repairs the achievement lists, and recomputes the level from the
// persisted XP total instead of trusting the stored level record.
func mergeSnapshot(cur domain.Snapshot, in domain.Snapshot) domain.Snapshot {
	out := clone(in)
	if out.UserID == "" {
		out.UserID = cur.UserID
	}

	out.AvailableAchievements = domain.RepairCatalog(out.AvailableAchievements)
	out.Achievements = domain.SanitizeAchievements(out.Achievements)

	if out.Tasks == nil {
		out.Tasks = []domain.Task{}
	}
	if out.ImportantDates == nil {
		out.ImportantDates = []domain.ImportantDate{}
	}
	if out.Questions == nil {
		out.Questions = []domain.Question{}
	}
	if out.MoodEntries == nil {
		out.MoodEntries = []domain.MoodEntry{}
	}
	if out.DailyChallenges == nil {
		out.DailyChallenges = []domain.DailyChallenge{}
	}
	if out.Settings == (domain.Settings{}) {
		out.Settings = domain.DefaultSnapshot(out.UserID).Settings
	}
	if out.Stats.JoinedDate.IsZero() {
		out.Stats.JoinedDate = time.Now()
	}

	out.Stats.Level = domain.LevelFromXP(out.Stats.TotalXP)
	if out.Streak.Longest < out.Streak.Current {
		out.Streak.Longest = out.Streak.Current
	}
	if out.Stats.LongestStreak < out.Streak.Longest {
		out.Stats.LongestStreak = out.Streak.Longest
	}
	return out
}

// sweep runs the achievement check after a transition and folds any newly
// earned achievements plus their rewards into the same resulting state. It is
// a single pass: achievements earned here do not trigger a second check.
func sweep(s domain.Snapshot, at time.Time) domain.Snapshot {
	stats := domain.AchievementStats{
		TotalTasksCompleted: s.Stats.TotalTasksCompleted,
		LongestStreak:       s.Stats.LongestStreak,
		Level:               s.Stats.Level.Level,
		ChallengesCompleted: s.Stats.TotalChallengesCompleted,
		MoodEntries:         len(s.MoodEntries),
	}
	earned := domain.CheckAchievements(stats, s.Achievements, at)
	for _, a := range earned {
		s.Achievements = append(s.Achievements, a)
		s = credit(s, a.Points, domain.CoinRewards[domain.RewardAchievement])
	}
	s.LastUpdated = at
	return s
}

// advanceChallenges bumps progress on every matching active challenge and
// grants the reward for ones that just hit their target. Progress never moves
// backwards and completed challenges stay latched.
func advanceChallenges(s domain.Snapshot, kind domain.ChallengeType, at time.Time) domain.Snapshot {
	for i := range s.DailyChallenges {
		c := &s.DailyChallenges[i]
		if c.Completed || c.Type != kind || at.After(c.ExpiresAt) {
			continue
		}
		c.Progress++
		if c.Progress >= c.Target {
			c.Progress = c.Target
			c.Completed = true
			s = credit(s, c.Reward.XP, c.Reward.Coins)
			s.Stats.TotalChallengesCompleted++
		}
	}
	return s
}

func credit(s domain.Snapshot, xp, coins int) domain.Snapshot {
	s.Stats.TotalXP += xp
	s.Stats.TotalCoins += coins
	s.Coins += coins
	s.Stats.Level = domain.LevelFromXP(s.Stats.TotalXP)
	return s
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func deleteByID[T any](list []T, id string, key func(T) string) []T {
	out := list[:0:0]
	for _, item := range list {
		if key(item) != id {
			out = append(out, item)
		}
	}
	return out
}

// clone copies the snapshot deeply enough that the reducer never aliases the
// caller's slices.
func clone(s domain.Snapshot) domain.Snapshot {
	out := s
	out.Tasks = append([]domain.Task(nil), s.Tasks...)
	out.Achievements = append([]domain.Achievement(nil), s.Achievements...)
	out.AvailableAchievements = append([]domain.Achievement(nil), s.AvailableAchievements...)
	out.ImportantDates = append([]domain.ImportantDate(nil), s.ImportantDates...)
	out.Questions = append([]domain.Question(nil), s.Questions...)
	out.MoodEntries = append([]domain.MoodEntry(nil), s.MoodEntries...)
	out.DailyChallenges = append([]domain.DailyChallenge(nil), s.DailyChallenges...)
	return out
}
