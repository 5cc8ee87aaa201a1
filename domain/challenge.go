package domain

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ChallengeType names the domain event that advances a challenge.
type ChallengeType string

const (
	ChallengeCompleteTasks ChallengeType = "complete_tasks"
	ChallengeHighPriority  ChallengeType = "high_priority"
	ChallengeMoodCheckin   ChallengeType = "mood_checkin"
	ChallengeKnowledge     ChallengeType = "knowledge"
)

// ChallengeReward is the bonus granted when a challenge target is met.
type ChallengeReward struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}

// DailyChallenge is a time-boxed target that expires at the next midnight.
// Progress only moves forward until Completed latches true.
type DailyChallenge struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        ChallengeType   `json:"type"`
	Target      int             `json:"target"`
	Progress    int             `json:"progress"`
	Reward      ChallengeReward `json:"reward"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Completed   bool            `json:"completed"`
}

type challengeBlueprint struct {
	title       string
	description string
	kind        ChallengeType
	target      int
	reward      ChallengeReward
}

var challengeBlueprints = []challengeBlueprint{
	{"Clean Sweep", "Complete 3 tasks today", ChallengeCompleteTasks, 3, ChallengeReward{XP: 30, Coins: 15}},
	{"Power Hour", "Complete 5 tasks today", ChallengeCompleteTasks, 5, ChallengeReward{XP: 50, Coins: 25}},
	{"Heavy Lifting", "Finish a high-priority task", ChallengeHighPriority, 1, ChallengeReward{XP: 35, Coins: 18}},
	{"Check In", "Record your mood", ChallengeMoodCheckin, 1, ChallengeReward{XP: 15, Coins: 8}},
	{"Curious Mind", "Add 2 knowledge entries", ChallengeKnowledge, 2, ChallengeReward{XP: 25, Coins: 12}},
	{"Double Down", "Finish 2 high-priority tasks", ChallengeHighPriority, 2, ChallengeReward{XP: 60, Coins: 30}},
}

// RollDailyChallenges picks 2-3 blueprints without replacement and stamps them
// with the next-midnight expiry.
func RollDailyChallenges(now time.Time, rng *rand.Rand) []DailyChallenge {
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}

	count := 2 + rng.Intn(2)
	order := rng.Perm(len(challengeBlueprints))
	expires := nextMidnight(now)

	out := make([]DailyChallenge, 0, count)
	for _, idx := range order[:count] {
		bp := challengeBlueprints[idx]
		out = append(out, DailyChallenge{
			ID:          uuid.NewString(),
			Title:       bp.title,
			Description: bp.description,
			Type:        bp.kind,
			Target:      bp.target,
			Reward:      bp.reward,
			ExpiresAt:   expires,
		})
	}
	return out
}

// ChallengesExpired reports whether any active challenge has passed its
// expiry, which triggers wholesale regeneration of the set.
func ChallengesExpired(challenges []DailyChallenge, now time.Time) bool {
	for _, c := range challenges {
		if now.After(c.ExpiresAt) {
			return true
		}
	}
	return false
}

func nextMidnight(now time.Time) time.Time {
	local := now.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)
}
