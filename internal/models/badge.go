package models

const (
	BadgeGreenBeginner = "Green Beginner"
	BadgeEcoWarrior    = "Eco Warrior"
)

type BadgeThreshold struct {
	Points int
	Badge  string
}

// BadgeThresholds is ordered by ascending Points.
var BadgeThresholds = []BadgeThreshold{
	{Points: 50, Badge: BadgeGreenBeginner},
	{Points: 200, Badge: BadgeEcoWarrior},
}

// DeriveBadges returns every badge whose threshold is crossed by points, lowest first.
func DeriveBadges(points int) []string {
	badges := make([]string, 0, len(BadgeThresholds))
	for _, t := range BadgeThresholds {
		if points < t.Points {
			break
		}
		badges = append(badges, t.Badge)
	}
	return badges
}

// MergeBadges returns current with every badge in earned appended once. Nothing is removed.
func MergeBadges(current, earned []string) []string {
	seen := make(map[string]struct{}, len(current)+len(earned))
	merged := make([]string, 0, len(current)+len(earned))
	for _, list := range [][]string{current, earned} {
		for _, b := range list {
			if _, ok := seen[b]; ok {
				continue
			}
			seen[b] = struct{}{}
			merged = append(merged, b)
		}
	}
	return merged
}
