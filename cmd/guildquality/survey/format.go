package survey

import (
	"math"
	"strings"
)

const (
	title     = "📝 New GuildQuality survey"
	checked   = "✅"
	unchecked = "❌"
	star      = "⭐"

	noRating  = "(no rating)"
	noComment = "(no comment)"

	maxStars = 100
)

// Format renders the chat message. Output depends only on fields.
func Format(fields Fields) string {
	lines := []string{
		title,
		"Customer: " + fields.Customer,
		"Satisfaction Rating: " + fields.Satisfaction,
		"",
		checklist(fields.KickOff) + " " + ProjectKickOff,
		checklist(fields.FinalWalkthrough) + " " + FinalWalkthrough,
		"",
	}
	for i, rated := range fields.Ratings {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines,
			rated.Label+": "+stars(rated.Rating),
			"Comments: "+commentOrDefault(rated.Comment),
		)
	}
	return strings.Join(lines, "\n")
}

func checklist(done bool) string {
	if done {
		return checked
	}
	return unchecked
}

// stars rounds half up, so 4.5 is five stars and 0.4 is none at all.
func stars(rating *float64) string {
	if rating == nil || math.IsNaN(*rating) || math.IsInf(*rating, 0) || *rating <= 0 {
		return noRating
	}
	count := int(math.Min(math.Floor(*rating+0.5), maxStars))
	return strings.Repeat(star, count)
}

func commentOrDefault(comment string) string {
	if comment = strings.TrimSpace(comment); comment != "" {
		return comment
	}
	return noComment
}
