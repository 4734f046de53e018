package sentiment

import "github.com/spacesedan/moodmate/internal/models"

// Mood band thresholds, finer than the category split.
const (
	strongPositiveThreshold = 0.3
	strongNegativeThreshold = -0.3
)

type categoryFeedback struct {
	Emoji    string
	Feedback string
	Color    string
}

var feedbackByCategory = map[models.MoodCategory]categoryFeedback{
	models.CategoryPositive: {
		Emoji:    "😊",
		Feedback: "You're in a good place today. Take a moment to notice what's going well and hold on to it.",
		Color:    "#10b981",
	},
	models.CategoryNeutral: {
		Emoji:    "😐",
		Feedback: "A steady, even day. Checking in with yourself like this is a great habit.",
		Color:    "#6b7280",
	},
	models.CategoryNegative: {
		Emoji:    "😢",
		Feedback: "It sounds like a tough day. Be gentle with yourself, and consider reaching out to someone you trust.",
		Color:    "#ef4444",
	},
}

// Categorize applies the fixed polarity thresholds.
func Categorize(polarity float64) models.MoodCategory {
	switch {
	case polarity > PositiveThreshold:
		return models.CategoryPositive
	case polarity < NegativeThreshold:
		return models.CategoryNegative
	default:
		return models.CategoryNeutral
	}
}

type moodBand struct {
	Label string
	Emoji string
	Color string
}

var (
	bandHappy            = moodBand{Label: "Happy", Emoji: "😊", Color: "#10b981"}
	bandSlightlyPositive = moodBand{Label: "Slightly Positive", Emoji: "🙂", Color: "#84cc16"}
	bandNeutral          = moodBand{Label: "Neutral", Emoji: "😐", Color: "#6b7280"}
	bandSlightlyNegative = moodBand{Label: "Slightly Negative", Emoji: "😕", Color: "#f97316"}
	bandSad              = moodBand{Label: "Sad", Emoji: "😢", Color: "#ef4444"}
)

func bandFor(polarity float64) moodBand {
	switch {
	case polarity > strongPositiveThreshold:
		return bandHappy
	case polarity > PositiveThreshold:
		return bandSlightlyPositive
	case polarity < strongNegativeThreshold:
		return bandSad
	case polarity < NegativeThreshold:
		return bandSlightlyNegative
	default:
		return bandNeutral
	}
}

// MoodLabel returns the five-band display label for a polarity.
func MoodLabel(polarity float64) string {
	return bandFor(polarity).Label
}

// BuildResult fills every MoodResult field from a score pair.
func BuildResult(polarity, subjectivity float64) models.MoodResult {
	category := Categorize(polarity)
	fb := feedbackByCategory[category]
	band := bandFor(polarity)

	return models.MoodResult{
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Category:     category,
		Emoji:        fb.Emoji,
		Feedback:     fb.Feedback,
		Mood:         band.Label,
		MoodEmoji:    band.Emoji,
		MoodColor:    band.Color,
		Color:        fb.Color,
	}
}

func NeutralResult() models.MoodResult {
	return BuildResult(0, 0)
}
