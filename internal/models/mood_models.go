package models

import "time"

type MoodCategory string

const (
	CategoryPositive MoodCategory = "Positive"
	CategoryNegative MoodCategory = "Negative"
	CategoryNeutral  MoodCategory = "Neutral"
)

type AnalyzeRequest struct {
	Text string `json:"text" jsonschema:"minLength=1"`
}

// MoodResult is a pure function of the analysed text.
type MoodResult struct {
	Polarity     float64      `json:"polarity" jsonschema:"minimum=-1,maximum=1"`
	Subjectivity float64      `json:"subjectivity" jsonschema:"minimum=0,maximum=1"`
	Category     MoodCategory `json:"category" jsonschema:"enum=Positive,enum=Negative,enum=Neutral"`
	Emoji        string       `json:"emoji"`
	Feedback     string       `json:"feedback"`
	Color        string       `json:"color"`
	// Five-band display of the same polarity.
	Mood      string `json:"mood" jsonschema:"enum=Happy,enum=Slightly Positive,enum=Neutral,enum=Slightly Negative,enum=Sad"`
	MoodEmoji string `json:"mood_emoji"`
	MoodColor string `json:"mood_color"`
}

type AnalyzeResponse struct {
	MoodResult
	AnalyzedAt time.Time `json:"analyzed_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
