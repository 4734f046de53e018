package sentiment

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/moodmate/internal/models"
)

// Category thresholds on polarity. These are user-visible, keep them stable.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

var ErrEmptyInput = errors.New("empty input")

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// Classifier scores text with VADER. The analyzer is read-only after
// construction, so one Classifier can serve concurrent requests.
type Classifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewClassifier() *Classifier {
	return &Classifier{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Classify maps text to a MoodResult. Blank text yields the neutral result
// together with ErrEmptyInput.
func (c *Classifier) Classify(text string) (models.MoodResult, error) {
	if strings.TrimSpace(text) == "" {
		return NeutralResult(), ErrEmptyInput
	}

	polarity, subjectivity := c.Score(text)
	return BuildResult(polarity, subjectivity), nil
}

// Score returns polarity in [-1, 1] and subjectivity in [0, 1], both rounded
// to two decimals. Subjectivity is the share of the text VADER found to carry
// sentiment.
func (c *Classifier) Score(text string) (float64, float64) {
	plainText := ConvertMarkdownToText(text)
	if plainText == "" {
		return 0, 0
	}

	scores := c.analyzer.PolarityScores(plainText)

	polarity := clamp(scores.Compound, -1, 1)
	subjectivity := clamp(scores.Positive+scores.Negative, 0, 1)

	return round2(polarity), round2(subjectivity)
}

func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText keeps only the readable text of a Markdown document:
// link targets, bare URLs and markup are dropped and whitespace collapsed.
func ConvertMarkdownToText(input string) string {
	root := blackfriday.New(blackfriday.WithNoExtensions()).Parse([]byte(input))

	var sb strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch node.Type {
		case blackfriday.Text, blackfriday.Code:
			if entering {
				sb.Write(node.Literal)
			}
		case blackfriday.CodeBlock:
			if entering {
				sb.Write(node.Literal)
				sb.WriteByte(' ')
			}
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			sb.WriteByte(' ')
		case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item, blackfriday.TableCell:
			if !entering {
				sb.WriteByte(' ')
			}
		}
		return blackfriday.GoToNext
	})

	plainText := strings.Join(strings.Fields(sb.String()), " ")
	return strings.Join(strings.Fields(RemoveLinks(plainText)), " ")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // no negative zero in JSON
	}
	return r
}
