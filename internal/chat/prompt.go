package chat

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

const personaPrompt = `You are MoodMate, a warm and supportive companion focused on emotional wellbeing, mood awareness and healthy coping.

You help people:
- name and make sense of what they are feeling
- find practical coping strategies that fit their situation
- reflect on patterns in their mood over time
- build self-care habits around sleep, movement, connection and rest
- feel listened to without judgement

How to respond:
- Be empathetic and validating; never dismiss a feeling.
- Offer concrete, evidence-based techniques and keep advice short and structured.
- Ask a gentle follow-up question when it would help you understand.
- Celebrate progress, however small.
- Never diagnose. Suggest professional support when it seems appropriate.
- If someone mentions self-harm or suicide, encourage them to contact local emergency services or a crisis line right away.

You are a supportive companion, not a replacement for professional care.`

const defaultKnowledgeBase = `Mood and emotional wellbeing notes:

Emotions combine a felt experience, a body response, a behaviour and an interpretation.

Common emotions:
- Happiness: joy, contentment, satisfaction, calm
- Sadness: grief, disappointment, loneliness
- Anxiety: worry, nervousness, fear, stress
- Anger: frustration, irritation, resentment
- Excitement: enthusiasm, anticipation, energy

Mood management strategies:
- Mindfulness and breathing exercises
- Physical activity
- Time with supportive people
- Regular sleep
- Balanced meals
- Creative expression and journaling`

// LoadKnowledgeBase reads the knowledge text at path, falling back to the
// built-in notes when the file does not exist.
func LoadKnowledgeBase(path string) (string, error) {
	if path == "" {
		return defaultKnowledgeBase, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("[Chat] Knowledge base file not found, using built-in notes",
			slog.String("path", path))
		return defaultKnowledgeBase, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read knowledge base: %w", err)
	}

	kb := strings.TrimSpace(string(data))
	if kb == "" {
		return defaultKnowledgeBase, nil
	}
	return kb, nil
}

// SystemPrompt joins the persona with the knowledge base.
func SystemPrompt(knowledgeBase string) string {
	if strings.TrimSpace(knowledgeBase) == "" {
		return personaPrompt
	}
	return personaPrompt + "\n\nKnowledge base:\n" + knowledgeBase
}
