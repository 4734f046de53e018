package contract

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/spacesedan/moodmate/internal/models"
)

// Schema names served under /api/schema/:name.
const (
	MoodResult   = "mood-result"
	MoodHistory  = "mood-history"
	ChatRequest  = "chat-request"
	ChatResponse = "chat-response"
)

var generators = map[string]func() (json.RawMessage, error){
	MoodResult:   GenerateSchema[models.AnalyzeResponse],
	MoodHistory:  GenerateSchema[models.MoodHistory],
	ChatRequest:  GenerateSchema[models.ChatRequest],
	ChatResponse: GenerateSchema[models.ChatResponse],
}

// Names lists the published schemas in a stable order.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the JSON Schema published under name.
func Lookup(name string) (json.RawMessage, bool, error) {
	gen, ok := generators[name]
	if !ok {
		return nil, false, nil
	}
	schema, err := gen()
	if err != nil {
		return nil, true, fmt.Errorf("failed to generate %s schema: %w", name, err)
	}
	return schema, true, nil
}

func GenerateSchema[T any]() (json.RawMessage, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
