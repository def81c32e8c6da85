package neta

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"nihonneta/internal/source"
)

const defaultDifficulty = 2

// MalformedResponseError reports model output that could not be decoded
// into a guide: not JSON, or JSON that is not an object.
type MalformedResponseError struct {
	ItemID string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response for item %s: %s: %v", e.ItemID, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed response for item %s: %s", e.ItemID, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Parse turns one raw model response into a Neta. The text may be wrapped
// in a markdown code fence; the wrapper is stripped before decoding.
//
// The envelope is strict and the fields are not: only a decodable JSON
// object is mandatory. Every field is projected individually, and a field
// that is missing or carries the wrong type falls back to its default —
// the model is unreliable about completeness but rarely produces
// unparsable JSON.
func Parse(item source.Item, raw string) (Neta, error) {
	clean := stripCodeFence(raw)

	var decoded any
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		return Neta{}, &MalformedResponseError{ItemID: item.ID, Reason: "response is not valid JSON", Err: err}
	}
	fields, ok := decoded.(map[string]any)
	if !ok {
		return Neta{}, &MalformedResponseError{ItemID: item.ID, Reason: "response is not a JSON object"}
	}

	category := asString(fields["category"])
	if category == "" {
		if len(item.Categories) > 0 {
			category = item.Categories[0]
		} else {
			category = "general"
		}
	}

	return Neta{
		ID:          item.ID,
		Title:       item.Title,
		SourceURL:   item.Link,
		PublishedAt: item.PublishedAt,
		Category:    category,
		Difficulty:  asDifficulty(fields["difficulty"]),

		CasualPhrases:      asStringList(fields["casualPhrases"]),
		ExpandingQuestions: asStringList(fields["expandingQuestions"]),

		ThirtySecondExplanation: asString(fields["thirtySecondExplanation"]),
		WhyExplanation:          asString(fields["whyExplanation"]),
		ForeignerAnalogies:      asAnalogyList(fields["foreignerAnalogies"]),
		TalkingHooks:            asStringList(fields["talkingHooks"]),
		NumberFacts:             asStringList(fields["numberFacts"]),

		PracticalQA: asQAList(fields["practicalQA"]),
		CulturalQA:  asQAList(fields["culturalQA"]),
		DeepDiveQA:  asQAList(fields["deepDiveQA"]),

		RelatedAreas: asStringList(fields["relatedAreas"]),
	}, nil
}

// stripCodeFence removes one leading/trailing triple-backtick wrapper,
// tolerating a language tag after the opening fence. Text without a
// wrapper is returned trimmed but otherwise untouched.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	rest := trimmed[len("```"):]
	// Drop the opening fence line, including any language tag.
	if idx := strings.IndexByte(rest, '\n'); idx != -1 {
		rest = rest[idx+1:]
	} else {
		return trimmed
	}

	if end := strings.LastIndex(rest, "```"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asDifficulty accepts an integral JSON number in {1,2,3}; anything else
// (missing, out of range, fractional, or a non-number) defaults to 2.
func asDifficulty(v any) int {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return defaultDifficulty
	}
	d := int(f)
	if d < 1 || d > 3 {
		return defaultDifficulty
	}
	return d
}

// asStringList keeps the string elements of a JSON array; non-arrays and
// non-string elements are dropped, never fatal.
func asStringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, elem := range list {
		if s, ok := elem.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asQAList(v any) []QA {
	list, ok := v.([]any)
	if !ok {
		return []QA{}
	}
	out := make([]QA, 0, len(list))
	for _, elem := range list {
		pair, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, QA{
			Question: asString(pair["question"]),
			Answer:   asString(pair["answer"]),
		})
	}
	return out
}

func asAnalogyList(v any) []Analogy {
	list, ok := v.([]any)
	if !ok {
		return []Analogy{}
	}
	out := make([]Analogy, 0, len(list))
	for _, elem := range list {
		pair, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Analogy{
			Country: asString(pair["country"]),
			Analogy: asString(pair["analogy"]),
		})
	}
	return out
}
