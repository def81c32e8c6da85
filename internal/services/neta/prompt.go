package neta

import (
	"fmt"

	"nihonneta/internal/source"
)

// emptySnippetPlaceholder stands in for articles whose source provided
// no description.
const emptySnippetPlaceholder = "No description available"

const promptTemplate = `You are helping Japanese English speakers discuss news in English. Given this news article, create a detailed conversation guide.

Article Title: %s
Description: %s

Respond with a single JSON object only, no other text, matching exactly this shape:
{
  "category": "one of: culture, seasonal, food, society, manners, transport, general",
  "difficulty": 1, 2 or 3,
  "casualPhrases": ["2-3 casual English phrases to bring this up"],
  "expandingQuestions": ["2 questions that expand the conversation"],
  "thirtySecondExplanation": "how to explain this topic in 30 seconds, in Japanese",
  "whyExplanation": "an answer for when someone asks why, in Japanese",
  "foreignerAnalogies": [{"country": "country name", "analogy": "a comparison that lands with people from that country"}],
  "talkingHooks": ["3 hooks or fun asides"],
  "numberFacts": ["3 facts told through numbers"],
  "practicalQA": [{"question": "practical question in English", "answer": "answer in English"}],
  "culturalQA": [{"question": "cultural question in English", "answer": "answer in English"}],
  "deepDiveQA": [{"question": "deep-dive question in English", "answer": "answer in English"}],
  "relatedAreas": ["related sightseeing spots or areas"]
}`

// BuildPrompt renders the per-item instruction. Pure: the same item always
// produces the same text.
func BuildPrompt(item source.Item) string {
	snippet := item.Snippet
	if snippet == "" {
		snippet = emptySnippetPlaceholder
	}
	return fmt.Sprintf(promptTemplate, item.Title, snippet)
}
