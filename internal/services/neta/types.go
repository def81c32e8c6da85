package neta

// Neta is one conversation guide built from a single news item. A Neta is
// only emitted when the model response parsed cleanly; there are no partial
// records.
type Neta struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	SourceURL   string `json:"sourceUrl"`
	PublishedAt string `json:"publishedAt"`
	Category    string `json:"category"`
	Difficulty  int    `json:"difficulty"`

	// Conversation starters
	CasualPhrases      []string `json:"casualPhrases"`
	ExpandingQuestions []string `json:"expandingQuestions"`

	// Background knowledge
	ThirtySecondExplanation string    `json:"thirtySecondExplanation"`
	WhyExplanation          string    `json:"whyExplanation"`
	ForeignerAnalogies      []Analogy `json:"foreignerAnalogies"`
	TalkingHooks            []string  `json:"talkingHooks"`
	NumberFacts             []string  `json:"numberFacts"`

	// Q&A
	PracticalQA []QA `json:"practicalQA"`
	CulturalQA  []QA `json:"culturalQA"`
	DeepDiveQA  []QA `json:"deepDiveQA"`

	RelatedAreas []string `json:"relatedAreas"`
}

// Analogy maps the topic onto something familiar in another country.
type Analogy struct {
	Country string `json:"country"`
	Analogy string `json:"analogy"`
}

type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Debug summarizes the fetch and transform outcomes for one invocation.
// It is always present in the response, even on full success, so an empty
// result set is never silent.
type Debug struct {
	News      string `json:"news"`
	Transform string `json:"transform"`
	Timestamp string `json:"timestamp"`
}
