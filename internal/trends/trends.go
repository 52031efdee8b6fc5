// Package trends serves the sentiment dashboard's reference data. Real
// social-media ingestion is out of scope; these are the fixed aggregates the
// demonstration site renders.
package trends

// Sentiment aggregates mention counts for a single subject.
type Sentiment struct {
	Name     string `json:"name"`
	Positive int64  `json:"positive"`
	Negative int64  `json:"negative"`
	Neutral  int64  `json:"neutral"`
	Total    int64  `json:"total"`
}

var partySentiment = []Sentiment{
	{Name: "Progressive Alliance", Positive: 4500, Negative: 1500, Neutral: 3000, Total: 9000},
	{Name: "Unity Coalition", Positive: 3800, Negative: 2200, Neutral: 2500, Total: 8500},
	{Name: "Liberty Party", Positive: 3200, Negative: 1800, Neutral: 2000, Total: 7000},
	{Name: "Citizens Alliance", Positive: 2800, Negative: 1600, Neutral: 1600, Total: 6000},
}

var timelineSentiment = []Sentiment{
	{Name: "Jan", Positive: 1500, Negative: 800, Neutral: 1200, Total: 3500},
	{Name: "Feb", Positive: 2000, Negative: 1000, Neutral: 1400, Total: 4400},
	{Name: "Mar", Positive: 2800, Negative: 1200, Neutral: 1600, Total: 5600},
	{Name: "Apr", Positive: 3500, Negative: 1500, Neutral: 2000, Total: 7000},
	{Name: "May", Positive: 4200, Negative: 1800, Neutral: 2500, Total: 8500},
	{Name: "Jun", Positive: 5000, Negative: 2000, Neutral: 3000, Total: 10000},
}

var topicSentiment = []Sentiment{
	{Name: "Economy", Positive: 5500, Negative: 2500, Neutral: 2000, Total: 10000},
	{Name: "Healthcare", Positive: 4800, Negative: 3200, Neutral: 2500, Total: 10500},
	{Name: "Environment", Positive: 6000, Negative: 2000, Neutral: 2000, Total: 10000},
	{Name: "Education", Positive: 5000, Negative: 2000, Neutral: 2500, Total: 9500},
	{Name: "Security", Positive: 4000, Negative: 3500, Neutral: 2000, Total: 9500},
}

// PartySentiment returns per-party aggregates.
func PartySentiment() []Sentiment {
	return snapshot(partySentiment)
}

// TimelineSentiment returns per-month aggregates.
func TimelineSentiment() []Sentiment {
	return snapshot(timelineSentiment)
}

// TopicSentiment returns per-topic aggregates.
func TopicSentiment() []Sentiment {
	return snapshot(topicSentiment)
}

func snapshot(data []Sentiment) []Sentiment {
	out := make([]Sentiment, len(data))
	copy(out, data)
	return out
}
