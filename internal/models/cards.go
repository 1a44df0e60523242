package models

// QuestionCard is the display record for a question in listings and detail views.
type QuestionCard struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Text        string   `json:"text"`
	Tags        []string `json:"tags"`
	Score       int      `json:"like"`
	Avatar      string   `json:"image"`
	AnswerCount int      `json:"answer_number"`
}

// AnswerCard is the display record for an answer.
type AnswerCard struct {
	ID      uint   `json:"id"`
	Text    string `json:"text"`
	Score   int    `json:"like"`
	Avatar  string `json:"image"`
	Correct bool   `json:"correct"`
}

// Card builds the display record for q. Tags must be preloaded.
func (q *Question) Card() QuestionCard {
	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		tags = append(tags, t.Title)
	}
	return QuestionCard{
		ID:          q.ID,
		Title:       q.Title,
		Text:        q.Description,
		Tags:        tags,
		Score:       q.Score,
		Avatar:      q.Author.AvatarOrDefault(),
		AnswerCount: q.AnswerCount,
	}
}

// Card builds the display record for a.
func (a *Answer) Card() AnswerCard {
	return AnswerCard{
		ID:      a.ID,
		Text:    a.Description,
		Score:   a.Score,
		Avatar:  a.Author.AvatarOrDefault(),
		Correct: a.IsCorrect,
	}
}
