package domain

import "time"

// PublicUser is the profile slice anyone may see.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// PublicOption is an option with its correctness withheld.
type PublicOption struct {
	Text string `json:"option"`
}

// PublicQuestion is a question reduced to display fields.
type PublicQuestion struct {
	Text    string         `json:"question"`
	Options []PublicOption `json:"options"`
}

// QuizCard is the listing/search projection of a quiz: everything a feed
// needs, no question internals.
type QuizCard struct {
	ID           string     `json:"id"`
	Author       PublicUser `json:"author"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	LikesCount   int        `json:"likesCount"`
	SavesCount   int        `json:"savesCount"`
	ViewsCount   int        `json:"viewsCount"`
	ResultsCount int        `json:"resultsCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// QuizDetail is the single-quiz projection. Questions always carry display
// fields only; Source holds the full questions (with correctness) and is set
// only when the requester is the author, for the edit form.
type QuizDetail struct {
	QuizCard
	Questions []PublicQuestion `json:"questions"`
	Source    []Question       `json:"source,omitempty"`
	Liked     bool             `json:"liked"`
	Saved     bool             `json:"saved"`
}

// ResultDetail is a result joined with its quiz card and the player.
type ResultDetail struct {
	ID        string         `json:"id"`
	User      PublicUser     `json:"user"`
	Quiz      QuizCard       `json:"quiz"`
	Answers   []ResultAnswer `json:"answers"`
	Score     int            `json:"score"`
	Total     int            `json:"total"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ViewEntry is one row of a user's viewing history.
type ViewEntry struct {
	Quiz     QuizCard  `json:"quiz"`
	ViewedAt time.Time `json:"viewedAt"`
}

// Profile is the own-profile aggregation behind the profile tabs.
type Profile struct {
	PublicUser
	CreatedAt time.Time      `json:"createdAt"`
	Created   []QuizCard     `json:"createdQuizzes"`
	Liked     []QuizCard     `json:"likedQuizzes"`
	Saved     []QuizCard     `json:"savedQuizzes"`
	Views     []ViewEntry    `json:"views"`
	Results   []ResultDetail `json:"results"`
}

// PublicProfile is what other users see of a profile.
type PublicProfile struct {
	PublicUser
	CreatedAt time.Time  `json:"createdAt"`
	Created   []QuizCard `json:"createdQuizzes"`
}

// AsPublicUser projects a user.
func (u *User) AsPublicUser() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Image: u.Image}
}

// AsCard projects a quiz onto its listing shape. The Author relation must be
// loaded.
func (q *Quiz) AsCard() QuizCard {
	card := QuizCard{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		LikesCount:   q.LikesCount,
		SavesCount:   q.SavesCount,
		ViewsCount:   q.ViewsCount,
		ResultsCount: q.ResultsCount,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
	if q.Author != nil {
		card.Author = q.Author.AsPublicUser()
	} else {
		card.Author = PublicUser{ID: q.AuthorID}
	}
	return card
}

// PublicQuestions strips the answer key from a quiz's questions.
func (q *Quiz) PublicQuestions() []PublicQuestion {
	out := make([]PublicQuestion, 0, len(q.Questions))
	for _, question := range q.Questions {
		pq := PublicQuestion{Text: question.Text, Options: make([]PublicOption, 0, len(question.Options))}
		for _, opt := range question.Options {
			pq.Options = append(pq.Options, PublicOption{Text: opt.Text})
		}
		out = append(out, pq)
	}
	return out
}

// AsDetail projects a result for its owner or the quiz author. The User and
// Quiz relations must be loaded.
func (r *Result) AsDetail() ResultDetail {
	d := ResultDetail{
		ID:        r.ID,
		Answers:   r.Answers,
		Score:     r.Score,
		Total:     len(r.Answers),
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		d.User = r.User.AsPublicUser()
	} else {
		d.User = PublicUser{ID: r.UserID}
	}
	if r.Quiz != nil {
		d.Quiz = r.Quiz.AsCard()
	}
	return d
}

// Cards projects a slice of quizzes.
func Cards(quizzes []Quiz) []QuizCard {
	cards := make([]QuizCard, 0, len(quizzes))
	for i := range quizzes {
		cards = append(cards, quizzes[i].AsCard())
	}
	return cards
}
