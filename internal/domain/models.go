package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a registered account. The password hash never leaves the server.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           string    `bun:"id,pk" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	Image        string    `bun:"image" json:"image"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

// Option is one choice of a question. Options are embedded in the quiz row
// as JSONB, they are not an independent aggregate.
type Option struct {
	Text      string `json:"option"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a prompt plus 2-4 options, at least one of them correct.
type Question struct {
	Text    string   `json:"question"`
	Options []Option `json:"options"`
}

// Quiz is a titled collection of at least three questions owned by one author.
// The counters are denormalized and maintained transactionally alongside the
// rows they count.
type Quiz struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID           string     `bun:"id,pk" json:"id"`
	AuthorID     string     `bun:"author_id,notnull" json:"authorId"`
	Author       *User      `bun:"rel:belongs-to,join:author_id=id" json:"-"`
	Title        string     `bun:"title,notnull" json:"title"`
	Description  string     `bun:"description,notnull" json:"description"`
	Questions    []Question `bun:"questions,type:jsonb" json:"questions"`
	LikesCount   int        `bun:"likes_count,notnull,default:0" json:"likesCount"`
	SavesCount   int        `bun:"saves_count,notnull,default:0" json:"savesCount"`
	ViewsCount   int        `bun:"views_count,notnull,default:0" json:"viewsCount"`
	ResultsCount int        `bun:"results_count,notnull,default:0" json:"resultsCount"`
	CreatedAt    time.Time  `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull" json:"updatedAt"`
}

// QuizLike is one row of the like relation.
type QuizLike struct {
	bun.BaseModel `bun:"table:quiz_likes"`

	QuizID    string    `bun:"quiz_id,pk"`
	UserID    string    `bun:"user_id,pk"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// QuizSave is one row of the save relation.
type QuizSave struct {
	bun.BaseModel `bun:"table:quiz_saves"`

	QuizID    string    `bun:"quiz_id,pk"`
	UserID    string    `bun:"user_id,pk"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// View records that a user opened a quiz, deduplicated to at most one row
// per user per quiz per hour.
type View struct {
	bun.BaseModel `bun:"table:views"`

	ID        string    `bun:"id,pk" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"userId"`
	QuizID    string    `bun:"quiz_id,notnull" json:"quizId"`
	Quiz      *Quiz     `bun:"rel:belongs-to,join:quiz_id=id" json:"-"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// ResultOption mirrors a quiz option at play time, annotated with whether the
// player picked it. IsCorrect comes from the stored quiz, never from the client.
type ResultOption struct {
	Text      string `json:"option"`
	IsCorrect bool   `json:"isCorrect"`
	IsPicked  bool   `json:"isPicked"`
}

// ResultAnswer is one answered question inside a result.
type ResultAnswer struct {
	Question string         `json:"question"`
	Options  []ResultOption `json:"options"`
}

// Result is the immutable record of one completed play-through.
type Result struct {
	bun.BaseModel `bun:"table:results"`

	ID        string         `bun:"id,pk" json:"id"`
	UserID    string         `bun:"user_id,notnull" json:"userId"`
	User      *User          `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	QuizID    string         `bun:"quiz_id,notnull" json:"quizId"`
	Quiz      *Quiz          `bun:"rel:belongs-to,join:quiz_id=id" json:"-"`
	Answers   []ResultAnswer `bun:"answers,type:jsonb" json:"answers"`
	Score     int            `bun:"score,notnull,default:0" json:"score"`
	CreatedAt time.Time      `bun:"created_at,notnull" json:"createdAt"`
}

// Correct reports whether the picked option of this answer was correct.
func (a ResultAnswer) Correct() bool {
	for _, opt := range a.Options {
		if opt.IsPicked && opt.IsCorrect {
			return true
		}
	}
	return false
}

// Score counts the correctly answered questions.
func Score(answers []ResultAnswer) int {
	score := 0
	for _, a := range answers {
		if a.Correct() {
			score++
		}
	}
	return score
}

// AnswerInput is what a player submits for one question: the question text and
// the text of the picked option.
type AnswerInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
