// Package grading scores candidate answers against a question's answer key.
// Everything in here is pure; the session service decides when to call it.
package grading

import (
	"math"
	"strings"
	"time"

	"quizknow/internal/models"
)

// Matcher decides whether a free-text candidate matches the stored answer.
// Short answer questions use the engine's matcher, which makes the policy
// pluggable (keyword matchers, fuzzy matchers and so on).
type Matcher interface {
	Match(correct, candidate string) bool
}

// CaseInsensitiveExact matches after trimming whitespace, ignoring case.
// This is the default short answer policy.
type CaseInsensitiveExact struct{}

func (CaseInsensitiveExact) Match(correct, candidate string) bool {
	return strings.EqualFold(strings.TrimSpace(correct), strings.TrimSpace(candidate))
}

// CaseSensitiveExact matches after trimming whitespace only. Fill-in-the-blank
// questions always use this.
type CaseSensitiveExact struct{}

func (CaseSensitiveExact) Match(correct, candidate string) bool {
	return strings.TrimSpace(correct) == strings.TrimSpace(candidate)
}

type Engine struct {
	ShortAnswer Matcher
}

// NewEngine returns an engine with the default short answer matcher.
func NewEngine() *Engine {
	return &Engine{ShortAnswer: CaseInsensitiveExact{}}
}

// Grade scores one candidate answer. The returned isCorrect is nil for essay
// questions, which have no automated grading. Select all, matching and
// ordering are all-or-nothing: any mismatch earns zero points.
func (e *Engine) Grade(q *models.Question, v models.AnswerValue) (*bool, int) {
	var correct bool

	switch q.Type {
	case models.QuestionMultipleChoice:
		keys := q.CorrectOptions()
		correct = len(keys) == 1 && v.Text == keys[0]
	case models.QuestionTrueFalse:
		correct = v.Text == q.CorrectAnswer
	case models.QuestionSelectAll:
		correct = equalSets(v.Selections, q.CorrectOptions())
	case models.QuestionShortAnswer:
		matcher := e.ShortAnswer
		if matcher == nil {
			matcher = CaseInsensitiveExact{}
		}
		correct = matcher.Match(q.CorrectAnswer, v.Text)
	case models.QuestionFillInBlank:
		correct = CaseSensitiveExact{}.Match(q.CorrectAnswer, v.Text)
	case models.QuestionEssay:
		return nil, 0
	case models.QuestionMatching:
		correct = matchesPairs(q.Prompts, q.Matches, v.Pairs)
	case models.QuestionOrdering:
		correct = equalSlices(v.Ordering, q.CorrectOrder)
	default:
		correct = false
	}

	if correct {
		return &correct, q.Points
	}
	return &correct, 0
}

// Result is the outcome of grading a whole session.
type Result struct {
	Answers    []models.SessionAnswer
	Score      int
	MaxScore   int
	Percentage int
}

// GradeSession scores every question of the quiz against the recorded
// answers. Unanswered questions count as incorrect and earn zero points.
// Answers referencing questions not in the quiz are dropped, so they can
// never contribute to the score.
func (e *Engine) GradeSession(quiz *models.Quiz, answers []models.SessionAnswer, now time.Time) Result {
	recorded := make(map[string]models.SessionAnswer, len(answers))
	for _, a := range answers {
		recorded[a.QuestionID] = a
	}

	res := Result{MaxScore: quiz.TotalPoints()}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		ans, ok := recorded[q.ID]
		if !ok {
			wrong := false
			res.Answers = append(res.Answers, models.SessionAnswer{
				QuestionID: q.ID,
				IsCorrect:  &wrong,
				AnsweredAt: now,
			})
			continue
		}
		isCorrect, points := e.Grade(q, ans.Value)
		ans.IsCorrect = isCorrect
		ans.PointsEarned = points
		res.Answers = append(res.Answers, ans)
		res.Score += points
	}
	res.Percentage = Percentage(res.Score, res.MaxScore)
	return res
}

// Percentage is round(score/maxScore*100), 0 when maxScore is 0.
func Percentage(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(maxScore) * 100))
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		seen[s]--
		if seen[s] < 0 {
			return false
		}
	}
	return true
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func matchesPairs(prompts, matches []string, pairs map[string]string) bool {
	if len(pairs) != len(prompts) {
		return false
	}
	for i, prompt := range prompts {
		if pairs[prompt] != matches[i] {
			return false
		}
	}
	return true
}
