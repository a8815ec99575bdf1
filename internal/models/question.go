package models

import "fmt"

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionEssay          QuestionType = "essay"
	QuestionFillInBlank    QuestionType = "fill_in_blank"
	QuestionSelectAll      QuestionType = "select_all"
	QuestionMatching       QuestionType = "matching"
	QuestionOrdering       QuestionType = "ordering"
)

type Option struct {
	Text      string `bson:"text" json:"text"`
	IsCorrect bool   `bson:"is_correct" json:"is_correct,omitempty"`
}

// Question is owned by its Quiz and embedded in the quiz document. Which
// answer-key fields are meaningful depends on Type: Options for the choice
// types, CorrectAnswer for true/false and the free-text types, Prompts/Matches
// (parallel arrays) for matching, Items/CorrectOrder for ordering.
type Question struct {
	ID            string       `bson:"id" json:"id"`
	Type          QuestionType `bson:"type" json:"type"`
	Text          string       `bson:"text" json:"text"`
	Options       []Option     `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswer string       `bson:"correct_answer,omitempty" json:"correct_answer,omitempty"`
	Prompts       []string     `bson:"prompts,omitempty" json:"prompts,omitempty"`
	Matches       []string     `bson:"matches,omitempty" json:"matches,omitempty"`
	Items         []string     `bson:"items,omitempty" json:"items,omitempty"`
	CorrectOrder  []string     `bson:"correct_order,omitempty" json:"correct_order,omitempty"`
	Points        int          `bson:"points" json:"points"`
	Explanation   string       `bson:"explanation,omitempty" json:"explanation,omitempty"`
}

// CorrectOptions returns the texts of all options flagged correct.
func (q *Question) CorrectOptions() []string {
	var correct []string
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct = append(correct, opt.Text)
		}
	}
	return correct
}

// Validate checks the per-type invariants of the question.
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", ErrValidation)
	}
	if q.Points <= 0 {
		return fmt.Errorf("%w: question points must be positive", ErrValidation)
	}

	switch q.Type {
	case QuestionMultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: multiple choice requires at least 2 options", ErrValidation)
		}
		if len(q.CorrectOptions()) != 1 {
			return fmt.Errorf("%w: multiple choice requires exactly one correct option", ErrValidation)
		}
	case QuestionSelectAll:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: select all requires at least 2 options", ErrValidation)
		}
		if len(q.CorrectOptions()) == 0 {
			return fmt.Errorf("%w: select all requires at least one correct option", ErrValidation)
		}
	case QuestionTrueFalse:
		if q.CorrectAnswer != "true" && q.CorrectAnswer != "false" {
			return fmt.Errorf("%w: true/false answer must be \"true\" or \"false\"", ErrValidation)
		}
	case QuestionShortAnswer, QuestionFillInBlank:
		if q.CorrectAnswer == "" {
			return fmt.Errorf("%w: correct answer is required", ErrValidation)
		}
	case QuestionEssay:
		// Manually graded, no answer key.
	case QuestionMatching:
		if len(q.Prompts) == 0 || len(q.Prompts) != len(q.Matches) {
			return fmt.Errorf("%w: matching requires parallel prompts and matches", ErrValidation)
		}
	case QuestionOrdering:
		if len(q.CorrectOrder) == 0 {
			return fmt.Errorf("%w: ordering requires a correct order", ErrValidation)
		}
		if len(q.Items) > 0 {
			if len(q.Items) != len(q.CorrectOrder) {
				return fmt.Errorf("%w: ordering items and correct order must have the same length", ErrValidation)
			}
			items := make(map[string]bool, len(q.Items))
			for _, it := range q.Items {
				items[it] = true
			}
			for _, it := range q.CorrectOrder {
				if !items[it] {
					return fmt.Errorf("%w: correct order references unknown item %q", ErrValidation, it)
				}
			}
		}
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrValidation, q.Type)
	}
	return nil
}

// Sanitized returns a copy with every answer-key field removed, for serving
// to students while they take the quiz.
func (q Question) Sanitized() Question {
	q.CorrectAnswer = ""
	q.Matches = nil
	q.CorrectOrder = nil
	q.Explanation = ""
	if len(q.Options) > 0 {
		opts := make([]Option, len(q.Options))
		for i, opt := range q.Options {
			opts[i] = Option{Text: opt.Text}
		}
		q.Options = opts
	}
	return q
}
