package models

import (
	"errors"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	valid := func(mutate func(*Question)) Question {
		q := Question{
			ID:   "q1",
			Type: QuestionMultipleChoice,
			Text: "What is 2+2?",
			Options: []Option{
				{Text: "3"},
				{Text: "4", IsCorrect: true},
			},
			Points: 1,
		}
		if mutate != nil {
			mutate(&q)
		}
		return q
	}

	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"valid multiple choice", valid(nil), false},
		{"missing text", valid(func(q *Question) { q.Text = "" }), true},
		{"zero points", valid(func(q *Question) { q.Points = 0 }), true},
		{"negative points", valid(func(q *Question) { q.Points = -1 }), true},
		{"single option", valid(func(q *Question) { q.Options = q.Options[:1] }), true},
		{"no correct option", valid(func(q *Question) { q.Options[1].IsCorrect = false }), true},
		{"two correct options", valid(func(q *Question) { q.Options[0].IsCorrect = true }), true},
		{"unknown type", valid(func(q *Question) { q.Type = "guess" }), true},
		{
			"valid true/false",
			Question{ID: "q", Type: QuestionTrueFalse, Text: "Sky is blue?", CorrectAnswer: "true", Points: 1},
			false,
		},
		{
			"true/false with bad answer",
			Question{ID: "q", Type: QuestionTrueFalse, Text: "Sky is blue?", CorrectAnswer: "yes", Points: 1},
			true,
		},
		{
			"short answer without key",
			Question{ID: "q", Type: QuestionShortAnswer, Text: "Name the process", Points: 1},
			true,
		},
		{
			"valid essay without key",
			Question{ID: "q", Type: QuestionEssay, Text: "Discuss", Points: 10},
			false,
		},
		{
			"select all with no correct options",
			Question{
				ID:      "q",
				Type:    QuestionSelectAll,
				Text:    "Pick primes",
				Options: []Option{{Text: "4"}, {Text: "6"}},
				Points:  2,
			},
			true,
		},
		{
			"matching with uneven arrays",
			Question{
				ID:      "q",
				Type:    QuestionMatching,
				Text:    "Match",
				Prompts: []string{"a", "b"},
				Matches: []string{"1"},
				Points:  2,
			},
			true,
		},
		{
			"ordering referencing unknown item",
			Question{
				ID:           "q",
				Type:         QuestionOrdering,
				Text:         "Order",
				Items:        []string{"a", "b"},
				CorrectOrder: []string{"a", "z"},
				Points:       2,
			},
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestQuestionSanitized(t *testing.T) {
	q := Question{
		ID:   "q1",
		Type: QuestionSelectAll,
		Text: "Pick the correct ones",
		Options: []Option{
			{Text: "A", IsCorrect: true},
			{Text: "B"},
		},
		CorrectAnswer: "secret",
		Matches:       []string{"m"},
		CorrectOrder:  []string{"o"},
		Explanation:   "because",
		Points:        3,
	}

	s := q.Sanitized()

	if s.CorrectAnswer != "" || s.Matches != nil || s.CorrectOrder != nil || s.Explanation != "" {
		t.Errorf("answer keys leaked into sanitized question: %+v", s)
	}
	for _, opt := range s.Options {
		if opt.IsCorrect {
			t.Error("is_correct flag leaked into sanitized option")
		}
	}
	if s.Points != 3 || s.Text != q.Text || len(s.Options) != 2 {
		t.Errorf("sanitization dropped non-answer fields: %+v", s)
	}
	// The original must be untouched.
	if q.CorrectAnswer != "secret" || !q.Options[0].IsCorrect {
		t.Error("Sanitized mutated the original question")
	}
}
