package grading

import (
	"testing"
	"time"

	"quizknow/internal/models"
)

func TestGradePerType(t *testing.T) {
	mc := &models.Question{
		ID:   "q1",
		Type: models.QuestionMultipleChoice,
		Options: []models.Option{
			{Text: "3"},
			{Text: "4", IsCorrect: true},
			{Text: "5"},
		},
		Points: 10,
	}
	tf := &models.Question{ID: "q2", Type: models.QuestionTrueFalse, CorrectAnswer: "true", Points: 5}
	sa := &models.Question{ID: "q3", Type: models.QuestionShortAnswer, CorrectAnswer: "Photosynthesis", Points: 3}
	fb := &models.Question{ID: "q4", Type: models.QuestionFillInBlank, CorrectAnswer: "mitochondria", Points: 2}
	essay := &models.Question{ID: "q5", Type: models.QuestionEssay, Points: 20}
	matching := &models.Question{
		ID:      "q6",
		Type:    models.QuestionMatching,
		Prompts: []string{"H2O", "NaCl"},
		Matches: []string{"water", "salt"},
		Points:  4,
	}
	ordering := &models.Question{
		ID:           "q7",
		Type:         models.QuestionOrdering,
		Items:        []string{"b", "c", "a"},
		CorrectOrder: []string{"a", "b", "c"},
		Points:       6,
	}

	tests := []struct {
		name        string
		question    *models.Question
		value       models.AnswerValue
		wantCorrect bool
		wantPoints  int
	}{
		{"multiple choice correct", mc, models.AnswerValue{Text: "4"}, true, 10},
		{"multiple choice wrong", mc, models.AnswerValue{Text: "5"}, false, 0},
		{"multiple choice empty", mc, models.AnswerValue{}, false, 0},
		{"true/false correct", tf, models.AnswerValue{Text: "true"}, true, 5},
		{"true/false wrong", tf, models.AnswerValue{Text: "false"}, false, 0},
		{"short answer case insensitive", sa, models.AnswerValue{Text: "  photosynthesis "}, true, 3},
		{"short answer wrong", sa, models.AnswerValue{Text: "respiration"}, false, 0},
		{"fill in blank exact", fb, models.AnswerValue{Text: "mitochondria"}, true, 2},
		{"fill in blank case sensitive", fb, models.AnswerValue{Text: "Mitochondria"}, false, 0},
		{"matching exact", matching, models.AnswerValue{Pairs: map[string]string{"H2O": "water", "NaCl": "salt"}}, true, 4},
		{"matching one swapped", matching, models.AnswerValue{Pairs: map[string]string{"H2O": "salt", "NaCl": "water"}}, false, 0},
		{"matching incomplete", matching, models.AnswerValue{Pairs: map[string]string{"H2O": "water"}}, false, 0},
		{"ordering exact", ordering, models.AnswerValue{Ordering: []string{"a", "b", "c"}}, true, 6},
		{"ordering wrong position", ordering, models.AnswerValue{Ordering: []string{"b", "a", "c"}}, false, 0},
	}

	engine := NewEngine()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isCorrect, points := engine.Grade(tc.question, tc.value)
			if isCorrect == nil {
				t.Fatal("expected a graded answer, got nil isCorrect")
			}
			if *isCorrect != tc.wantCorrect {
				t.Errorf("expected isCorrect=%v, got %v", tc.wantCorrect, *isCorrect)
			}
			if points != tc.wantPoints {
				t.Errorf("expected %d points, got %d", tc.wantPoints, points)
			}
		})
	}

	t.Run("essay has no automated grade", func(t *testing.T) {
		isCorrect, points := engine.Grade(essay, models.AnswerValue{Text: "a long essay"})
		if isCorrect != nil {
			t.Errorf("expected nil isCorrect for essay, got %v", *isCorrect)
		}
		if points != 0 {
			t.Errorf("expected 0 auto points for essay, got %d", points)
		}
	})
}

func TestGradeSelectAllIsAllOrNothing(t *testing.T) {
	q := &models.Question{
		ID:   "q1",
		Type: models.QuestionSelectAll,
		Options: []models.Option{
			{Text: "A", IsCorrect: true},
			{Text: "B", IsCorrect: true},
			{Text: "C"},
		},
		Points: 10,
	}

	tests := []struct {
		name       string
		selections []string
		wantPoints int
	}{
		{"exact set", []string{"A", "B"}, 10},
		{"order irrelevant", []string{"B", "A"}, 10},
		{"strict subset", []string{"A"}, 0},
		{"strict superset", []string{"A", "B", "C"}, 0},
		{"empty", nil, 0},
	}

	engine := NewEngine()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, points := engine.Grade(q, models.AnswerValue{Selections: tc.selections})
			if points != tc.wantPoints {
				t.Errorf("expected %d points, got %d", tc.wantPoints, points)
			}
			// Regrading the same answer must be deterministic.
			_, again := engine.Grade(q, models.AnswerValue{Selections: tc.selections})
			if again != points {
				t.Errorf("regrade changed points from %d to %d", points, again)
			}
		})
	}
}

func TestGradeSession(t *testing.T) {
	quiz := &models.Quiz{
		Title: "Arithmetic",
		Questions: []models.Question{
			{
				ID:   "q1",
				Type: models.QuestionMultipleChoice,
				Options: []models.Option{
					{Text: "3"},
					{Text: "4", IsCorrect: true},
				},
				Points: 10,
			},
			{ID: "q2", Type: models.QuestionTrueFalse, CorrectAnswer: "true", Points: 5},
		},
	}

	engine := NewEngine()
	now := time.Now()

	t.Run("partially correct submission", func(t *testing.T) {
		answers := []models.SessionAnswer{
			{QuestionID: "q1", Value: models.AnswerValue{Text: "4"}},
			{QuestionID: "q2", Value: models.AnswerValue{Text: "false"}},
		}
		res := engine.GradeSession(quiz, answers, now)
		if res.Score != 10 {
			t.Errorf("expected score 10, got %d", res.Score)
		}
		if res.MaxScore != 15 {
			t.Errorf("expected max score 15, got %d", res.MaxScore)
		}
		if res.Percentage != 67 {
			t.Errorf("expected percentage 67, got %d", res.Percentage)
		}
		if len(res.Answers) != 2 {
			t.Fatalf("expected 2 graded answers, got %d", len(res.Answers))
		}
		if res.Answers[0].PointsEarned != 10 || res.Answers[1].PointsEarned != 0 {
			t.Errorf("unexpected per-question points: %+v", res.Answers)
		}
	})

	t.Run("empty submission scores zero", func(t *testing.T) {
		res := engine.GradeSession(quiz, nil, now)
		if res.Score != 0 || res.Percentage != 0 {
			t.Errorf("expected 0 score and 0 percentage, got %d and %d", res.Score, res.Percentage)
		}
		if len(res.Answers) != 2 {
			t.Fatalf("expected placeholder answers for every question, got %d", len(res.Answers))
		}
		for _, ans := range res.Answers {
			if ans.IsCorrect == nil || *ans.IsCorrect {
				t.Errorf("unanswered question %s should be marked incorrect", ans.QuestionID)
			}
		}
	})

	t.Run("stray question ids never earn points", func(t *testing.T) {
		answers := []models.SessionAnswer{
			{QuestionID: "ghost", Value: models.AnswerValue{Text: "4"}},
		}
		res := engine.GradeSession(quiz, answers, now)
		if res.Score != 0 {
			t.Errorf("expected 0 score for stray answer, got %d", res.Score)
		}
		for _, ans := range res.Answers {
			if ans.QuestionID == "ghost" {
				t.Error("stray answer leaked into graded results")
			}
		}
	})

	t.Run("score never exceeds max score", func(t *testing.T) {
		answers := []models.SessionAnswer{
			{QuestionID: "q1", Value: models.AnswerValue{Text: "4"}},
			{QuestionID: "q1", Value: models.AnswerValue{Text: "4"}},
			{QuestionID: "q2", Value: models.AnswerValue{Text: "true"}},
		}
		res := engine.GradeSession(quiz, answers, now)
		if res.Score > res.MaxScore {
			t.Errorf("score %d exceeds max score %d", res.Score, res.MaxScore)
		}
		if res.Percentage != 100 {
			t.Errorf("expected 100 percent, got %d", res.Percentage)
		}
	})
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, max, want int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{10, 15, 67},
		{5, 15, 33},
		{15, 15, 100},
		{1, 3, 33},
		{2, 3, 67},
	}
	for _, tc := range tests {
		if got := Percentage(tc.score, tc.max); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tc.score, tc.max, got, tc.want)
		}
	}
}
