package models

import (
	"errors"
	"testing"
	"time"
)

func sampleQuiz() Quiz {
	return Quiz{
		Title:        "Basics",
		InstructorID: "instr-1",
		Questions: []Question{
			{
				ID:   "q1",
				Type: QuestionMultipleChoice,
				Text: "2+2?",
				Options: []Option{
					{Text: "3"},
					{Text: "4", IsCorrect: true},
				},
				Points: 10,
			},
			{ID: "q2", Type: QuestionTrueFalse, Text: "True?", CorrectAnswer: "true", Points: 5},
		},
		Settings: QuizSettings{TimeLimitMinutes: 30, PassingScore: 60},
	}
}

func TestQuizValidate(t *testing.T) {
	t.Run("valid quiz", func(t *testing.T) {
		q := sampleQuiz()
		if err := q.Validate(); err != nil {
			t.Fatalf("expected valid quiz, got %v", err)
		}
	})

	t.Run("empty questions", func(t *testing.T) {
		q := sampleQuiz()
		q.Questions = nil
		if err := q.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		q := sampleQuiz()
		q.Title = ""
		if err := q.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("passing score out of range", func(t *testing.T) {
		q := sampleQuiz()
		q.Settings.PassingScore = 150
		if err := q.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("bad question surfaces", func(t *testing.T) {
		q := sampleQuiz()
		q.Questions[1].Points = 0
		if err := q.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestQuizTotalPoints(t *testing.T) {
	q := sampleQuiz()
	if got := q.TotalPoints(); got != 15 {
		t.Errorf("expected 15 total points, got %d", got)
	}
}

func TestQuizStudentView(t *testing.T) {
	q := sampleQuiz()
	q.Students = []StudentAssignment{{StudentID: "stu-1", AssignedAt: time.Now()}}

	view := q.StudentView()

	if view.Students != nil {
		t.Error("roster leaked into student view")
	}
	for _, question := range view.Questions {
		if question.CorrectAnswer != "" {
			t.Errorf("correct answer leaked for question %s", question.ID)
		}
		for _, opt := range question.Options {
			if opt.IsCorrect {
				t.Errorf("is_correct flag leaked for question %s", question.ID)
			}
		}
	}
	if len(q.Students) != 1 || q.Questions[1].CorrectAnswer != "true" {
		t.Error("StudentView mutated the original quiz")
	}
}

func TestSessionDeadline(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := QuizSession{StartedAt: start, TimeLimitMinutes: 30}

	if s.PastDeadline(start.Add(29 * time.Minute)) {
		t.Error("session should not be past deadline before the limit")
	}
	// Inside the grace window.
	if s.PastDeadline(start.Add(30*time.Minute + 10*time.Second)) {
		t.Error("session should still be on time inside the grace window")
	}
	if !s.PastDeadline(start.Add(31 * time.Minute)) {
		t.Error("session should be past deadline after limit plus grace")
	}

	unlimited := QuizSession{StartedAt: start}
	if unlimited.PastDeadline(start.Add(100 * time.Hour)) {
		t.Error("sessions without a time limit never expire")
	}
}

func TestSessionUpsertAnswer(t *testing.T) {
	now := time.Now()
	s := QuizSession{}

	s.UpsertAnswer("q1", AnswerValue{Text: "first"}, now)
	if len(s.Answers) != 1 || s.Answers[0].Value.Text != "first" {
		t.Fatalf("unexpected answers after insert: %+v", s.Answers)
	}

	later := now.Add(time.Minute)
	s.UpsertAnswer("q1", AnswerValue{Text: "second"}, later)
	if len(s.Answers) != 1 {
		t.Fatalf("upsert duplicated the answer: %+v", s.Answers)
	}
	if s.Answers[0].Value.Text != "second" || !s.Answers[0].AnsweredAt.Equal(later) {
		t.Errorf("upsert did not overwrite: %+v", s.Answers[0])
	}

	s.UpsertAnswer("q2", AnswerValue{Selections: []string{"A"}}, later)
	if len(s.Answers) != 2 {
		t.Fatalf("expected second answer to append: %+v", s.Answers)
	}
}
