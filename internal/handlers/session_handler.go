package handlers

import (
	"context"
	"net/http"

	"quizknow/internal/models"
	"quizknow/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Service *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler {
	return &SessionHandler{Service: s}
}

// StartSession opens a new attempt at a quiz and returns the questions to
// show, answer keys stripped.
func (h *SessionHandler) StartSession(c *gin.Context) {
	result, err := h.Service.Start(context.Background(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session":   result.Session,
		"questions": result.Questions,
		"message":   "Session started successfully",
	})
}

// RecordAnswer upserts one answer on an active session.
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	var req struct {
		QuestionID string             `json:"question_id" binding:"required"`
		Value      models.AnswerValue `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer format", "details": err.Error()})
		return
	}
	err := h.Service.RecordAnswer(context.Background(), c.Param("id"), userID(c), req.QuestionID, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer recorded successfully"})
}

// SubmitSession merges final answers, grades the attempt and returns the
// graded result.
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	var req struct {
		Answers []service.AnswerPayload `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer format", "details": err.Error()})
		return
	}
	session, err := h.Service.Submit(context.Background(), c.Param("id"), userID(c), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Quiz submitted successfully",
		"score":      session.Score,
		"max_score":  session.MaxScore,
		"percentage": session.Percentage,
		"status":     session.Status,
		"answers":    session.Answers,
	})
}

// GetSession returns a session for its student or the owning instructor.
// Correct answers ride along only for the instructor, or after completion
// when the quiz says to show them.
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, quiz, err := h.Service.Get(context.Background(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	showAnswers := quiz.InstructorID == userID(c) ||
		(session.IsCompleted() && quiz.Settings.ShowCorrectAnswers)

	questions := quiz.Questions
	if !showAnswers {
		questions = make([]models.Question, len(quiz.Questions))
		for i, q := range quiz.Questions {
			questions[i] = q.Sanitized()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"session":    session,
		"quiz_title": quiz.Title,
		"questions":  questions,
	})
}

// ListMySessions returns the requester's attempts, newest first.
func (h *SessionHandler) ListMySessions(c *gin.Context) {
	sessions, err := h.Service.ListMine(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

// ReviewSession marks a finished session reviewed by the instructor.
func (h *SessionHandler) ReviewSession(c *gin.Context) {
	if err := h.Service.MarkReviewed(context.Background(), c.Param("id"), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session marked as reviewed"})
}

// ClearSession deletes a session so the student can retake the quiz.
func (h *SessionHandler) ClearSession(c *gin.Context) {
	if err := h.Service.Clear(context.Background(), c.Param("id"), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session cleared successfully"})
}
