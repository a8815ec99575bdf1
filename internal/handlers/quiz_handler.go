package handlers

import (
	"context"
	"net/http"

	"quizknow/internal/models"
	"quizknow/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

// CreateQuiz creates an unpublished quiz owned by the requesting instructor.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var quiz models.Quiz
	if err := c.ShouldBindJSON(&quiz); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	if err := h.Service.Create(context.Background(), userID(c), &quiz); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz returns the quiz as the requester may see it; answer keys are
// stripped for students.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.Service.GetFor(context.Background(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// ListMyQuizzes returns the instructor's own quizzes.
func (h *QuizHandler) ListMyQuizzes(c *gin.Context) {
	quizzes, err := h.Service.ListMine(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// ListAvailableQuizzes returns the quizzes the requesting student can take.
func (h *QuizHandler) ListAvailableQuizzes(c *gin.Context) {
	quizzes, err := h.Service.ListAvailable(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// ListPublishedQuizzes is the public catalog, questions omitted.
func (h *QuizHandler) ListPublishedQuizzes(c *gin.Context) {
	quizzes, err := h.Service.ListPublished(context.Background())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// UpdateQuiz applies an owner-only patch.
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	var patch service.QuizUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	quiz, err := h.Service.Update(context.Background(), c.Param("id"), userID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz removes the quiz and all of its sessions.
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	if err := h.Service.Delete(context.Background(), c.Param("id"), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}

// AssignStudents adds students to the roster, idempotently.
func (h *QuizHandler) AssignStudents(c *gin.Context) {
	var req struct {
		StudentIDs []string `json:"student_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	quiz, err := h.Service.AssignStudents(context.Background(), c.Param("id"), userID(c), req.StudentIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz assigned successfully", "quiz": quiz})
}

// PublishQuiz publishes the quiz and optionally assigns more students.
func (h *QuizHandler) PublishQuiz(c *gin.Context) {
	var req struct {
		StudentIDs []string `json:"student_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	quiz, err := h.Service.Publish(context.Background(), c.Param("id"), userID(c), req.StudentIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz published successfully", "quiz": quiz})
}

// ListQuizSessions returns finished attempts for the owner's review screen.
func (h *QuizHandler) ListQuizSessions(c *gin.Context) {
	sessions, err := h.Service.ListSessions(context.Background(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}
