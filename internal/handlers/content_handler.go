package handlers

import (
	"context"
	"net/http"

	"quizknow/internal/models"
	"quizknow/internal/service"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	Service *service.ContentService
}

func NewContentHandler(s *service.ContentService) *ContentHandler {
	return &ContentHandler{Service: s}
}

// CreateContent stores new shared material owned by the instructor.
func (h *ContentHandler) CreateContent(c *gin.Context) {
	var content models.Content
	if err := c.ShouldBindJSON(&content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	if err := h.Service.Create(context.Background(), userID(c), &content); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, content)
}

func (h *ContentHandler) GetContent(c *gin.Context) {
	content, err := h.Service.GetFor(context.Background(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (h *ContentHandler) ListMyContent(c *gin.Context) {
	items, err := h.Service.ListMine(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) ListAssignedContent(c *gin.Context) {
	items, err := h.Service.ListAssigned(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) UpdateContent(c *gin.Context) {
	var patch service.ContentUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	content, err := h.Service.Update(context.Background(), c.Param("id"), userID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (h *ContentHandler) DeleteContent(c *gin.Context) {
	if err := h.Service.Delete(context.Background(), c.Param("id"), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}

// AssignStudents grants students access to the content, idempotently.
func (h *ContentHandler) AssignStudents(c *gin.Context) {
	var req struct {
		StudentIDs []string `json:"student_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	content, err := h.Service.AssignStudents(context.Background(), c.Param("id"), userID(c), req.StudentIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content assigned successfully", "content": content})
}

// RecordView marks that the requesting student opened the content.
func (h *ContentHandler) RecordView(c *gin.Context) {
	view, err := h.Service.RecordView(context.Background(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CompleteView marks the student's view finished.
func (h *ContentHandler) CompleteView(c *gin.Context) {
	var req struct {
		TimeSpentMinutes int `json:"time_spent_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	view, err := h.Service.CompleteView(context.Background(), c.Param("id"), userID(c), req.TimeSpentMinutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitFeedback attaches a rating and comments to the student's view.
func (h *ContentHandler) SubmitFeedback(c *gin.Context) {
	var req struct {
		Rating   int    `json:"rating" binding:"required"`
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	view, err := h.Service.SubmitFeedback(context.Background(), c.Param("id"), userID(c), req.Rating, req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
