package handlers

import (
	"context"
	"net/http"

	"quizknow/internal/service"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	Service *service.ConnectionService
}

func NewConnectionHandler(s *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{Service: s}
}

// RequestConnection sends a pending connection request to another user.
func (h *ConnectionHandler) RequestConnection(c *gin.Context) {
	var req struct {
		ReceiverID string `json:"receiver_id" binding:"required"`
		Message    string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	conn, err := h.Service.Request(context.Background(), userID(c), req.ReceiverID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Connection request sent successfully", "connection": conn})
}

func (h *ConnectionHandler) AcceptConnection(c *gin.Context) {
	conn, err := h.Service.Accept(context.Background(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Connection accepted successfully", "connection": conn})
}

func (h *ConnectionHandler) RejectConnection(c *gin.Context) {
	conn, err := h.Service.Reject(context.Background(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Connection rejected successfully", "connection": conn})
}

func (h *ConnectionHandler) ListMyConnections(c *gin.Context) {
	conns, err := h.Service.ListMine(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conns)
}

func (h *ConnectionHandler) ListPendingRequests(c *gin.Context) {
	conns, err := h.Service.PendingRequests(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conns)
}

func (h *ConnectionHandler) RemoveConnection(c *gin.Context) {
	if err := h.Service.Remove(context.Background(), c.Param("id"), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Connection removed successfully"})
}
