package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quizknow/internal/models"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: title is required", models.ErrValidation), http.StatusBadRequest},
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"not owner", models.ErrNotOwner, http.StatusForbidden},
		{"not assigned", models.ErrNotAssigned, http.StatusForbidden},
		{"already submitted", models.ErrAlreadySubmitted, http.StatusConflict},
		{"invalid state", fmt.Errorf("%w: session already finished", models.ErrInvalidState), http.StatusConflict},
		{"session expired", models.ErrSessionExpired, http.StatusConflict},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("dial tcp 10.0.0.3:27017: i/o timeout"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if strings.Contains(w.Body.String(), "27017") {
		t.Fatalf("internal error details leaked to the client: %s", w.Body.String())
	}
}

func TestIdentityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-User-ID", "user-1")
	c.Request.Header.Set("X-User-Role", "instructor")

	if got := userID(c); got != "user-1" {
		t.Fatalf("userID = %q, want %q", got, "user-1")
	}
	if got := userRole(c); got != "instructor" {
		t.Fatalf("userRole = %q, want %q", got, "instructor")
	}
}
