package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardify-backend/internal/shared/server/respond"
)

// Handler wires user HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches user routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/user", h.get)
	rg.POST("/user", h.upsert)
}

func (h *Handler) get(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respond.Error(c, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := h.Svc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// First sign-in: the caller creates the row afterwards.
			respond.OK(c, gin.H{"message": "User not found", "newUser": true})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Error querying database")
		return
	}

	respond.OK(c, user)
}

type upsertRequest struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	PlanName       string `json:"planName"`
	CardsRemaining *int   `json:"cardsRemaining"`
}

func (h *Handler) upsert(c *gin.Context) {
	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Missing required data")
		return
	}
	if req.Email == "" || req.Name == "" || req.PlanName == "" || req.CardsRemaining == nil {
		respond.Error(c, http.StatusBadRequest, "Missing required data")
		return
	}

	user, err := h.Svc.Upsert(c.Request.Context(), User{
		Email:          req.Email,
		Name:           req.Name,
		PlanName:       req.PlanName,
		CardsRemaining: *req.CardsRemaining,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Error storing user data")
		return
	}

	respond.OK(c, user)
}
