package cards

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardify-backend/internal/shared/server/respond"
)

// Handler wires card-generation HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches card routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-card", h.generate)
	rg.GET("/generate-card", h.download)
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Prompt and userId are required")
		return
	}
	c.Set("userId", req.UserID)

	result, err := h.Svc.Generate(c.Request.Context(), GenerateRequest{
		Prompt: req.Prompt,
		UserID: req.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "Prompt and userId are required")
		case errors.Is(err, ErrUpstreamModel):
			respond.Error(c, http.StatusInternalServerError, "Failed to generate card content")
		case errors.Is(err, ErrUpstreamImage):
			respond.Error(c, http.StatusInternalServerError, "Failed to generate card images")
		case errors.Is(err, ErrAssetFetch):
			respond.Error(c, http.StatusInternalServerError, "Failed to download card images")
		case errors.Is(err, ErrAssembly):
			respond.Error(c, http.StatusInternalServerError, "Failed to create PDF")
		case errors.Is(err, ErrLedger):
			respond.Error(c, http.StatusInternalServerError, "Failed to update user credits")
		default:
			respond.Error(c, http.StatusInternalServerError, "Unexpected server error")
		}
		return
	}

	respond.OK(c, generateResponse{
		FrontImageURL:  result.FrontImageURL,
		InsideImageURL: result.InsideImageURL,
		PDFURL:         "/api/v1/generate-card?pdfId=" + result.PDFID,
		PDFData:        base64.StdEncoding.EncodeToString(result.PDFData),
		CardDetails:    result.Brief,
	})
}

func (h *Handler) download(c *gin.Context) {
	pdfID := c.Query("pdfId")
	if pdfID == "" {
		respond.Error(c, http.StatusBadRequest, "Invalid pdfId")
		return
	}

	stored, err := h.Svc.Download(c.Request.Context(), pdfID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "PDF not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to fetch PDF")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "greeting_card_"+stored.ID+".pdf"))
	c.Data(http.StatusOK, "application/pdf", stored.Data)
}
