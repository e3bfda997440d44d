package cards

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cardify-backend/internal/imagegen"
)

func setupCardsRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postGenerate(t *testing.T, router *gin.Engine, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-card", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestGenerateCardEndpoint(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	router := setupCardsRouter(svc)

	resp := postGenerate(t, router, map[string]string{
		"prompt": "birthday card for my friend Maya",
		"userId": "user-1",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		FrontImageURL  string `json:"front_image_url"`
		InsideImageURL string `json:"inside_image_url"`
		PDFURL         string `json:"pdf_url"`
		PDFData        string `json:"pdf_data"`
		CardDetails    struct {
			Category string `json:"category"`
		} `json:"card_details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if payload.FrontImageURL == "" || payload.InsideImageURL == "" {
		t.Fatalf("expected both image urls, got %+v", payload)
	}
	if !strings.HasPrefix(payload.PDFURL, "/api/v1/generate-card?pdfId=") {
		t.Fatalf("unexpected pdf_url %q", payload.PDFURL)
	}
	if payload.CardDetails.Category != "birthday" {
		t.Fatalf("unexpected category %q", payload.CardDetails.Category)
	}

	raw, err := base64.StdEncoding.DecodeString(payload.PDFData)
	if err != nil {
		t.Fatalf("pdf_data is not valid base64: %v", err)
	}
	if string(raw) != "%PDF-1.4 card" {
		t.Fatalf("unexpected decoded pdf bytes %q", raw)
	}

	// The inline document must be retrievable at pdf_url too.
	req := httptest.NewRequest(http.MethodGet, payload.PDFURL, nil)
	download := httptest.NewRecorder()
	router.ServeHTTP(download, req)

	if download.Code != http.StatusOK {
		t.Fatalf("expected status 200 on download, got %d", download.Code)
	}
	if got := download.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := download.Header().Get("Content-Disposition"); !strings.Contains(got, "greeting_card_") {
		t.Fatalf("unexpected content disposition %q", got)
	}
	if download.Body.String() != "%PDF-1.4 card" {
		t.Fatalf("downloaded bytes differ from generated document")
	}
}

func TestGenerateCardEmptyPrompt(t *testing.T) {
	svc, interpreter, _, _, _, _ := newTestService()
	router := setupCardsRouter(svc)

	resp := postGenerate(t, router, map[string]string{"prompt": "", "userId": "user-1"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "Prompt and userId are required" {
		t.Fatalf("unexpected error body %v", body)
	}
	if interpreter.calls != 0 {
		t.Fatalf("expected no interpreter call for blank prompt")
	}
}

func TestGenerateCardMalformedBody(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	router := setupCardsRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-card", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestGenerateCardRenderFailure(t *testing.T) {
	svc, _, renderer, _, _, _ := newTestService()
	renderer.errs[imagegen.FaceFront] = fmt.Errorf("provider down")
	router := setupCardsRouter(svc)

	resp := postGenerate(t, router, map[string]string{"prompt": "a card", "userId": "user-1"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "Failed to generate card images" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestDownloadUnknownPDF(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	router := setupCardsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/generate-card?pdfId=does-not-exist", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if got := strings.TrimSpace(resp.Body.String()); got != `{"error":"PDF not found"}` {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestDownloadMissingPDFID(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	router := setupCardsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/generate-card", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "Invalid pdfId" {
		t.Fatalf("unexpected error body %v", body)
	}
}
