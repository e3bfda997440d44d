package cards

import "cardify-backend/internal/llm"

type generateRequest struct {
	Prompt string `json:"prompt"`
	UserID string `json:"userId"`
}

type generateResponse struct {
	FrontImageURL  string        `json:"front_image_url"`
	InsideImageURL string        `json:"inside_image_url"`
	PDFURL         string        `json:"pdf_url"`
	PDFData        string        `json:"pdf_data"`
	CardDetails    llm.CardBrief `json:"card_details"`
}
