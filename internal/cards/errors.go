package cards

import "errors"

var (
	ErrInvalidInput  = errors.New("prompt and userId are required")
	ErrUpstreamModel = errors.New("card content generation failed")
	ErrUpstreamImage = errors.New("card image generation failed")
	ErrAssetFetch    = errors.New("card image download failed")
	ErrAssembly      = errors.New("card pdf assembly failed")
	ErrLedger        = errors.New("credit update failed")
	ErrNotFound      = errors.New("pdf not found")
)
