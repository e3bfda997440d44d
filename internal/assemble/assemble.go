package assemble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pdf/fpdf"
)

var (
	// ErrFetch reports that a rendered face could not be downloaded or is
	// not a usable image.
	ErrFetch = errors.New("asset fetch failed")
	// ErrBuild reports a PDF construction failure.
	ErrBuild = errors.New("pdf build failed")
)

// Assembler downloads rendered faces and composes the two-page card PDF.
// It is stateless; the same inputs produce the same document.
type Assembler struct {
	httpClient *http.Client
}

// New constructs an Assembler with a bounded download timeout.
func New() *Assembler {
	return &Assembler{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Assemble fetches both face images and returns the serialized PDF: page 1
// is the front face, page 2 the inside face, each stretched to exactly fill
// its page.
func (a *Assembler) Assemble(ctx context.Context, frontURL, insideURL string) ([]byte, error) {
	front, err := a.fetchImage(ctx, frontURL)
	if err != nil {
		return nil, err
	}
	inside, err := a.fetchImage(ctx, insideURL)
	if err != nil {
		return nil, err
	}
	return buildPDF(front, inside)
}

type faceImage struct {
	data      []byte
	imageType string // fpdf image type: JPG or PNG
}

func (a *Assembler) fetchImage(ctx context.Context, url string) (faceImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return faceImage{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return faceImage{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return faceImage{}, fmt.Errorf("%w: http status %d from %s", ErrFetch, resp.StatusCode, url)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return faceImage{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	imageType, err := sniffImageType(data)
	if err != nil {
		return faceImage{}, err
	}
	return faceImage{data: data, imageType: imageType}, nil
}

func sniffImageType(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "JPG", nil
	case "image/png":
		return "PNG", nil
	default:
		return "", fmt.Errorf("%w: payload is not a jpeg or png image", ErrFetch)
	}
}

func buildPDF(front, inside faceImage) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	// Pin metadata dates and object ordering so identical inputs serialize
	// identically; without SetCatalogSort the image XObjects are emitted in
	// map order.
	epoch := time.Unix(0, 0).UTC()
	doc.SetCreationDate(epoch)
	doc.SetModificationDate(epoch)
	doc.SetCatalogSort(true)

	addFacePage(doc, "front", front)
	addFacePage(doc, "inside", inside)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuild, err)
	}
	return buf.Bytes(), nil
}

func addFacePage(doc *fpdf.Fpdf, name string, face faceImage) {
	doc.AddPage()
	w, h := doc.GetPageSize()
	opts := fpdf.ImageOptions{ImageType: face.imageType}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(face.data))
	// Stretch to fill the page; aspect ratio intentionally not preserved.
	doc.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
}
