package scanning

import "context"

// Scanner defines the interface for OCR providers
type Scanner interface {
	// RecognizeText returns the raw text printed on a receipt image or PDF.
	// An empty string with a nil error means no text was detected.
	RecognizeText(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}
