package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// preparedImage is an upload normalized to a format every provider accepts.
type preparedImage struct {
	Data      []byte
	MIMEType  string
	Converted bool
}

// Format returns the subtype of the MIME type ("png" for "image/png").
func (p preparedImage) Format() string {
	_, format, _ := strings.Cut(p.MIMEType, "/")
	return format
}

// pdfToImage renders the first page of a PDF as PNG; receipts are single page
func pdfToImage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return encodePNG(img)
}

// imageToPNG decodes JPEG, GIF, PNG or HEIC data and re-encodes it as PNG
func imageToPNG(imageData []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return encodePNG(img)
	}

	img, _, err = image.Decode(bytes.NewReader(imageData))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") {
			return nil, fmt.Errorf("unsupported image format (supported: JPEG, PNG, GIF, HEIC, HEIF, PDF): %w", err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEICFormat checks for an ftyp box with a HEIC-family brand at offset 4
func isHEICFormat(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// prepareImage normalizes the MIME type and converts anything that is not
// already PNG. PDFs are rasterized from their first page.
func prepareImage(imageData []byte, contentType string) (preparedImage, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	switch {
	case mimeType == "application/pdf":
		data, err := pdfToImage(imageData)
		if err != nil {
			return preparedImage{}, fmt.Errorf("converting PDF to image: %w: %w", ErrUnsupportedImage, err)
		}
		return preparedImage{Data: data, MIMEType: "image/png", Converted: true}, nil
	case mimeType != "image/png" || isHEICFormat(imageData):
		data, err := imageToPNG(imageData, mimeType)
		if err != nil {
			return preparedImage{}, fmt.Errorf("converting image to PNG: %w: %w", ErrUnsupportedImage, err)
		}
		return preparedImage{Data: data, MIMEType: "image/png", Converted: true}, nil
	}
	return preparedImage{Data: imageData, MIMEType: "image/png"}, nil
}
