package scanning

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

const visionProvider = "google-vision"

// VisionConfig configures the Google Cloud Vision scanner.
type VisionConfig struct {
	APIKey string
	// Endpoint overrides the API base URL, e.g. for a local fake.
	Endpoint string
	Timeout  time.Duration
}

// Vision implements the Scanner interface using Google Cloud Vision text
// detection.
type Vision struct {
	service *vision.Service
	timeout time.Duration
}

// NewVision creates a new Vision Scanner instance
func NewVision(cfg VisionConfig) (*Vision, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("vision api key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := vision.NewService(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}

	return &Vision{
		service: service,
		timeout: cfg.Timeout,
	}, nil
}

// RecognizeText runs TEXT_DETECTION and DOCUMENT_TEXT_DETECTION on the image
func (v *Vision) RecognizeText(ctx context.Context, imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	img, err := prepareImage(imageData, contentType)
	if err != nil {
		return "", err
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image: &vision.Image{Content: base64.StdEncoding.EncodeToString(img.Data)},
				Features: []*vision.Feature{
					{Type: "TEXT_DETECTION"},
					{Type: "DOCUMENT_TEXT_DETECTION"},
				},
			},
		},
	}

	resp, err := v.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", visionError(err)
	}

	if len(resp.Responses) == 0 {
		slog.Warn("Vision returned no responses")
		return "", nil
	}
	result := resp.Responses[0]

	if len(result.TextAnnotations) > 0 && result.TextAnnotations[0].Description != "" {
		return result.TextAnnotations[0].Description, nil
	}
	if result.Error != nil && result.Error.Message != "" {
		return "", &ProviderError{
			Provider: visionProvider,
			Code:     int(result.Error.Code),
			Message:  result.Error.Message,
		}
	}
	if result.FullTextAnnotation != nil && result.FullTextAnnotation.Text != "" {
		return result.FullTextAnnotation.Text, nil
	}

	slog.Warn("Vision found no text in image", "converted", img.Converted)
	return "", nil
}

// visionError maps API and transport failures to a ProviderError
func visionError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:    visionProvider,
			Code:        apiErr.Code,
			Message:     apiErr.Message,
			Unavailable: apiErr.Code >= 500,
			Err:         err,
		}
	}
	return unavailable(visionProvider, err)
}

// Close is a no-op; the REST client holds no resources
func (v *Vision) Close() error {
	return nil
}
