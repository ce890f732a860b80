package scanning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const geminiProvider = "gemini"

// Gemini implements the Scanner interface using Google Gemini
type Gemini struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGemini creates a new Gemini Scanner instance
func NewGemini(apiKey string, modelName string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &Gemini{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// RecognizeText asks the model for a verbatim transcript of the receipt
func (g *Gemini) RecognizeText(ctx context.Context, imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	img, err := prepareImage(imageData, contentType)
	if err != nil {
		return "", err
	}

	// genai.ImageData expects just the format suffix (e.g., "png"), not the full MIME type
	parts := []genai.Part{
		genai.ImageData(img.Format(), img.Data),
		genai.Text(transcriptionPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", geminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var transcript strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			transcript.WriteString(string(text))
		}
	}

	return cleanTranscript(transcript.String()), nil
}

// geminiError maps gRPC status codes to a ProviderError
func geminiError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return unavailable(geminiProvider, err)
	}

	st, ok := status.FromError(err)
	if !ok {
		return unavailable(geminiProvider, err)
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Internal, codes.ResourceExhausted, codes.Unknown:
		return &ProviderError{
			Provider:    geminiProvider,
			Code:        int(st.Code()),
			Message:     st.Message(),
			Unavailable: true,
			Err:         err,
		}
	}
	return &ProviderError{
		Provider: geminiProvider,
		Code:     int(st.Code()),
		Message:  st.Message(),
		Err:      err,
	}
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
