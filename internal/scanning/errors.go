package scanning

import (
	"errors"
	"fmt"
)

// ErrProviderUnavailable is matched by provider errors caused by transport
// failures, timeouts or server-side outages.
var ErrProviderUnavailable = errors.New("ocr provider unavailable")

// ErrUnsupportedImage is matched by uploads that cannot be decoded or
// converted before they are sent to a provider.
var ErrUnsupportedImage = errors.New("unsupported image")

// ProviderError reports a failed OCR call. It is never returned for an image
// that simply contains no text.
type ProviderError struct {
	Provider    string
	Code        int
	Message     string
	Unavailable bool
	Err         error
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: ocr failed (code %d): %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: ocr failed: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderUnavailable && e.Unavailable
}

// unavailable wraps a transport-level failure.
func unavailable(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider:    provider,
		Message:     err.Error(),
		Unavailable: true,
		Err:         err,
	}
}
