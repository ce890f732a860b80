package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zombor/receipt-lens/internal/interpret"
	"github.com/zombor/receipt-lens/internal/scanning"
)

// DefaultReviewThreshold is the confidence below which scanned receipts are
// flagged for manual review.
const DefaultReviewThreshold = 0.8

const unknownMerchant = "Unknown Merchant"

// ErrNoFile is returned for records that have no stored upload.
var ErrNoFile = errors.New("receipt has no file")

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles receipt operations
type Service struct {
	db              DB
	scanner         scanning.Scanner
	storage         Storage
	extractor       *interpret.Extractor
	synthesizer     *interpret.Synthesizer
	idGenerator     IDGenerator
	timeSource      TimeSource
	reviewThreshold float64
}

// NewService creates a new Service with default engines, ID generator and time source
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return &Service{
		db:              db,
		scanner:         scanner,
		storage:         storage,
		extractor:       interpret.NewExtractor(),
		synthesizer:     interpret.NewSynthesizer(),
		idGenerator:     uuidGenerator{},
		timeSource:      defaultTimeSource{},
		reviewThreshold: DefaultReviewThreshold,
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, extractor *interpret.Extractor, synthesizer *interpret.Synthesizer, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:              db,
		scanner:         scanner,
		storage:         storage,
		extractor:       extractor,
		synthesizer:     synthesizer,
		idGenerator:     idGen,
		timeSource:      timeSrc,
		reviewThreshold: DefaultReviewThreshold,
	}
}

// SetReviewThreshold changes the confidence below which scans need review
func (s *Service) SetReviewThreshold(threshold float64) {
	s.reviewThreshold = threshold
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = repeatedSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	// Truncate to reasonable length (50 chars for base, plus extension)
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}
	if unsafeFilenameChars.MatchString(strings.TrimPrefix(ext, ".")) {
		ext = ""
	}

	return base + ext
}

// ScanReceipt stores an uploaded image, transcribes it and extracts a record
func (s *Service) ScanReceipt(ctx context.Context, filename string, data []byte, contentType string) (*Record, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	text, err := s.scanner.RecognizeText(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to recognize receipt text",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.removeFile(savedPath)
		return nil, fmt.Errorf("recognizing text: %w", err)
	}

	extracted := s.extractor.Extract(text)

	title := unknownMerchant
	if extracted.MerchantName != nil {
		title = *extracted.MerchantName
	}

	record := &Record{
		ID:          id,
		Source:      SourceScanned,
		Title:       title,
		Amount:      extracted.TotalAmount,
		Date:        extracted.PurchaseDate,
		Category:    extracted.Category,
		NeedsReview: extracted.NeedsReview(s.reviewThreshold),
		Extracted:   &extracted,
		Filename:    savedPath,
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveRecord(record); err != nil {
		s.removeFile(savedPath)
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	slog.Info("Scanned receipt",
		"id", id,
		"merchant", title,
		"confidence", extracted.Confidence,
		"needs_review", record.NeedsReview,
	)

	return record, nil
}

// GenerateReceipt builds an itemized receipt for a known total and stores it
func (s *Service) GenerateReceipt(req GenerateRequest) (*Record, error) {
	category, err := interpret.ParseCategory(req.Category)
	if err != nil {
		return nil, &interpret.ValidationError{
			Field:  "category",
			Value:  req.Category,
			Reason: "unknown category",
			Err:    err,
		}
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, &interpret.ValidationError{
				Field:  "date",
				Value:  req.Date,
				Reason: "must be formatted as YYYY-MM-DD",
				Err:    err,
			}
		}
	}

	synthesized, err := s.synthesizer.Synthesize(interpret.SynthesisRequest{
		Amount:   req.Amount,
		Category: category,
		Label:    req.Label,
		Date:     date,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesizing receipt: %w", err)
	}

	if date.IsZero() {
		date = synthesized.GeneratedAt
	}
	title := strings.TrimSpace(req.Label)
	if title == "" {
		title = category.DisplayName()
	}
	amount := req.Amount

	record := &Record{
		ID:          s.idGenerator.Generate(),
		Source:      SourceGenerated,
		Title:       title,
		Amount:      &amount,
		Date:        date,
		Category:    category,
		Synthesized: &synthesized,
		CreatedAt:   synthesized.GeneratedAt,
		UpdatedAt:   synthesized.GeneratedAt,
	}

	if err := s.db.SaveRecord(record); err != nil {
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}
	return record, nil
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*Record, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return record, nil
}

// ListReceipts returns all receipts, newest first
func (s *Service) ListReceipts() ([]*Record, error) {
	records, err := s.db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	slices.SortStableFunc(records, func(a, b *Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return records, nil
}

// DeleteReceipt removes a receipt and its file
func (s *Service) DeleteReceipt(id string) error {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	if record.Filename != "" {
		s.removeFile(record.Filename)
	}

	if err := s.db.DeleteRecord(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the uploaded image for a scanned receipt
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}
	if record.Filename == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrNoFile, id)
	}

	data, err := s.storage.Get(record.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, record.ContentType, nil
}

// GetReceiptHTML returns printable markup for a receipt. Generated receipts
// return the markup rendered at synthesis time.
func (s *Service) GetReceiptHTML(id string) (string, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return "", fmt.Errorf("getting receipt: %w", err)
	}

	switch {
	case record.Synthesized != nil:
		return record.Synthesized.RenderedMarkup, nil
	case record.Extracted != nil:
		markup, err := interpret.RenderHTML(interpret.ViewFromExtracted(*record.Extracted, receiptNumber(record.ID)))
		if err != nil {
			return "", fmt.Errorf("rendering receipt: %w", err)
		}
		return markup, nil
	}
	return "", fmt.Errorf("receipt %s has nothing to render", id)
}

// receiptNumber derives the printed receipt number from a record ID
func receiptNumber(id string) string {
	number := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(number) > 8 {
		number = number[:8]
	}
	return number
}

func (s *Service) removeFile(name string) {
	if err := s.storage.Delete(name); err != nil {
		slog.Warn("Failed to delete file", "filename", name, "error", err)
	}
}
