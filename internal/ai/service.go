package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"quickai-backend/internal/creations"
	"quickai-backend/internal/credits"
	"quickai-backend/internal/extract"
	"quickai-backend/internal/imagegen"
	"quickai-backend/internal/llm"
	"quickai-backend/internal/mediaedit"
	"quickai-backend/internal/shared/metrics"
	"quickai-backend/internal/shared/storage/object"
	"quickai-backend/internal/shared/telemetry"
)

// Token budgets per text capability. Article length is caller-supplied and
// clamped; the others are fixed.
const (
	articleMinTokens     = 1
	articleMaxTokens     = 2048
	articleDefaultTokens = 800
	blogTitleTokens      = 100
	resumeReviewTokens   = 1200
)

// maxResumeBytes caps uploaded resume size.
const maxResumeBytes = 5 << 20

const resumeReviewInstruction = "Review the following resume and provide constructive feedback on its strengths, weaknesses, and areas for improvement. Resume Content:\n\n"

// Service runs the six AI operations: each one checks the caller's ledger,
// makes exactly one provider call, persists a creation record, then consumes
// one credit.
type Service struct {
	Credits       *credits.Service
	Creations     creations.Repo
	LLM           llm.Client
	Images        imagegen.Generator
	Editor        mediaedit.Editor
	Store         object.ObjectStore
	PublicBaseURL string

	now         func() time.Time
	newID       func() string
	extractText func(ctx context.Context, data []byte, mimeType string) (string, error)
}

// NewService constructs a Service.
func NewService(creditSvc *credits.Service, repo creations.Repo, client llm.Client, images imagegen.Generator, editor mediaedit.Editor, store object.ObjectStore, publicBaseURL string) *Service {
	return &Service{
		Credits:       creditSvc,
		Creations:     repo,
		LLM:           client,
		Images:        images,
		Editor:        editor,
		Store:         store,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
		newID:         uuid.NewString,
		extractText:   extract.PDFText,
	}
}

// Result is the outcome of a successful operation.
type Result struct {
	Content   string
	Remaining int
}

// operation performs the single provider call for one capability and
// describes the creation record to persist.
type operation struct {
	capability credits.Capability
	recordType string
	call       func(ctx context.Context) (prompt, content string, publish bool, err error)
}

// run is the shared pipeline: validate balance, call the provider once,
// persist the creation, then decrement the ledger. The balance check never
// mutates; only the final step spends the credit.
func (s *Service) run(ctx context.Context, ent credits.Entitlement, op operation) (Result, error) {
	started := s.now()
	metrics.IncOperationStarted(string(op.capability))

	res, err := s.runInner(ctx, ent, op)
	metrics.ObserveOperationDurationMs(float64(s.now().Sub(started).Milliseconds()))
	if err != nil {
		metrics.IncOperationFailed(string(op.capability))
		return Result{}, err
	}
	metrics.IncOperationCompleted(string(op.capability))
	return res, nil
}

func (s *Service) runInner(ctx context.Context, ent credits.Entitlement, op operation) (Result, error) {
	if ent.Ledger.Remaining(op.capability) <= 0 {
		return Result{}, &NoCreditsError{Capability: op.capability}
	}

	prompt, content, publish, err := op.call(ctx)
	if err != nil {
		return Result{}, &ProviderError{Err: err}
	}

	record := creations.Creation{
		ID:        s.newID(),
		UserID:    ent.UserID,
		Prompt:    prompt,
		Content:   content,
		Type:      op.recordType,
		Publish:   publish,
		CreatedAt: s.now(),
	}
	if err := s.Creations.Create(ctx, record); err != nil {
		telemetry.Error("ai.creation_insert_failed", map[string]any{
			"user_id":    ent.UserID,
			"capability": string(op.capability),
			"error":      err.Error(),
		})
		return Result{}, ErrPersistence
	}

	remaining, err := s.Credits.Consume(ctx, ent.UserID, op.capability)
	if err != nil {
		if errors.Is(err, credits.ErrInsufficient) {
			// A concurrent request spent the last credit between the check
			// and the decrement.
			return Result{}, &NoCreditsError{Capability: op.capability}
		}
		return Result{}, err
	}

	telemetry.Info("ai.operation_completed", map[string]any{
		"user_id":    ent.UserID,
		"capability": string(op.capability),
		"creation":   record.ID,
		"remaining":  remaining,
	})
	return Result{Content: content, Remaining: remaining}, nil
}

// GenerateArticle produces long-form text. Length is a max-token budget
// clamped to [1, 2048], defaulting to 800 when unset.
func (s *Service) GenerateArticle(ctx context.Context, ent credits.Entitlement, prompt string, length int) (Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Result{}, invalid("prompt is required")
	}
	if length == 0 {
		length = articleDefaultTokens
	}
	if length < articleMinTokens {
		length = articleMinTokens
	}
	if length > articleMaxTokens {
		length = articleMaxTokens
	}

	return s.run(ctx, ent, operation{
		capability: credits.CapArticle,
		recordType: creations.TypeArticle,
		call: func(ctx context.Context) (string, string, bool, error) {
			content, err := s.LLM.Complete(ctx, llm.CompletionInput{
				Prompt:      prompt,
				MaxTokens:   length,
				Temperature: 0.7,
			})
			return prompt, content, false, err
		},
	})
}

// GenerateBlogTitle produces short title text with a fixed token budget.
func (s *Service) GenerateBlogTitle(ctx context.Context, ent credits.Entitlement, prompt string) (Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Result{}, invalid("prompt is required")
	}

	return s.run(ctx, ent, operation{
		capability: credits.CapBlogTitle,
		recordType: creations.TypeBlogTitle,
		call: func(ctx context.Context) (string, string, bool, error) {
			content, err := s.LLM.Complete(ctx, llm.CompletionInput{
				Prompt:      prompt,
				MaxTokens:   blogTitleTokens,
				Temperature: 0.7,
			})
			return prompt, content, false, err
		},
	})
}

// GenerateImage produces an image from a text prompt, persists the bytes to
// the object store, and records its public URL. The publish flag defaults to
// false and only this operation can set it.
func (s *Service) GenerateImage(ctx context.Context, ent credits.Entitlement, prompt string, publish bool) (Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Result{}, invalid("prompt is required")
	}

	return s.run(ctx, ent, operation{
		capability: credits.CapImage,
		recordType: creations.TypeImage,
		call: func(ctx context.Context) (string, string, bool, error) {
			img, err := s.Images.Generate(ctx, prompt)
			if err != nil {
				return "", "", false, err
			}
			key, _, _, err := s.Store.Save(ctx, ent.UserID, "generated.png", bytes.NewReader(img))
			if err != nil {
				return "", "", false, fmt.Errorf("store generated image: %w", err)
			}
			return prompt, s.publicURL(key), publish, nil
		},
	})
}

// RemoveBackground strips the background from an uploaded image. The result
// is a provider-hosted URL.
func (s *Service) RemoveBackground(ctx context.Context, ent credits.Entitlement, image []byte) (Result, error) {
	if len(image) == 0 {
		return Result{}, invalid("image is required")
	}

	s.retainUpload(ctx, ent.UserID, "source.png", image)
	return s.run(ctx, ent, operation{
		capability: credits.CapRemoval,
		recordType: creations.TypeImage,
		call: func(ctx context.Context) (string, string, bool, error) {
			url, err := s.Editor.RemoveBackground(ctx, image)
			return "Removed background from image", url, false, err
		},
	})
}

// RemoveObject erases one named object from an uploaded image. The object
// must be a single word; multi-word descriptions are rejected before any
// provider call.
func (s *Service) RemoveObject(ctx context.Context, ent credits.Entitlement, image []byte, objectName string) (Result, error) {
	if len(image) == 0 {
		return Result{}, invalid("image is required")
	}
	objectName = strings.TrimSpace(objectName)
	if objectName == "" {
		return Result{}, invalid("object is required")
	}
	if len(strings.Fields(objectName)) != 1 {
		return Result{}, invalid("object must be a single word")
	}

	s.retainUpload(ctx, ent.UserID, "source.png", image)
	return s.run(ctx, ent, operation{
		capability: credits.CapRemoval,
		recordType: creations.TypeImage,
		call: func(ctx context.Context) (string, string, bool, error) {
			url, err := s.Editor.RemoveObject(ctx, image, objectName)
			return fmt.Sprintf("Removed %s from image", objectName), url, false, err
		},
	})
}

// ReviewResume extracts text from an uploaded PDF resume and asks the LLM
// for structured feedback. Files over 5MB are rejected before extraction.
func (s *Service) ReviewResume(ctx context.Context, ent credits.Entitlement, resume []byte, mimeType string) (Result, error) {
	if len(resume) == 0 {
		return Result{}, invalid("resume file is required")
	}
	if len(resume) > maxResumeBytes {
		return Result{}, invalid("Resume file size exceeds allowed size (5MB).")
	}

	text, err := s.extractText(ctx, resume, mimeType)
	if err != nil {
		return Result{}, invalid("%s", err.Error())
	}

	s.retainUpload(ctx, ent.UserID, "resume.pdf", resume)
	return s.run(ctx, ent, operation{
		capability: credits.CapResumeReview,
		recordType: creations.TypeResumeReview,
		call: func(ctx context.Context) (string, string, bool, error) {
			content, err := s.LLM.Complete(ctx, llm.CompletionInput{
				Prompt:      resumeReviewInstruction + text,
				MaxTokens:   resumeReviewTokens,
				Temperature: 0.7,
			})
			return "Review the uploaded resume", content, false, err
		},
	})
}

func (s *Service) publicURL(key string) string {
	return s.PublicBaseURL + "/files/" + key
}

// retainUpload keeps a copy of the source file. Best effort: a storage
// hiccup must not block the operation itself.
func (s *Service) retainUpload(ctx context.Context, userID, fileName string, data []byte) {
	if s.Store == nil {
		return
	}
	if _, _, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data)); err != nil {
		telemetry.Warn("ai.upload_retain_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
