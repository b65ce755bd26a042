package imagegen

import "context"

// Generator abstracts text-to-image providers.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}
