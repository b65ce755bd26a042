package mediaedit

import "context"

// Editor abstracts hosted image-editing providers. Both operations accept
// raw image bytes and return a URL to the edited result hosted by the
// provider.
type Editor interface {
	RemoveBackground(ctx context.Context, image []byte) (string, error)
	RemoveObject(ctx context.Context, image []byte, object string) (string, error)
}
