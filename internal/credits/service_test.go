package credits

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestEnsureInitializesFreeDefaults(t *testing.T) {
	svc := NewService()

	ledger, err := svc.Ensure(context.Background(), "guest:a", TierFree)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	want := Ledger{CapResumeReview: 2, CapArticle: 5, CapBlogTitle: 5, CapImage: 2, CapRemoval: 3}
	if !ledger.Equal(want) {
		t.Fatalf("free defaults mismatch: got %v", ledger)
	}
}

func TestEnsureInitializesPremiumDefaults(t *testing.T) {
	svc := NewService()

	ledger, err := svc.Ensure(context.Background(), "google:p", TierPremium)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	want := Ledger{CapResumeReview: 20, CapArticle: 50, CapBlogTitle: 50, CapImage: 20, CapRemoval: 30}
	if !ledger.Equal(want) {
		t.Fatalf("premium defaults mismatch: got %v", ledger)
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Ensure(ctx, "guest:a", TierFree); err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	if _, err := svc.Consume(ctx, "guest:a", CapArticle); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	// A later request, even claiming a different tier, reuses the stored ledger.
	ledger, err := svc.Ensure(ctx, "guest:a", TierPremium)
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if got := ledger.Remaining(CapArticle); got != 4 {
		t.Fatalf("expected stored ledger with article=4, got %d", got)
	}
}

func TestConsumeDecrementsByExactlyOne(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Ensure(ctx, "guest:a", TierFree); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	remaining, err := svc.Consume(ctx, "guest:a", CapImage)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("expected 1 remaining, got %d", remaining)
	}

	ledger, _ := svc.Ensure(ctx, "guest:a", TierFree)
	for _, cap := range []Capability{CapResumeReview, CapArticle, CapBlogTitle, CapRemoval} {
		if ledger.Remaining(cap) != defaultLedger(TierFree).Remaining(cap) {
			t.Fatalf("capability %s mutated unexpectedly", cap)
		}
	}
}

func TestConsumeAtZeroFails(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Ensure(ctx, "guest:a", TierFree); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.Consume(ctx, "guest:a", CapImage); err != nil {
			t.Fatalf("Consume %d: %v", i, err)
		}
	}

	if _, err := svc.Consume(ctx, "guest:a", CapImage); !errors.Is(err, ErrInsufficient) {
		t.Fatalf("expected ErrInsufficient, got %v", err)
	}

	ledger, _ := svc.Ensure(ctx, "guest:a", TierFree)
	if ledger.Remaining(CapImage) != 0 {
		t.Fatalf("failed consume must not mutate the ledger, got %d", ledger.Remaining(CapImage))
	}
}

func TestConcurrentConsumesNeverLoseUpdates(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Ensure(ctx, "google:p", TierPremium); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Consume(ctx, "google:p", CapArticle); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Consume: %v", err)
	}

	ledger, _ := svc.Ensure(ctx, "google:p", TierPremium)
	if got := ledger.Remaining(CapArticle); got != 50-workers {
		t.Fatalf("expected %d remaining, got %d", 50-workers, got)
	}
}
