package credits

// Capability is one of the five chargeable operation kinds.
type Capability string

const (
	CapResumeReview Capability = "resumeReview"
	CapArticle      Capability = "article"
	CapBlogTitle    Capability = "blogTitle"
	CapImage        Capability = "image"
	CapRemoval      Capability = "removal"
)

// Capabilities lists every chargeable capability. A ledger always carries
// exactly these keys once initialized.
var Capabilities = []Capability{CapResumeReview, CapArticle, CapBlogTitle, CapImage, CapRemoval}

// Tier is the caller's subscription tier, resolved per request.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Ledger maps each capability to its remaining credit count.
type Ledger map[Capability]int

// Clone returns an independent copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Remaining returns the count for a capability, treating missing keys as zero.
func (l Ledger) Remaining(cap Capability) int {
	return l[cap]
}

// Equal reports whether two ledgers hold identical counts.
func (l Ledger) Equal(other Ledger) bool {
	if len(l) != len(other) {
		return false
	}
	for k, v := range l {
		if other[k] != v {
			return false
		}
	}
	return true
}

// Entitlement is the per-request identity/tier/ledger value produced by the
// entitlement gate and passed explicitly to operation handlers.
type Entitlement struct {
	UserID string
	Tier   Tier
	Ledger Ledger
}
