package credits

// Tier defaults granted the first time a user makes any request. The premium
// table dominates the free table for every capability.
func defaultLedger(tier Tier) Ledger {
	if tier == TierPremium {
		return Ledger{
			CapResumeReview: 20,
			CapArticle:      50,
			CapBlogTitle:    50,
			CapImage:        20,
			CapRemoval:      30,
		}
	}
	return Ledger{
		CapResumeReview: 2,
		CapArticle:      5,
		CapBlogTitle:    5,
		CapImage:        2,
		CapRemoval:      3,
	}
}
