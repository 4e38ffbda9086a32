package referral

// Index maps opportunityId → the requester's referral for that opportunity.
// Built by reducing the full referral list; keys are unique, a later list
// entry for the same opportunity replaces the earlier one.
type Index map[string]Referral

// BuildIndex reduces a referral list into an Index.
func BuildIndex(list []ReferralWithOpportunity) Index {
	idx := make(Index, len(list))
	for _, r := range list {
		idx[r.OpportunityID] = r.Referral
	}
	return idx
}

// Lookup returns the referral for an opportunity, or nil when none exists.
func (idx Index) Lookup(opportunityID string) *Referral {
	if r, ok := idx[opportunityID]; ok {
		return &r
	}
	return nil
}

// Overlay is the optimistic tier of the two-tier referral cache. A freshly
// submitted referral lands here immediately so listing views can show the
// badge without waiting for the authoritative index to refresh. Entries are
// cleared once the authoritative index holds a matching-or-newer record.
type Overlay struct {
	entries map[string]Referral
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{entries: make(map[string]Referral)}
}

// Put records a just-submitted referral against its opportunity.
func (o *Overlay) Put(r Referral) {
	o.entries[r.OpportunityID] = r
}

// Lookup returns the overlay entry for an opportunity, or nil.
func (o *Overlay) Lookup(opportunityID string) *Referral {
	if r, ok := o.entries[opportunityID]; ok {
		return &r
	}
	return nil
}

// Reconcile drops every overlay entry the authoritative index has caught up
// with: the index record's updatedAt is equal to or after the overlay's.
// Entries the index does not cover yet are kept.
func (o *Overlay) Reconcile(idx Index) {
	for oppID, optimistic := range o.entries {
		authoritative, ok := idx[oppID]
		if !ok {
			continue
		}
		if !authoritative.UpdatedAt.Before(optimistic.UpdatedAt) {
			delete(o.entries, oppID)
		}
	}
}

// Len returns the number of live overlay entries.
func (o *Overlay) Len() int { return len(o.entries) }
