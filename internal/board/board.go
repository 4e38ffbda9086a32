// Package board merges referral state onto opportunity listings. It owns
// the two-tier badge cache: the authoritative index built from the last
// full fetch, plus a short-lived optimistic overlay for referrals submitted
// since. Badge lookup per card is O(1) once the index is built.
package board

import (
	"github.com/rohitmhetre02/AlumConnect-sub004/internal/referral"
)

// Card is one rendered opportunity with the requester's referral, if any.
// Referral is nil when the card carries no badge.
type Card struct {
	Opportunity referral.Opportunity
	Referral    *referral.Referral
}

// Badge returns the status to show on the card, or "" for none.
func (c Card) Badge() referral.Status {
	if c.Referral == nil {
		return ""
	}
	return c.Referral.Status
}

// Board holds the opportunities a listing view renders and the referral
// state merged onto them. A Board is owned by a single view; two mounted
// views each hold their own copy and refresh independently.
type Board struct {
	opportunities []referral.Opportunity
	index         referral.Index
	overlay       *referral.Overlay
}

// New returns an empty Board.
func New() *Board {
	return &Board{
		index:   referral.Index{},
		overlay: referral.NewOverlay(),
	}
}

// SetOpportunities replaces the rendered opportunity list.
func (b *Board) SetOpportunities(opps []referral.Opportunity) {
	b.opportunities = opps
}

// SetReferrals rebuilds the authoritative index from a fresh "my referrals"
// fetch and reconciles the optimistic overlay against it.
func (b *Board) SetReferrals(list []referral.ReferralWithOpportunity) {
	b.index = referral.BuildIndex(list)
	b.overlay.Reconcile(b.index)
}

// ApplySubmission records a just-submitted referral in the overlay so the
// badge appears immediately, before the next authoritative refresh lands.
func (b *Board) ApplySubmission(r referral.Referral) {
	b.overlay.Put(r)
}

// Lookup returns the referral to show for an opportunity: the optimistic
// overlay entry when one is live, otherwise the authoritative record.
func (b *Board) Lookup(opportunityID string) *referral.Referral {
	if r := b.overlay.Lookup(opportunityID); r != nil {
		return r
	}
	return b.index.Lookup(opportunityID)
}

// Cards returns every opportunity with its merged referral state.
func (b *Board) Cards() []Card {
	cards := make([]Card, 0, len(b.opportunities))
	for _, o := range b.opportunities {
		cards = append(cards, Card{Opportunity: o, Referral: b.Lookup(o.ID)})
	}
	return cards
}

// Search returns the cards whose opportunity matches the free-text query.
func (b *Board) Search(query string) []Card {
	matched := referral.Search(b.opportunities, query)
	cards := make([]Card, 0, len(matched))
	for _, o := range matched {
		cards = append(cards, Card{Opportunity: o, Referral: b.Lookup(o.ID)})
	}
	return cards
}

// FilterLocation returns the cards whose opportunity location equals loc.
func (b *Board) FilterLocation(loc string) []Card {
	matched := referral.FilterLocation(b.opportunities, loc)
	cards := make([]Card, 0, len(matched))
	for _, o := range matched {
		cards = append(cards, Card{Opportunity: o, Referral: b.Lookup(o.ID)})
	}
	return cards
}
