package services

import (
	"errors"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrNoCandidates is returned when there is nothing to rank.
var ErrNoCandidates = errors.New("no candidates to rank")

// Candidate is an available order as seen by a courier: where it has to be picked up.
type Candidate struct {
	OrderID kernel.UUID
	Pickup  kernel.Location
}

// RankedCandidate is a Candidate with its distance from the courier.
type RankedCandidate struct {
	Candidate
	DistanceKm float64
}

// OfferRanker orders available orders for a courier by pickup distance.
//
// Ranking is advisory: it decides what a courier dashboard shows first, never who gets
// an order. Assignment is decided only by the claim.
//
// Business rules:
//   - nearest pickup first
//   - ties keep the input order (oldest order first when the input is by created_at)
//
// Example usage:
//
//	ranker := NewOfferRanker()
//	ranked, err := ranker.Rank(courierPosition, candidates)
//	if errors.Is(err, ErrNoCandidates) {
//	    // nothing to offer
//	}
type OfferRanker struct{}

func NewOfferRanker() OfferRanker {
	return OfferRanker{}
}

// Rank returns candidates sorted by distance from the courier position.
//
// Returns:
//   - []RankedCandidate: every candidate, nearest first
//   - error: ErrNoCandidates on empty input, or a validation error for an unconstructed location
func (r OfferRanker) Rank(from kernel.Location, candidates []Candidate) ([]RankedCandidate, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		km, err := from.DistanceKm(c.Pickup)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, RankedCandidate{Candidate: c, DistanceKm: km})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked, nil
}

// Nearest returns the closest candidate.
func (r OfferRanker) Nearest(from kernel.Location, candidates []Candidate) (RankedCandidate, error) {
	ranked, err := r.Rank(from, candidates)
	if err != nil {
		return RankedCandidate{}, err
	}
	return ranked[0], nil
}
