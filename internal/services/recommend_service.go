package services

import (
	"fmt"
	"sort"

	"buynestt-backend/internal/models"
)

// TrendingRatingCutoff is a hard filter: products rated below it never
// appear in the trending list.
const TrendingRatingCutoff = 4.0

// personalizedSeedCount is how many top-history products seed the
// co-purchase lookup.
const personalizedSeedCount = 3

// RecommendationService produces the three ranked product lists. The ranking
// functions are pure: fixed inputs always yield the same output.
type RecommendationService struct {
	catalog *CatalogService
	perList int
	total   int
}

// NewRecommendationService creates a new recommendation service.
// perList caps each individual list; total caps the combined "all" response.
func NewRecommendationService(catalog *CatalogService, perList, total int) *RecommendationService {
	return &RecommendationService{catalog: catalog, perList: perList, total: total}
}

// Frequent ranks catalog products by historical purchase count, descending.
// Ties keep catalog order. Products with no recorded purchases are excluded.
func Frequent(catalog []models.Product, history map[string]int, limit int) []models.Recommendation {
	var recs []models.Recommendation
	for _, p := range catalog {
		count, ok := history[p.ID]
		if !ok || count <= 0 {
			continue
		}
		recs = append(recs, models.Recommendation{
			Product: p,
			Reason:  fmt.Sprintf("Bought %d times before", count),
			Score:   float64(count),
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return capRecs(recs, limit)
}

// Trending returns products rated at or above the cutoff, highest first.
// Ties keep catalog order.
func Trending(catalog []models.Product, limit int) []models.Recommendation {
	var recs []models.Recommendation
	for _, p := range catalog {
		if p.Rating < TrendingRatingCutoff {
			continue
		}
		recs = append(recs, models.Recommendation{
			Product: p,
			Reason:  fmt.Sprintf("%.1f⭐ trending", p.Rating),
			Score:   p.Rating,
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return capRecs(recs, limit)
}

// Personalized looks up co-purchase affinities for the retailer's top
// purchased products and ranks the candidates by raw score. Duplicate
// candidates keep their highest-scored occurrence. A seed missing from the
// co-purchase table simply contributes nothing.
func Personalized(catalog []models.Product, history map[string]int, coPurchases map[string]map[string]float64, limit int) []models.Recommendation {
	byID := make(map[string]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	seeds := topPurchased(catalog, history, personalizedSeedCount)

	type candidate struct {
		productID string
		score     float64
		seedName  string
	}
	var candidates []candidate
	for _, seedID := range seeds {
		seedName := "your purchases"
		if seed, ok := byID[seedID]; ok {
			seedName = seed.Name
		}
		for coID, score := range coPurchases[seedID] {
			candidates = append(candidates, candidate{productID: coID, score: score, seedName: seedName})
		}
	}

	// Map iteration order is random; order candidates by id before the score
	// sort so equal scores rank deterministically.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].productID < candidates[j].productID
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	seen := make(map[string]bool)
	var recs []models.Recommendation
	for _, c := range candidates {
		if seen[c.productID] {
			continue
		}
		seen[c.productID] = true
		p, ok := byID[c.productID]
		if !ok {
			continue
		}
		recs = append(recs, models.Recommendation{
			Product: p,
			Reason:  fmt.Sprintf("Pairs well with %s", c.seedName),
			Score:   c.score,
		})
	}
	return capRecs(recs, limit)
}

// topPurchased returns up to n product ids with the highest purchase counts,
// ties broken by catalog order. Fewer history entries yield a shorter seed set.
func topPurchased(catalog []models.Product, history map[string]int, n int) []string {
	var ids []string
	for _, p := range catalog {
		if count, ok := history[p.ID]; ok && count > 0 {
			ids = append(ids, p.ID)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return history[ids[i]] > history[ids[j]]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

func capRecs(recs []models.Recommendation, limit int) []models.Recommendation {
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// Recommend resolves a selector (frequent, trending, personalized or all)
// into ranked lists over the live catalog data. An unconstrained request
// returns the union capped at the configured total.
func (s *RecommendationService) Recommend(selector string) ([]models.Recommendation, error) {
	return s.RecommendFor(selector, nil)
}

// RecommendFor is Recommend with an optional caller purchase history. When
// the caller has ordered before, their own counts seed the personalized
// list; frequent and trending stay platform-wide. An empty map falls back
// to the global history.
func (s *RecommendationService) RecommendFor(selector string, callerHistory map[string]int) ([]models.Recommendation, error) {
	catalog, err := s.catalog.GetProducts()
	if err != nil {
		return nil, err
	}
	history, err := s.catalog.GetPurchaseHistory()
	if err != nil {
		return nil, err
	}
	seedHistory := history
	if len(callerHistory) > 0 {
		seedHistory = callerHistory
	}

	switch selector {
	case "frequent":
		return Frequent(catalog, history, s.perList), nil
	case "trending":
		return Trending(catalog, s.perList), nil
	case "personalized":
		coPurchases, err := s.catalog.GetCoPurchaseTable()
		if err != nil {
			return nil, err
		}
		return Personalized(catalog, seedHistory, coPurchases, s.perList), nil
	case "", "all":
		coPurchases, err := s.catalog.GetCoPurchaseTable()
		if err != nil {
			return nil, err
		}
		all := Frequent(catalog, history, s.perList)
		all = append(all, Trending(catalog, s.perList)...)
		all = append(all, Personalized(catalog, seedHistory, coPurchases, s.perList)...)
		return capRecs(all, s.total), nil
	default:
		return nil, fmt.Errorf("unknown recommendation type: %s", selector)
	}
}
