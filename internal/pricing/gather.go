// Package pricing turns raw marketplace listings into the per-grade price
// report persisted with a saved search.
package pricing

import (
	"context"
	"math"

	"github.com/slabwatch/slabwatch/internal/ebay"
	"github.com/slabwatch/slabwatch/internal/model"
)

// ItemSearcher is the listing source contract (the eBay Browse client in
// production, a fake in tests).
type ItemSearcher interface {
	SearchItems(ctx context.Context, keyword, marketplace string, limit int) ([]model.Listing, error)
}

// ImageFinder locates a fallback image for a card when no listing has one.
// Implementations return "" when nothing is found.
type ImageFinder interface {
	FindImage(ctx context.Context, cardName string) string
}

// Gatherer runs one price gather for a card in a region.
type Gatherer struct {
	searcher ItemSearcher
	images   ImageFinder
	limit    int
}

// NewGatherer creates a gatherer over a listing source. images may be nil
// when no fallback image lookup is configured.
func NewGatherer(searcher ItemSearcher, images ImageFinder) *Gatherer {
	return &Gatherer{searcher: searcher, images: images, limit: 50}
}

// Gather searches listings for cardName in the region's marketplace, buckets
// prices by detected grade (capped per bucket), and returns the report plus
// the chosen image URL. The first listing carrying an image wins; otherwise
// the fallback finder is consulted.
func (g *Gatherer) Gather(ctx context.Context, cardName, region string) (*model.PriceReport, string, error) {
	listings, err := g.searcher.SearchItems(ctx, cardName, ebay.Marketplace(region), g.limit)
	if err != nil {
		return nil, "", err
	}

	buckets := make(map[string][]float64, len(model.Grades))
	for _, grade := range model.Grades {
		buckets[grade] = []float64{}
	}

	imageURL := ""
	for _, listing := range listings {
		grade := ebay.DetectGrade(listing.Title)
		if _, ok := buckets[grade]; !ok {
			grade = "raw"
		}
		if len(buckets[grade]) < model.PricesPerGradeCap {
			buckets[grade] = append(buckets[grade], listing.Price)
		}
		if imageURL == "" && listing.ImageURL != "" {
			imageURL = listing.ImageURL
		}
	}

	if imageURL == "" && g.images != nil {
		imageURL = g.images.FindImage(ctx, cardName)
	}

	report := &model.PriceReport{
		Avg:    averages(buckets),
		Prices: buckets,
	}
	return report, imageURL, nil
}

// averages computes rounded per-grade means in stable grade order.
// Empty buckets average to 0.
func averages(buckets map[string][]float64) model.Averages {
	avg := make(model.Averages, 0, len(model.Grades))
	for _, grade := range model.Grades {
		prices := buckets[grade]
		value := 0.0
		if len(prices) > 0 {
			sum := 0.0
			for _, p := range prices {
				sum += p
			}
			value = math.Round(sum/float64(len(prices))*100) / 100
		}
		avg = append(avg, model.GradeAvg{Grade: grade, Value: value})
	}
	return avg
}
