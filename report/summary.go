package report

import (
	"sort"

	"github.com/VAIBHAVSING/bucketwise/recommend"
)

// RegionSummary aggregates the rows of one region.
type RegionSummary struct {
	Region         string
	CostUSD        float64
	Recommendation recommend.Recommendation
	Buckets        int
}

// SummarizeRegions groups rows by region, sorted by region name. The
// summary's recommendation is the most frequent one in the region; ties go
// to whichever of the tied values appeared first.
func SummarizeRegions(rows []Row) []RegionSummary {
	type acc struct {
		cost   float64
		counts map[recommend.Recommendation]int
		order  []recommend.Recommendation
		n      int
	}
	byRegion := make(map[string]*acc)

	for _, r := range rows {
		a, ok := byRegion[r.Region]
		if !ok {
			a = &acc{counts: make(map[recommend.Recommendation]int)}
			byRegion[r.Region] = a
		}
		a.cost += r.EstimatedCostUSD
		a.n++
		if a.counts[r.Recommendation] == 0 {
			a.order = append(a.order, r.Recommendation)
		}
		a.counts[r.Recommendation]++
	}

	summaries := make([]RegionSummary, 0, len(byRegion))
	for region, a := range byRegion {
		mode := recommend.None
		best := 0
		for _, rec := range a.order {
			if a.counts[rec] > best {
				mode, best = rec, a.counts[rec]
			}
		}
		summaries = append(summaries, RegionSummary{
			Region:         region,
			CostUSD:        a.cost,
			Recommendation: mode,
			Buckets:        a.n,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Region < summaries[j].Region
	})
	return summaries
}
