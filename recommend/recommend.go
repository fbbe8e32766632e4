// Package recommend holds the lifecycle rules applied to buckets.
//
// Two independent rule tables live here. Optimal is the priority rule used by
// the optimizer report; InspectorNote is the size-only rule printed by the
// inspector. They disagree for some buckets.
package recommend

import (
	"strings"
	"time"

	"github.com/VAIBHAVSING/bucketwise/registry"
)

// Recommendation is the single lifecycle action suggested for a bucket.
type Recommendation string

const (
	Delete  Recommendation = "Delete"
	Cleanup Recommendation = "Cleanup"
	Archive Recommendation = "Archive"
	None    Recommendation = "None"
)

// All lists the recommendations in priority order.
var All = []Recommendation{Delete, Cleanup, Archive, None}

// CostPerGBMonthUSD is the flat storage price used for estimates.
const CostPerGBMonthUSD = 0.023

const (
	deleteMinSizeGB  = 100
	deleteMinAgeDays = 365
	cleanupMinSizeGB = 50
)

// Optimal returns the recommendation for a bucket of sizeGB in region whose
// registry entry is ageDays old. First matching rule wins:
//
//  1. sizeGB > 100 and ageDays > 365: Delete
//  2. sizeGB > 50: Cleanup
//  3. region contains "us" or "eu" (any case): Archive
//  4. None
func Optimal(sizeGB float64, ageDays int, region string) Recommendation {
	switch {
	case sizeGB > deleteMinSizeGB && ageDays > deleteMinAgeDays:
		return Delete
	case sizeGB > cleanupMinSizeGB:
		return Cleanup
	case archivableRegion(region):
		return Archive
	default:
		return None
	}
}

// ForRecord applies Optimal to a registry record, aging it from createdOn.
func ForRecord(rec registry.Record, now time.Time) Recommendation {
	return Optimal(rec.SizeGB, rec.CreatedOn.AgeDays(now), rec.Region)
}

func archivableRegion(region string) bool {
	r := strings.ToLower(region)
	return strings.Contains(r, "us") || strings.Contains(r, "eu")
}

// EstimatedCostUSD returns the monthly storage estimate for sizeGB.
func EstimatedCostUSD(sizeGB float64) float64 {
	return sizeGB * CostPerGBMonthUSD
}
