package registry

import (
	"time"

	"github.com/VAIBHAVSING/bucketwise/inventory"
)

// MergeResult counts what a merge changed.
type MergeResult struct {
	Added    int
	Updated  int
	Retained int
}

// Merge folds freshly fetched descriptors into reg in place.
//
// A descriptor whose name is already registered overwrites region,
// versioning and sizeGB only; tags, policies and createdOn are kept.
// Unknown names are appended with createdOn set to now's date and empty
// tags and policies. Records that were not fetched stay untouched: nothing
// is ever removed. Merging the same descriptors twice is a no-op.
func Merge(reg *Registry, descriptors []inventory.Descriptor, now time.Time) MergeResult {
	var res MergeResult
	seen := make(map[string]bool, len(descriptors))

	for _, d := range descriptors {
		seen[d.Name] = true
		if i := reg.Find(d.Name); i >= 0 {
			rec := &reg.Buckets[i]
			rec.Region = d.Region
			rec.Versioning = d.Versioning
			rec.SizeGB = d.SizeGB
			res.Updated++
			continue
		}
		reg.Buckets = append(reg.Buckets, Record{
			Name:       d.Name,
			Region:     d.Region,
			CreatedOn:  NewDate(now),
			Tags:       map[string]string{},
			Policies:   []string{},
			Versioning: d.Versioning,
			SizeGB:     d.SizeGB,
		})
		res.Added++
	}

	for _, b := range reg.Buckets {
		if !seen[b.Name] {
			res.Retained++
		}
	}
	return res
}
