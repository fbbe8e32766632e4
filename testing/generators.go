package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/VAIBHAVSING/bucketwise/inventory"
	"github.com/VAIBHAVSING/bucketwise/providers/mock"
	"github.com/VAIBHAVSING/bucketwise/registry"
)

// Test data generators provide realistic bucket fixtures for testing

// Regions is the pool GenerateRegion draws from. It mixes regions that match
// the archive rule (us, eu) with ones that do not.
var Regions = []string{
	"us-east-1",
	"us-west-2",
	"eu-west-1",
	"eu-central-1",
	"ap-south-1",
	"ap-southeast-2",
	"sa-east-1",
}

// GenerateBucketName generates a valid bucket name for testing
func GenerateBucketName(prefix string) string {
	return fmt.Sprintf("%s-test-%d-%04d", prefix, time.Now().Unix(), rand.Intn(10000))
}

// GenerateRegion picks a region from Regions
func GenerateRegion() string {
	return Regions[rand.Intn(len(Regions))]
}

// GenerateObjectKey generates a realistic object key for testing
func GenerateObjectKey() string {
	paths := []string{
		"documents/file.pdf",
		"images/photo.jpg",
		"data/export.csv",
		"logs/application.log",
		"backups/database.sql",
	}
	return fmt.Sprintf("%d/%s", rand.Intn(1000), paths[rand.Intn(len(paths))])
}

// GenerateTags generates realistic tags for testing
func GenerateTags() map[string]string {
	environments := []string{"development", "staging", "production", "test"}
	teams := []string{"backend", "frontend", "devops", "data"}

	return map[string]string{
		"Environment": environments[rand.Intn(len(environments))],
		"Team":        teams[rand.Intn(len(teams))],
		"Owner":       "test@example.com",
	}
}

// GenerateDescriptor creates a fetched bucket view with a random region,
// versioning flag and a size between 0 and 200 GB.
func GenerateDescriptor(name string) inventory.Descriptor {
	return inventory.Descriptor{
		Name:       name,
		Region:     GenerateRegion(),
		Versioning: rand.Intn(2) == 0,
		SizeGB:     inventory.SizeGB(rand.Int63n(200_000_000_000)),
	}
}

// GenerateDescriptors generates count descriptors with distinct names
func GenerateDescriptors(count int, namePrefix string) []inventory.Descriptor {
	descriptors := make([]inventory.Descriptor, count)
	for i := 0; i < count; i++ {
		descriptors[i] = GenerateDescriptor(fmt.Sprintf("%s-%d", namePrefix, i))
	}
	return descriptors
}

// GenerateRecord creates a registry record created up to three years
// before now, with curated tags and a lifecycle policy.
func GenerateRecord(name string, now time.Time) registry.Record {
	d := GenerateDescriptor(name)
	return registry.Record{
		Name:       d.Name,
		Region:     d.Region,
		CreatedOn:  registry.NewDate(now.AddDate(0, 0, -rand.Intn(3*365))),
		Tags:       GenerateTags(),
		Policies:   []string{"lifecycle"},
		Versioning: d.Versioning,
		SizeGB:     d.SizeGB,
	}
}

// GenerateRegistry creates a registry of count records
func GenerateRegistry(count int, namePrefix string, now time.Time) *registry.Registry {
	reg := registry.New()
	for i := 0; i < count; i++ {
		reg.Buckets = append(reg.Buckets, GenerateRecord(fmt.Sprintf("%s-%d", namePrefix, i), now))
	}
	return reg
}

// SeedProvider adds every descriptor to provider as a bucket holding one
// object of the descriptor's size, modified at lastModified.
func SeedProvider(provider *mock.MockProvider, descriptors []inventory.Descriptor, lastModified time.Time) *mock.MockProvider {
	for _, d := range descriptors {
		provider.WithBucket(d.Name, d.Region, d.Versioning)
		if d.SizeGB > 0 {
			provider.WithObject(d.Name, GenerateObjectKey(), int64(d.SizeGB*inventory.BytesPerGB), lastModified)
		}
	}
	return provider
}

// NewSeededProvider returns a mock provider with count generated buckets,
// along with the descriptors it was seeded from.
func NewSeededProvider(region string, count int, now time.Time) (*mock.MockProvider, []inventory.Descriptor) {
	descriptors := GenerateDescriptors(count, "seeded")
	return SeedProvider(mock.New(region), descriptors, now), descriptors
}
