package report

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// CSVHeader lists the report columns in order.
var CSVHeader = []string{
	"name",
	"region",
	"createdOn",
	"tags",
	"policies",
	"versioning",
	"sizeGB",
	"Recommendation",
	"DeleteQueue",
	"ArchiveGlacier",
	"EstimatedCostUSD",
}

// WriteCSV writes the header and one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(csvRecord(r)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvRecord(r Row) []string {
	return []string{
		r.Name,
		r.Region,
		r.CreatedOn.String(),
		formatTags(r.Tags),
		strings.Join(r.Policies, ";"),
		strconv.FormatBool(r.Versioning),
		formatFloat(r.SizeGB),
		string(r.Recommendation),
		strconv.FormatBool(r.DeleteQueue),
		strconv.FormatBool(r.ArchiveGlacier),
		formatFloat(r.EstimatedCostUSD),
	}
}

// formatTags renders tags as k=v pairs sorted by key.
func formatTags(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + tags[k]
	}
	return strings.Join(pairs, ";")
}

// formatFloat drops float noise beyond six decimals (60*0.023 prints 1.38).
func formatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
