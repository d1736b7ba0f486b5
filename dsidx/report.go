package dsidx

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dendrascience/dendra-storage-index/version"
	"github.com/google/uuid"
)

// Report summarizes one Index snapshot for operators and downstream
// tooling. It is a derived artifact: saving a report persists the summary,
// never the index itself.
type Report struct {
	ReportID       string    `json:"report_id"`       // unique ID for this report
	GeneratedAt    time.Time `json:"generated_at"`    // when the report was derived
	IndexerVersion string    `json:"indexer_version"` // version that built the index
	Root           string    `json:"root"`            // scanned root path
	FileCount      int       `json:"file_count"`      // indexed files
	UniqueCount    int       `json:"unique_count"`    // distinct content hashes
	DuplicateCount int       `json:"duplicate_count"` // files minus unique hashes
	TotalSize      int64     `json:"total_size"`      // aggregate size in bytes
	OldestModTime  time.Time `json:"oldest_mod_time"` // earliest recorded mod time
	NewestModTime  time.Time `json:"newest_mod_time"` // latest recorded mod time
}

// GenerateReport derives a Report from the index in a single pass. The
// record order of the index is left untouched.
func (x *Index) GenerateReport() Report {
	r := Report{
		ReportID:       uuid.New().String(),
		GeneratedAt:    time.Now(),
		IndexerVersion: version.GetVersion(),
		Root:           x.root,
		FileCount:      x.Len(),
		TotalSize:      x.totalSize,
	}
	seen := make(map[string]struct{}, len(x.files))
	for _, f := range x.files {
		seen[f.Hash] = struct{}{}
		if r.OldestModTime.IsZero() || f.ModTime.Before(r.OldestModTime) {
			r.OldestModTime = f.ModTime
		}
		if f.ModTime.After(r.NewestModTime) {
			r.NewestModTime = f.ModTime
		}
	}
	r.UniqueCount = len(seen)
	r.DuplicateCount = r.FileCount - r.UniqueCount
	return r
}

// Save writes the report as JSON to the specified path.
func (r Report) Save(path string) error {
	return WriteJSONFile(path, r)
}

// WriteJSONFile writes any value as JSON to the specified file path.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
