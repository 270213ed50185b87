package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/bandfit/internal/hasher"
)

// Validate checks r against the files under baseDir and returns one
// message per problem.
func Validate(r *Report, baseDir string) []string {
	var errs []string

	if r.Version != SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}
	if err := r.Band.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("band: %v", err))
	}

	seen := map[string]bool{}
	for i, f := range r.Files {
		if f.Output == "" {
			errs = append(errs, fmt.Sprintf("file[%d]: missing output path", i))
			continue
		}
		if seen[f.Output] {
			errs = append(errs, fmt.Sprintf("file[%d]: duplicate output %q", i, f.Output))
		}
		seen[f.Output] = true

		// Failed writes have nothing on disk to check.
		if f.Error != "" {
			continue
		}

		if f.Achieved && f.Size > r.Band.Max {
			errs = append(errs, fmt.Sprintf("file[%d]: achieved but %d bytes exceeds max %d", i, f.Size, r.Band.Max))
		}

		full := filepath.Join(baseDir, filepath.FromSlash(f.Output))
		info, err := os.Stat(full)
		if err != nil {
			errs = append(errs, fmt.Sprintf("file[%d]: not found: %s", i, f.Output))
			continue
		}
		if info.Size() != f.Size {
			errs = append(errs, fmt.Sprintf("file[%d]: size mismatch: report=%d, disk=%d", i, f.Size, info.Size()))
		}
		if f.Hash != "" {
			sum, err := hasher.SumFile(full)
			if err != nil {
				errs = append(errs, fmt.Sprintf("file[%d]: hash %s: %v", i, f.Output, err))
			} else if sum != f.Hash {
				errs = append(errs, fmt.Sprintf("file[%d]: hash mismatch: report=%s, disk=%s", i, f.Hash, sum))
			}
		}
	}

	achieved := 0
	for _, f := range r.Files {
		if f.Achieved {
			achieved++
		}
	}
	if r.Stats.TotalFiles != len(r.Files) {
		errs = append(errs, fmt.Sprintf("stats.total_files mismatch: %d != %d", r.Stats.TotalFiles, len(r.Files)))
	}
	if r.Stats.Achieved != achieved {
		errs = append(errs, fmt.Sprintf("stats.achieved mismatch: %d != %d", r.Stats.Achieved, achieved))
	}

	return errs
}
