package sync

import (
	"context"
	"fmt"
	"sort"
)

// ShowLister lists local show slugs for comparison.
type ShowLister interface {
	ListShowSlugs(ctx context.Context, status string) ([]string, error)
}

// RemoteExporter lists a remote environment's show slugs.
type RemoteExporter interface {
	ExportShowSlugs(ctx context.Context, status string) ([]string, error)
}

// VerifyReport compares the show sets of two environments by slug.
type VerifyReport struct {
	Target      string   `json:"target"`
	LocalOnly   []string `json:"local_only"`
	RemoteOnly  []string `json:"remote_only"`
	InBoth      int      `json:"in_both"`
	LocalTotal  int      `json:"local_total"`
	RemoteTotal int      `json:"remote_total"`
}

// Verify reports which shows exist locally but not on the target and vice
// versa. Slugs are deterministic, so they serve as the comparison key.
func Verify(ctx context.Context, local ShowLister, remote RemoteExporter, target, status string) (*VerifyReport, error) {
	localSlugs, err := local.ListShowSlugs(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list local shows: %w", err)
	}
	remoteSlugs, err := remote.ExportShowSlugs(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote shows: %w", err)
	}

	localSet := toSet(localSlugs)
	remoteSet := toSet(remoteSlugs)

	report := &VerifyReport{
		Target:      target,
		LocalTotal:  len(localSet),
		RemoteTotal: len(remoteSet),
	}

	for s := range localSet {
		if remoteSet[s] {
			report.InBoth++
		} else {
			report.LocalOnly = append(report.LocalOnly, s)
		}
	}
	for s := range remoteSet {
		if !localSet[s] {
			report.RemoteOnly = append(report.RemoteOnly, s)
		}
	}

	sort.Strings(report.LocalOnly)
	sort.Strings(report.RemoteOnly)
	return report, nil
}

func toSet(slugs []string) map[string]bool {
	set := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		if s != "" {
			set[s] = true
		}
	}
	return set
}
