package sync_test

import (
	"context"
	"testing"

	syncfeature "github.com/mtrifilo/psychic-homily-web-sub009/feature/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct{ slugs []string }

func (f *fakeLister) ListShowSlugs(_ context.Context, _ string) ([]string, error) {
	return f.slugs, nil
}

type fakeExporter struct{ slugs []string }

func (f *fakeExporter) ExportShowSlugs(_ context.Context, _ string) ([]string, error) {
	return f.slugs, nil
}

func TestVerify(t *testing.T) {
	local := &fakeLister{slugs: []string{
		"the-national-at-valley-bar-2026-01-30",
		"gatecreeper-at-the-rebel-lounge-2026-02-01",
		"only-local-2026-03-01",
	}}
	remote := &fakeExporter{slugs: []string{
		"the-national-at-valley-bar-2026-01-30",
		"gatecreeper-at-the-rebel-lounge-2026-02-01",
		"only-remote-2026-03-02",
	}}

	report, err := syncfeature.Verify(context.Background(), local, remote, "staging", "approved")
	require.NoError(t, err)

	assert.Equal(t, "staging", report.Target)
	assert.Equal(t, 2, report.InBoth)
	assert.Equal(t, 3, report.LocalTotal)
	assert.Equal(t, 3, report.RemoteTotal)
	assert.Equal(t, []string{"only-local-2026-03-01"}, report.LocalOnly)
	assert.Equal(t, []string{"only-remote-2026-03-02"}, report.RemoteOnly)
}

func TestVerifyIdentical(t *testing.T) {
	slugs := []string{"a-show-2026-01-01", "b-show-2026-01-02"}
	report, err := syncfeature.Verify(context.Background(), &fakeLister{slugs: slugs}, &fakeExporter{slugs: slugs}, "staging", "")
	require.NoError(t, err)

	assert.Equal(t, 2, report.InBoth)
	assert.Empty(t, report.LocalOnly)
	assert.Empty(t, report.RemoteOnly)
}
