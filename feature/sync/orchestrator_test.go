package sync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"
	syncfeature "github.com/mtrifilo/psychic-homily-web-sub009/feature/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClient struct {
	result *importer.BatchResult
	err    error

	gotBatch  importer.Batch
	gotDryRun bool
}

func (f *fakeClient) ImportBatch(_ context.Context, batch importer.Batch, dryRun bool) (*importer.BatchResult, error) {
	f.gotBatch = batch
	f.gotDryRun = dryRun
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testBatch() importer.Batch {
	return importer.Batch{
		Venues:  []canonical.VenueCandidate{{Name: "Valley Bar", City: "Phoenix", State: "AZ"}},
		Artists: []canonical.ArtistCandidate{{Name: "The National"}, {Name: "Lucy Dacus"}},
		Shows:   []canonical.Candidate{{LocalDate: "2026-01-30"}},
	}
}

func TestRunMissingCredentialSkipsOnlyThatTarget(t *testing.T) {
	t.Setenv("GOOD_TARGET_KEY", "secret")

	targets := []syncfeature.Target{
		{Name: "staging", BaseURL: "https://staging.example.com", CredentialEnv: "MISSING_TARGET_KEY"},
		{Name: "production", BaseURL: "https://example.com", CredentialEnv: "GOOD_TARGET_KEY"},
	}

	good := &fakeClient{result: &importer.BatchResult{Shows: importer.Outcome{Total: 1, Imported: 1}}}
	orch := syncfeature.NewOrchestrator(func(target syncfeature.Target, credential string) syncfeature.Client {
		assert.Equal(t, "production", target.Name)
		assert.Equal(t, "secret", credential)
		return good
	}, zap.NewNop())

	results := orch.Run(context.Background(), targets, testBatch(), false)
	require.Len(t, results, 2)

	// The misconfigured target failed before any network call.
	assert.Equal(t, "staging", results[0].Target)
	var authErr *syncfeature.AuthError
	require.ErrorAs(t, results[0].Err, &authErr)
	assert.Nil(t, results[0].Result)

	// The healthy target ran to completion.
	assert.Equal(t, "production", results[1].Target)
	require.NoError(t, results[1].Err)
	assert.Equal(t, 1, results[1].Result.Shows.Imported)
}

func TestRunTransportFailureCountsEveryRecord(t *testing.T) {
	t.Setenv("TARGET_KEY", "secret")

	targets := []syncfeature.Target{
		{Name: "staging", BaseURL: "https://staging.example.com", CredentialEnv: "TARGET_KEY"},
	}

	broken := &fakeClient{err: errors.New("connection refused")}
	orch := syncfeature.NewOrchestrator(func(syncfeature.Target, string) syncfeature.Client {
		return broken
	}, zap.NewNop())

	batch := testBatch()
	results := orch.Run(context.Background(), targets, batch, false)
	require.Len(t, results, 1)

	require.Error(t, results[0].Err)
	require.NotNil(t, results[0].Result)
	assert.Equal(t, len(batch.Shows), results[0].Result.Shows.Errors)
	assert.Equal(t, len(batch.Artists), results[0].Result.Artists.Errors)
	assert.Equal(t, len(batch.Venues), results[0].Result.Venues.Errors)
}

func TestRunPassesDryRunThrough(t *testing.T) {
	t.Setenv("TARGET_KEY", "secret")

	targets := []syncfeature.Target{
		{Name: "staging", BaseURL: "https://staging.example.com", CredentialEnv: "TARGET_KEY"},
	}

	client := &fakeClient{result: &importer.BatchResult{}}
	orch := syncfeature.NewOrchestrator(func(syncfeature.Target, string) syncfeature.Client {
		return client
	}, zap.NewNop())

	orch.Run(context.Background(), targets, testBatch(), true)
	assert.True(t, client.gotDryRun)
	assert.Len(t, client.gotBatch.Shows, 1)
}
