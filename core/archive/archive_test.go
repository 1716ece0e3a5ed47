package archive_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/core/archive"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/archive/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreRawObjectLayout(t *testing.T) {
	mockClient := new(mocks.Client)
	arc := archive.New(mockClient, "show-captures")

	capturedAt := time.Date(2026, 1, 15, 12, 30, 0, 0, time.UTC)
	payload := []byte(`{"@type":"Event"}`)

	mockClient.On("PutObject", mock.Anything, "show-captures",
		"raw/valley-bar/2026-01-15/ev-100.json",
		mock.Anything, int64(len(payload)), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	name, err := arc.StoreRaw(context.Background(), "valley-bar", "ev-100", capturedAt, payload)
	require.NoError(t, err)
	assert.Equal(t, "raw/valley-bar/2026-01-15/ev-100.json", name)
	mockClient.AssertExpectations(t)
}

func TestStoreRawUnkeyedEvent(t *testing.T) {
	mockClient := new(mocks.Client)
	arc := archive.New(mockClient, "show-captures")

	mockClient.On("PutObject", mock.Anything, "show-captures",
		mock.MatchedBy(func(name string) bool {
			return len(name) > len("raw/valley-bar/2026-01-15/unkeyed-")
		}),
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	name, err := arc.StoreRaw(context.Background(), "valley-bar", "",
		time.Date(2026, 1, 15, 12, 30, 0, 0, time.UTC), []byte("{}"))
	require.NoError(t, err)
	assert.Contains(t, name, "unkeyed-")
}

func TestEnsureBucketCreatesWhenMissing(t *testing.T) {
	mockClient := new(mocks.Client)
	arc := archive.New(mockClient, "show-captures")

	mockClient.On("BucketExists", mock.Anything, "show-captures").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "show-captures", mock.Anything).Return(nil)

	require.NoError(t, arc.EnsureBucket(context.Background()))
	mockClient.AssertExpectations(t)
}

func TestEnsureBucketExists(t *testing.T) {
	mockClient := new(mocks.Client)
	arc := archive.New(mockClient, "show-captures")

	mockClient.On("BucketExists", mock.Anything, "show-captures").Return(true, nil)

	require.NoError(t, arc.EnsureBucket(context.Background()))
	mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoreRawError(t *testing.T) {
	mockClient := new(mocks.Client)
	arc := archive.New(mockClient, "show-captures")

	mockClient.On("PutObject", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("storage down"))

	_, err := arc.StoreRaw(context.Background(), "valley-bar", "ev-100", time.Now(), []byte("{}"))
	assert.Error(t, err)
}
