//go:build integration

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	redisplatform "calldex/internal/platform/redis"
	"calldex/internal/search/service"
	"calldex/internal/search/store"
	id "calldex/pkg/domain"
	"calldex/pkg/testutil/containers"
)

type countedDirectory struct {
	verified int
	calls    int
}

func (d *countedDirectory) VerifiedUserCount(context.Context) (int, error) {
	d.calls++
	return d.verified, nil
}

// TestVerifiedCountCaching verifies the denominator is served from Redis
// within the TTL and re-read from the directory after it expires.
func TestVerifiedCountCaching(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	cache := &redisplatform.Client{Client: rc.Client}
	directory := &countedDirectory{verified: 10}

	mem := store.NewMemory()
	mem.SeedAlias(id.NewUserID(), "Spammer", "9996660001", 5)

	svc, err := service.New(mem, directory,
		service.WithCache(cache, time.Second))
	require.NoError(t, err)

	caller := id.NewUserID()

	matches, err := svc.Search(ctx, caller, "9996660001")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.InDelta(t, 50.0, matches[0].SpamLikelihood, 0.0001)
	require.Equal(t, 1, directory.calls)

	// The population changes, but the cached denominator still applies.
	directory.verified = 20
	matches, err = svc.Search(ctx, caller, "9996660001")
	require.NoError(t, err)
	require.InDelta(t, 50.0, matches[0].SpamLikelihood, 0.0001)
	require.Equal(t, 1, directory.calls)

	time.Sleep(1200 * time.Millisecond)

	matches, err = svc.Search(ctx, caller, "9996660001")
	require.NoError(t, err)
	require.InDelta(t, 25.0, matches[0].SpamLikelihood, 0.0001)
	require.Equal(t, 2, directory.calls)
}
