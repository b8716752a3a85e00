package prometheus_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sosumi "github.com/NSHipster/sosumi.ai"
	"github.com/NSHipster/sosumi.ai/mock"
	sosumiprom "github.com/NSHipster/sosumi.ai/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTarget(t *testing.T, raw string) *sosumi.TargetURL {
	t.Helper()
	target, err := sosumi.ParseTargetURL(raw)
	require.NoError(t, err)
	return target
}

func TestRobotsService_CanFetch(t *testing.T) {
	t.Parallel()

	t.Run("counts allowed checks", func(t *testing.T) {
		t.Parallel()

		metrics := sosumiprom.New()
		inner := &mock.RobotsService{
			CanFetchFn: func(ctx context.Context, target *sosumi.TargetURL) error {
				return nil
			},
		}

		svc := sosumiprom.NewRobotsService(inner, metrics)
		err := svc.CanFetch(context.Background(), mustTarget(t, "https://docs.example.com/documentation/a"))

		require.NoError(t, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RobotsChecks.WithLabelValues("allowed")))
	})

	t.Run("counts denials", func(t *testing.T) {
		t.Parallel()

		metrics := sosumiprom.New()
		inner := &mock.RobotsService{
			CanFetchFn: func(ctx context.Context, target *sosumi.TargetURL) error {
				return sosumi.Errorf(sosumi.EROBOTSDENIED, "robots.txt of %s disallows %s", target.Origin(), target.PathAndQuery())
			},
		}

		svc := sosumiprom.NewRobotsService(inner, metrics)
		err := svc.CanFetch(context.Background(), mustTarget(t, "https://docs.example.com/documentation/a"))

		require.Error(t, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RobotsChecks.WithLabelValues("denied")))
		assert.Equal(t, 0.0, testutil.ToFloat64(metrics.RobotsChecks.WithLabelValues("allowed")))
	})
}

func TestRobotsFetcher_FetchRobots(t *testing.T) {
	t.Parallel()

	t.Run("counts fetches by status class", func(t *testing.T) {
		t.Parallel()

		metrics := sosumiprom.New()
		inner := &mock.RobotsFetcher{
			FetchRobotsFn: func(ctx context.Context, origin string) (int, string, error) {
				return http.StatusNotFound, "", nil
			},
		}

		fetcher := sosumiprom.NewRobotsFetcher(inner, metrics)
		status, _, err := fetcher.FetchRobots(context.Background(), "https://docs.example.com")

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RobotsFetches.WithLabelValues("4xx")))
	})

	t.Run("counts transport failures", func(t *testing.T) {
		t.Parallel()

		metrics := sosumiprom.New()
		inner := &mock.RobotsFetcher{
			FetchRobotsFn: func(ctx context.Context, origin string) (int, string, error) {
				return 0, "", errors.New("connection refused")
			},
		}

		fetcher := sosumiprom.NewRobotsFetcher(inner, metrics)
		_, _, err := fetcher.FetchRobots(context.Background(), "https://docs.example.com")

		require.Error(t, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RobotsFetches.WithLabelValues("error")))
	})
}

func TestRobotsCache_Get(t *testing.T) {
	t.Parallel()

	t.Run("counts hits and misses", func(t *testing.T) {
		t.Parallel()

		metrics := sosumiprom.New()
		entries := map[string]sosumi.RobotsPolicy{
			"https://docs.example.com": {Kind: sosumi.RobotsAllowAll},
		}
		inner := &mock.RobotsCache{
			GetFn: func(ctx context.Context, origin string) (sosumi.RobotsPolicy, bool) {
				policy, ok := entries[origin]
				return policy, ok
			},
			SetFn: func(ctx context.Context, origin string, policy sosumi.RobotsPolicy) {},
		}

		cache := sosumiprom.NewRobotsCache(inner, metrics)
		_, hit := cache.Get(context.Background(), "https://docs.example.com")
		_, miss := cache.Get(context.Background(), "https://other.example.com")

		assert.True(t, hit)
		assert.False(t, miss)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RobotsCacheHits))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RobotsCacheMisses))
	})
}

func TestDocumentService_FetchDocument(t *testing.T) {
	t.Parallel()

	t.Run("counts outcomes by code", func(t *testing.T) {
		t.Parallel()

		metrics := sosumiprom.New()
		inner := &mock.DocumentService{
			FetchDocumentFn: func(ctx context.Context, target *sosumi.TargetURL) (*sosumi.Document, error) {
				if target.Path() == "/documentation/gone" {
					return nil, sosumi.Errorf(sosumi.ENOTFOUND, "no documentation at %s", target.String())
				}
				return &sosumi.Document{}, nil
			},
		}

		svc := sosumiprom.NewDocumentService(inner, metrics)
		_, err := svc.FetchDocument(context.Background(), mustTarget(t, "https://docs.example.com/documentation/a"))
		require.NoError(t, err)
		_, err = svc.FetchDocument(context.Background(), mustTarget(t, "https://docs.example.com/documentation/gone"))
		require.Error(t, err)

		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DocumentFetches.WithLabelValues("ok")))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DocumentFetches.WithLabelValues(sosumi.ENOTFOUND)))
	})
}

func TestMetrics_Instrument(t *testing.T) {
	t.Parallel()

	t.Run("counts requests by method and status", func(t *testing.T) {
		t.Parallel()

		metrics := sosumiprom.New()
		handler := metrics.Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documentation/missing", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(http.MethodGet, "404")))
	})
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	t.Run("exposes registered metrics", func(t *testing.T) {
		t.Parallel()

		metrics := sosumiprom.New()
		metrics.RobotsCacheHits.Inc()
		rec := httptest.NewRecorder()

		metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "sosumi_robots_cache_hits_total 1")
	})
}
