package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/politicosbr/camara-client/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestHandler_ExposesCacheMetrics(t *testing.T) {
	store := cache.NewStore[string]()
	store.Set("k", "v", 0)
	store.Get("missing")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"camara_cache_misses_total", "camara_cache_entries"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
