package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenWeatherClientLookup(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("SuccessfulLookup", func(t *testing.T) {
		var gotZip, gotKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/data/2.5/weather", r.URL.Path)
			gotZip = r.URL.Query().Get("zip")
			gotKey = r.URL.Query().Get("appid")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"coord": {"lon": -122.39, "lat": 37.77},
				"weather": [{"id": 800, "main": "Clear"}],
				"timezone": -25200,
				"name": "San Francisco"
			}`))
		}))
		defer server.Close()

		client := NewOpenWeatherClient(server.URL, "test-key", 5*time.Second, logger)

		coords, err := client.Lookup(ctx, "94107")
		require.NoError(t, err)
		assert.Equal(t, "94107", gotZip)
		assert.Equal(t, "test-key", gotKey)
		assert.Equal(t, 37.77, coords.Latitude)
		assert.Equal(t, -122.39, coords.Longitude)
		assert.Equal(t, -25200, coords.Timezone)
	})

	t.Run("NonSuccessStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		}))
		defer server.Close()

		client := NewOpenWeatherClient(server.URL, "test-key", 5*time.Second, logger)

		coords, err := client.Lookup(ctx, "00000")
		require.Error(t, err)
		assert.Nil(t, coords)

		var geocodeErr *GeocodeError
		require.ErrorAs(t, err, &geocodeErr)
		assert.Equal(t, "00000", geocodeErr.ZipCode)
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		client := NewOpenWeatherClient(server.URL, "test-key", 5*time.Second, logger)

		coords, err := client.Lookup(ctx, "94107")
		require.Error(t, err)
		assert.Nil(t, coords)

		var geocodeErr *GeocodeError
		assert.ErrorAs(t, err, &geocodeErr)
	})

	t.Run("ProviderUnreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := NewOpenWeatherClient(server.URL, "test-key", time.Second, logger)

		coords, err := client.Lookup(ctx, "94107")
		require.Error(t, err)
		assert.Nil(t, coords)

		var geocodeErr *GeocodeError
		assert.ErrorAs(t, err, &geocodeErr)
	})
}
