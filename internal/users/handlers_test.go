package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geodex/geodex/internal/geocode"
)

func newTestRouter(geocoder geocode.Geocoder) (*gin.Engine, *spyStore) {
	gin.SetMode(gin.TestMode)

	store := newSpyStore()
	service := NewUserService(store, geocoder, zap.NewNop())
	handlers := NewUserHandlers(service, zap.NewNop())

	router := gin.New()
	handlers.RegisterRoutes(router)
	return router, store
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserEndpoints(t *testing.T) {
	t.Run("CreateReturnsFullUser", func(t *testing.T) {
		router, _ := newTestRouter(&stubGeocoder{coords: testCoords})

		w := doRequest(router, http.MethodPost, "/users", `{"name":"Jane","zip_code":"10001"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var user User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "Jane", user.Name)
		assert.Equal(t, "10001", user.ZipCode)
		assert.Equal(t, 40.75, user.Latitude)
		assert.Equal(t, -73.99, user.Longitude)
		assert.Equal(t, -14400, user.Timezone)
	})

	t.Run("CreateValidationFailureIs400WithDetails", func(t *testing.T) {
		router, store := newTestRouter(&stubGeocoder{coords: testCoords})

		w := doRequest(router, http.MethodPost, "/users", `{"zip_code":"10001"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"name"`)
		assert.Zero(t, store.puts)
	})

	t.Run("CreateUpstreamFailureIs500Generic", func(t *testing.T) {
		router, store := newTestRouter(&stubGeocoder{err: &geocode.GeocodeError{ZipCode: "10001", Message: "boom"}})

		w := doRequest(router, http.MethodPost, "/users", `{"name":"Jane","zip_code":"10001"}`)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Could not connect to Weather API")
		// no internal detail leaks to the client
		assert.NotContains(t, w.Body.String(), "boom")
		assert.Zero(t, store.puts)
	})

	t.Run("GetUnknownIDIs404", func(t *testing.T) {
		router, _ := newTestRouter(&stubGeocoder{coords: testCoords})

		w := doRequest(router, http.MethodGet, "/users/missing", "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GetAfterCreateRoundTrips", func(t *testing.T) {
		router, _ := newTestRouter(&stubGeocoder{coords: testCoords})

		created := doRequest(router, http.MethodPost, "/users", `{"name":"A","zip_code":"94107"}`)
		require.Equal(t, http.StatusOK, created.Code)

		var user User
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &user))

		read := doRequest(router, http.MethodGet, "/users/"+user.ID, "")
		require.Equal(t, http.StatusOK, read.Code)
		assert.JSONEq(t, created.Body.String(), read.Body.String())
	})

	t.Run("UpdateRefreshesDerivedFields", func(t *testing.T) {
		geocoder := &stubGeocoder{coords: testCoords}
		router, _ := newTestRouter(geocoder)

		created := doRequest(router, http.MethodPost, "/users", `{"name":"Jane","zip_code":"10001"}`)
		var user User
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &user))

		geocoder.coords = &geocode.Coordinates{Latitude: 37.77, Longitude: -122.39, Timezone: -25200}
		updated := doRequest(router, http.MethodPut, "/users/"+user.ID, `{"name":"Janet","zip_code":"94107"}`)
		require.Equal(t, http.StatusOK, updated.Code)

		var after User
		require.NoError(t, json.Unmarshal(updated.Body.Bytes(), &after))
		assert.Equal(t, user.ID, after.ID)
		assert.Equal(t, "Janet", after.Name)
		assert.Equal(t, "94107", after.ZipCode)
		assert.Equal(t, -25200, after.Timezone)
	})

	t.Run("UpdateValidationFailureIs400", func(t *testing.T) {
		router, _ := newTestRouter(&stubGeocoder{coords: testCoords})

		w := doRequest(router, http.MethodPut, "/users/some-id", `{"name":"Jane"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"zip_code"`)
	})

	t.Run("UpdateMissingIDCreatesRecord", func(t *testing.T) {
		router, _ := newTestRouter(&stubGeocoder{coords: testCoords})

		w := doRequest(router, http.MethodPut, "/users/fresh-id", `{"name":"Jane","zip_code":"10001"}`)
		require.Equal(t, http.StatusOK, w.Code)

		read := doRequest(router, http.MethodGet, "/users/fresh-id", "")
		assert.Equal(t, http.StatusOK, read.Code)
	})

	t.Run("DeleteReturnsPlainTextID", func(t *testing.T) {
		router, _ := newTestRouter(&stubGeocoder{coords: testCoords})

		created := doRequest(router, http.MethodPost, "/users", `{"name":"Jane","zip_code":"10001"}`)
		var user User
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &user))

		w := doRequest(router, http.MethodDelete, "/users/"+user.ID, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, user.ID, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

		read := doRequest(router, http.MethodGet, "/users/"+user.ID, "")
		assert.Equal(t, http.StatusNotFound, read.Code)
	})

	t.Run("DeleteMissingIDStillSucceeds", func(t *testing.T) {
		router, _ := newTestRouter(&stubGeocoder{coords: testCoords})

		w := doRequest(router, http.MethodDelete, "/users/never-existed", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "never-existed", w.Body.String())
	})
}
