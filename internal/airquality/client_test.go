package airquality

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const feedPayload = `{
	"status": "ok",
	"data": {
		"aqi": 132,
		"city": {"name": "Centro, Mexico City"},
		"iaqi": {
			"pm25": {"v": 132},
			"pm10": {"v": 58},
			"o3": {"v": 21.5},
			"t": {"v": 24.1},
			"h": {"v": 40},
			"p": {"v": 1018.2}
		},
		"time": {"s": "2026-08-29 10:00:00"}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, "test-token", time.Second, nil)
}

func TestFetchCity(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/feed/Mexico/", r.URL.Path)
		require.Equal(t, "test-token", r.URL.Query().Get("token"))
		w.Write([]byte(feedPayload))
	})

	report, err := client.FetchCity(context.Background(), "Mexico")
	require.NoError(t, err)

	require.Equal(t, 132, report.AQI)
	require.Equal(t, "Centro, Mexico City", report.Station)
	require.Equal(t, "2026-08-29 10:00:00", report.ObservedAt)
	require.Equal(t, LevelUnhealthySensitive, report.Level())

	require.Equal(t, 132.0, report.Pollutants["pm25"])
	require.Equal(t, 58.0, report.Pollutants["pm10"])
	require.Equal(t, 21.5, report.Pollutants["o3"])
	_, hasNO2 := report.Pollutants["no2"]
	require.False(t, hasNO2, "absent pollutants stay absent")

	require.NotNil(t, report.Temperature)
	require.Equal(t, 24.1, *report.Temperature)
	require.NotNil(t, report.Humidity)
	require.NotNil(t, report.Pressure)
}

func TestFetchCity_EmptyCity(t *testing.T) {
	t.Parallel()

	client := NewClient("http://unused.invalid", "", time.Second, nil)
	_, err := client.FetchCity(context.Background(), "   ")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrServiceUnavailable)
}

// Every provider failure mode collapses into the one generic error.
func TestFetchCity_FailuresAreGeneric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"http error status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			"malformed json",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "ok", "data": `))
			},
		},
		{
			"provider rejection",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "error", "data": "Unknown station"}`))
			},
		},
		{
			"unexpected data shape",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "ok", "data": "no such city"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.FetchCity(context.Background(), "Mexico")
			require.ErrorIs(t, err, ErrServiceUnavailable)
		})
	}
}

func TestFetchCity_ConnectionFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // deliberately dead

	client := NewClient(srv.URL, "", time.Second, nil)
	_, err := client.FetchCity(context.Background(), "Mexico")
	require.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		aqi  int
		want Level
	}{
		{0, LevelGood},
		{50, LevelGood},
		{51, LevelModerate},
		{100, LevelModerate},
		{101, LevelUnhealthySensitive},
		{150, LevelUnhealthySensitive},
		{151, LevelUnhealthy},
		{200, LevelUnhealthy},
		{201, LevelVeryUnhealthy},
		{300, LevelVeryUnhealthy},
		{301, LevelHazardous},
		{500, LevelHazardous},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Classify(tt.aqi), "aqi=%d", tt.aqi)
	}
}

func TestLevel_Strings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Good", LevelGood.String())
	require.Equal(t, "Hazardous", LevelHazardous.String())
	require.NotEmpty(t, LevelModerate.Advice())
}
