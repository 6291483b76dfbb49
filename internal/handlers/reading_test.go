package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetk3436/vigil/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArchive struct {
	inserted []models.SensorReading
	rows     []models.SensorReading
	avg      float64
	found    bool
	err      error

	lastStart time.Time
	lastEnd   time.Time
}

func (f *fakeArchive) Insert(_ context.Context, r *models.SensorReading) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, *r)
	return nil
}

func (f *fakeArchive) Range(context.Context, string, string, time.Time) ([]models.SensorReading, error) {
	return f.rows, f.err
}

func (f *fakeArchive) Average(_ context.Context, _, _ string, start, end time.Time) (float64, bool, error) {
	f.lastStart, f.lastEnd = start, end
	return f.avg, f.found, f.err
}

func newReadingApp(archive *fakeArchive) *fiber.App {
	h := NewReadingHandler(archive)
	app := fiber.New()
	app.Post("/api/readings", h.Ingest)
	app.Get("/api/readings/:device_name/:sensor_name", h.GetRange)
	app.Get("/api/readings/:device_name/:sensor_name/avg", h.GetAverage)
	return app
}

func TestIngestReading(t *testing.T) {
	archive := &fakeArchive{}
	app := newReadingApp(archive)

	payload := `{"device_name":"D1","sensor_name":"Temp","value":21.5,"event_time":"2025-06-15T10:00:00Z"}`
	req := httptest.NewRequest("POST", "/api/readings", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.Len(t, archive.inserted, 1)
	got := archive.inserted[0]
	assert.Equal(t, "D1", got.DeviceName)
	assert.Equal(t, 21.5, got.Value)
	assert.Equal(t, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC), got.EventTime)
}

func TestIngestReadingValidation(t *testing.T) {
	archive := &fakeArchive{}
	app := newReadingApp(archive)

	req := httptest.NewRequest("POST", "/api/readings", strings.NewReader(`{"device_name":"D1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, archive.inserted)
}

func TestGetRangeRequiresSince(t *testing.T) {
	app := newReadingApp(&fakeArchive{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/readings/D1/Temp", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/readings/D1/Temp?since=not-a-time", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/readings/D1/Temp?since=2025-06-15T00:00:00Z", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetAverageSymbolicPeriod(t *testing.T) {
	archive := &fakeArchive{avg: 22.5, found: true}
	app := newReadingApp(archive)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/readings/D1/Temp/avg?period=1h", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, 22.5, body["average"])
	assert.Equal(t, time.Hour, archive.lastEnd.Sub(archive.lastStart))
}

func TestGetAverageEmptyWindowIsZero(t *testing.T) {
	app := newReadingApp(&fakeArchive{found: false})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/readings/D1/Temp/avg?period=1w", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, 0.0, body["average"])
}

func TestGetAverageInvalidPeriod(t *testing.T) {
	app := newReadingApp(&fakeArchive{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/readings/D1/Temp/avg?period=yesterday", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/readings/D1/Temp/avg", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
