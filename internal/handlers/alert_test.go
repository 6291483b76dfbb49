package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetk3436/vigil/internal/alerting"
	"github.com/ahmetk3436/vigil/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	created    []models.Alert
	byDevice   map[string][]models.Alert
	deleteRows int64
	err        error
}

func (f *fakeDirectory) Create(_ context.Context, alert *models.Alert) error {
	if f.err != nil {
		return f.err
	}
	alert.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *alert)
	return nil
}

func (f *fakeDirectory) ListByDevice(_ context.Context, device string) ([]models.Alert, error) {
	return f.byDevice[device], f.err
}

func (f *fakeDirectory) Delete(context.Context, int64) (int64, error) {
	return f.deleteRows, f.err
}

type fakeEvaluator struct {
	res alerting.Result
	err error
}

func (f *fakeEvaluator) Evaluate(context.Context, int64) (alerting.Result, error) {
	return f.res, f.err
}

func newTestApp(dir *fakeDirectory, eval *fakeEvaluator) *fiber.App {
	h := NewAlertHandler(dir, eval)
	app := fiber.New()
	app.Post("/api/alerts", h.CreateAlert)
	app.Delete("/api/alerts/:id", h.DeleteAlert)
	app.Get("/api/alerts/:id/condition", h.CheckCondition)
	app.Get("/api/devices/:device_name/alerts", h.ListDeviceAlerts)
	return app
}

func decodeBody(t *testing.T, resp io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp).Decode(&body))
	return body
}

func TestCreateAlert(t *testing.T) {
	dir := &fakeDirectory{}
	app := newTestApp(dir, &fakeEvaluator{})

	payload := `{"device_name":"D1","sensor_name":"Temp","condition":">","threshold":25,"color":"#ff0000","time_period":"1h"}`
	req := httptest.NewRequest("POST", "/api/alerts", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.Len(t, dir.created, 1)
	created := dir.created[0]
	assert.Equal(t, "D1", created.DeviceName)
	assert.Equal(t, "Temp", created.SensorName)
	assert.Equal(t, ">", created.Condition)
	assert.Equal(t, 25.0, created.Threshold)
	assert.Equal(t, "1h", created.PeriodOfTime)
	assert.False(t, created.Notify)
}

func TestCreateAlertValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing fields", `{"device_name":"D1"}`},
		{"unknown condition", `{"device_name":"D1","sensor_name":"Temp","condition":"!=","threshold":25,"color":"#f00","time_period":"1h"}`},
		{"unknown period", `{"device_name":"D1","sensor_name":"Temp","condition":">","threshold":25,"color":"#f00","time_period":"2d"}`},
		{"zero threshold still requires presence", `{"device_name":"D1","sensor_name":"Temp","condition":">","color":"#f00","time_period":"1h"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := &fakeDirectory{}
			app := newTestApp(dir, &fakeEvaluator{})

			req := httptest.NewRequest("POST", "/api/alerts", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Empty(t, dir.created)
		})
	}
}

func TestCreateAlertAcceptsZeroThreshold(t *testing.T) {
	dir := &fakeDirectory{}
	app := newTestApp(dir, &fakeEvaluator{})

	payload := `{"device_name":"D1","sensor_name":"Temp","condition":"<","threshold":0,"color":"#f00","time_period":"1h"}`
	req := httptest.NewRequest("POST", "/api/alerts", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Len(t, dir.created, 1)
	assert.Equal(t, 0.0, dir.created[0].Threshold)
}

func TestListDeviceAlerts(t *testing.T) {
	dir := &fakeDirectory{byDevice: map[string][]models.Alert{
		"D1": {{ID: 1, DeviceName: "D1", SensorName: "Temp"}},
	}}
	app := newTestApp(dir, &fakeEvaluator{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/devices/D1/alerts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	alerts, ok := body["alerts"].([]any)
	require.True(t, ok)
	assert.Len(t, alerts, 1)
}

func TestDeleteAlert(t *testing.T) {
	app := newTestApp(&fakeDirectory{deleteRows: 1}, &fakeEvaluator{})
	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/alerts/3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	app = newTestApp(&fakeDirectory{deleteRows: 0}, &fakeEvaluator{})
	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/alerts/999", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/alerts/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCheckCondition(t *testing.T) {
	eval := &fakeEvaluator{res: alerting.Result{IsMet: true, CurrentValue: 30}}
	app := newTestApp(&fakeDirectory{}, eval)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/alerts/1/condition", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["isMet"])
	assert.Equal(t, 30.0, body["currentValue"])
}

func TestCheckConditionErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", alerting.ErrAlertNotFound, fiber.StatusNotFound},
		{"bad stored operator", fmt.Errorf("%w: %q", alerting.ErrInvalidCondition, "!="), fiber.StatusUnprocessableEntity},
		{"store outage", fmt.Errorf("%w: timeout", alerting.ErrAggregationFailed), fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeDirectory{}, &fakeEvaluator{err: tt.err})
			resp, err := app.Test(httptest.NewRequest("GET", "/api/alerts/1/condition", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

// A failed notification still returns the evaluation outcome.
func TestCheckConditionDeliveryFailure(t *testing.T) {
	eval := &fakeEvaluator{
		res: alerting.Result{IsMet: true, CurrentValue: 30},
		err: fmt.Errorf("%w: smtp down", alerting.ErrNotificationFailed),
	}
	app := newTestApp(&fakeDirectory{}, eval)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/alerts/1/condition", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["isMet"])
	assert.Equal(t, 30.0, body["currentValue"])
	assert.Contains(t, body["delivery_error"], "smtp down")
}
