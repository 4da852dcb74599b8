package estimate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"drapecost/internal/calc"
	"drapecost/internal/service"
	"drapecost/internal/storage"
)

type MockEstimator struct {
	mock.Mock
}

func (m *MockEstimator) Estimate(ctx context.Context, req service.EstimateRequest) (*service.EstimateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EstimateResponse), args.Error(1)
}

func postEstimate(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/estimate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestEstimate_Success(t *testing.T) {
	mockCalc := new(MockEstimator)

	mockCalc.On("Estimate", mock.Anything, mock.MatchedBy(func(req service.EstimateRequest) bool {
		return req.TemplateCode == "pinch" &&
			req.Measurement.RailWidth == "1500mm" &&
			req.Measurement.Drop == "200" &&
			req.FabricID == "linen" &&
			req.Leftover != nil && req.Leftover.PieceID == "lp-1" && req.Leftover.Confirmed
	})).Return(&service.EstimateResponse{
		Status:      service.StatusOK,
		Currency:    "USD",
		Measurement: &calc.Measurement{RailWidth: 150, Drop: 200, Quantity: 1},
		Result: &calc.Result{
			LaborCost: 25,
			Subtotal:  25,
			Total:     25,
			Quantity:  1,
			Method:    calc.MethodPricingGrid,

			ManufacturingPriced: true,
			LeftoverUsed:        "lp-1",
		},
		Suggestions: []calc.LeftoverPiece{},
	}, nil)

	handler := Estimate(slog.Default(), mockCalc)

	rr := postEstimate(handler, `{
		"template": "pinch",
		"measurement": {"rail_width": "1500mm", "drop": "200", "quantity": "1"},
		"fabric_id": "linen",
		"leftover": {"piece_id": "lp-1", "confirmed": true}
	}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp service.EstimateResponse
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	require.NoError(t, err)

	assert.Equal(t, service.StatusOK, resp.Status)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 25.0, resp.Result.Total)
	assert.Equal(t, "lp-1", resp.Result.LeftoverUsed)

	mockCalc.AssertExpectations(t)
}

func TestEstimate_InsufficientDataIsOK(t *testing.T) {
	mockCalc := new(MockEstimator)
	mockCalc.On("Estimate", mock.Anything, mock.Anything).Return(&service.EstimateResponse{
		Status:      service.StatusInsufficientData,
		Suggestions: []calc.LeftoverPiece{},
	}, nil)

	handler := Estimate(slog.Default(), mockCalc)

	rr := postEstimate(handler, `{"measurement": {"rail_width": "150"}}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"insufficient_data"`)
	assert.Contains(t, rr.Body.String(), `"result":null`)
}

func TestEstimate_InvalidJSON(t *testing.T) {
	mockCalc := new(MockEstimator)
	handler := Estimate(slog.Default(), mockCalc)

	rr := postEstimate(handler, `{`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid JSON")
	mockCalc.AssertNotCalled(t, "Estimate", mock.Anything, mock.Anything)
}

func TestEstimate_NotFound(t *testing.T) {
	mockCalc := new(MockEstimator)
	mockCalc.On("Estimate", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("service.estimate.Estimate: template: %w", storage.ErrNotFound))

	handler := Estimate(slog.Default(), mockCalc)

	rr := postEstimate(handler, `{"template": "ghost"}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEstimate_ServiceError(t *testing.T) {
	mockCalc := new(MockEstimator)
	mockCalc.On("Estimate", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	handler := Estimate(slog.Default(), mockCalc)

	rr := postEstimate(handler, `{"template": "pinch"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal error")
	mockCalc.AssertExpectations(t)
}

func TestEstimate_ContextCanceled(t *testing.T) {
	mockCalc := new(MockEstimator)

	mockCalc.On("Estimate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return(nil, context.Canceled)

	handler := Estimate(slog.Default(), mockCalc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/estimate", strings.NewReader(`{"template": "pinch"}`))
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	mockCalc.AssertExpectations(t)
}
