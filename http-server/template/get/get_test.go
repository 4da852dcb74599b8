package get

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

type MockTemplateJSON struct {
	mock.Mock
}

func (m *MockTemplateJSON) GetTemplateByCode(ctx context.Context, code string) (*storage.Template, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Template), args.Error(1)
}

func (m *MockTemplateJSON) GetAllTemplates(ctx context.Context) ([]*storage.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Template), args.Error(1)
}

func TestGetTemplatesByCode_Success(t *testing.T) {
	mockStorage := new(MockTemplateJSON)

	gridID := int64(3)
	fullness := 2.5
	template := &storage.Template{
		ID:            56,
		Code:          "pinch",
		Name:          "Pinch pleat",
		Category:      "curtain",
		PricingMethod: calc.MethodPricingGrid,
		PricingGridID: &gridID,
		FullnessRatio: &fullness,
	}

	mockStorage.On("GetTemplateByCode", mock.Anything, "pinch").Return(template, nil)

	handler := GetTemplatesByCode(slog.Default(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/api/template?code=pinch", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ResponseForm
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	assert.NoError(t, err)

	assert.Equal(t, int64(56), resp.ID)
	assert.Equal(t, "pinch", resp.Code)
	assert.Equal(t, calc.MethodPricingGrid, resp.PricingMethod)
	assert.Equal(t, int64(3), *resp.PricingGridID)
	assert.Equal(t, 2.5, *resp.FullnessRatio)
	// no hems stored: defaults are returned
	assert.Equal(t, calc.DefaultHems(), resp.Hems)

	mockStorage.AssertExpectations(t)
}

func TestGetTemplatesByCode_MissingCode(t *testing.T) {
	mockStorage := new(MockTemplateJSON)
	handler := GetTemplatesByCode(slog.Default(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/api/template", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Missing required query parameter 'code'")

	mockStorage.AssertNotCalled(t, "GetTemplateByCode", mock.Anything, mock.Anything)
}

func TestGetTemplatesByCode_NotFound(t *testing.T) {
	mockStorage := new(MockTemplateJSON)

	mockStorage.On("GetTemplateByCode", mock.Anything, "UNKNOWN").
		Return(nil, fmt.Errorf("storage.mysql.GetTemplateByCode: %w", storage.ErrNotFound))

	handler := GetTemplatesByCode(slog.Default(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/api/template?code=UNKNOWN", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Template not found")

	mockStorage.AssertExpectations(t)
}

func TestGetTemplatesByCode_DBError(t *testing.T) {
	mockStorage := new(MockTemplateJSON)

	mockStorage.On("GetTemplateByCode", mock.Anything, "pinch").
		Return(nil, errors.New("connection timeout"))

	handler := GetTemplatesByCode(slog.Default(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/api/template?code=pinch", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal server error")

	mockStorage.AssertExpectations(t)
}

func TestGetAllTemplates_Success(t *testing.T) {
	mockStorage := new(MockTemplateJSON)

	templates := []*storage.Template{
		{ID: 1, Code: "pinch", Name: "Pinch pleat", Category: "curtain"},
		{ID: 2, Code: "roman", Name: "Roman blind", Category: "blind"},
	}

	mockStorage.On("GetAllTemplates", mock.Anything).Return(templates, nil)

	handler := GetAllTemplates(slog.Default(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ResponseAllForm
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	assert.NoError(t, err)

	assert.Len(t, resp.Templates, 2)
	assert.Equal(t, "pinch", resp.Templates[0].Code)
	assert.Equal(t, "roman", resp.Templates[1].Code)

	mockStorage.AssertExpectations(t)
}

func TestGetAllTemplates_Empty(t *testing.T) {
	mockStorage := new(MockTemplateJSON)
	mockStorage.On("GetAllTemplates", mock.Anything).Return(nil, nil)

	handler := GetAllTemplates(slog.Default(), mockStorage)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/templates", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"templates":[]}`, rr.Body.String())
}

func TestGetAllTemplates_DBError(t *testing.T) {
	mockStorage := new(MockTemplateJSON)

	mockStorage.On("GetAllTemplates", mock.Anything).Return(nil, errors.New("connection timeout"))

	handler := GetAllTemplates(slog.Default(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal server error")

	mockStorage.AssertExpectations(t)
}
