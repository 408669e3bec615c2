package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/service"
	"github.com/presupuesta/presupuesta-backend/internal/testutil"
)

func newIncomeHandler() *IncomeHandler {
	incomeService := service.NewIncomeService(testutil.NewMockIncomeRepository())
	return NewIncomeHandler(incomeService)
}

func TestCreateIncome_LaborContractDeductions(t *testing.T) {
	e := echo.New()
	handler := newIncomeHandler()

	body := `{
		"description": "Monthly salary",
		"grossAmount": "1000000",
		"incomeType": "labor_contract",
		"receivedDate": "2024-06-01"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/incomes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, testUser())

	if err := handler.CreateIncome(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var income domain.IncomeRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &income); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	// 8% social security on full gross
	if income.NetAmount.String() != "920000" {
		t.Errorf("Expected net amount 920000, got %s", income.NetAmount)
	}
}

func TestCreateIncome_InvalidType(t *testing.T) {
	e := echo.New()
	handler := newIncomeHandler()

	body := `{"grossAmount": "1000000", "incomeType": "freelance", "receivedDate": "2024-06-01"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/incomes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, testUser())

	if err := handler.CreateIncome(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestPreviewDeductions_ServiceContract(t *testing.T) {
	e := echo.New()
	handler := newIncomeHandler()

	body := `{"grossAmount": "1000000", "incomeType": "service_contract"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/incomes/preview", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, testUser())

	if err := handler.PreviewDeductions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var breakdown domain.DeductionBreakdown
	if err := json.Unmarshal(rec.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	// Base 400000: health 12.5% = 50000, pension 16% = 64000
	if breakdown.Health.String() != "50000" {
		t.Errorf("Expected health 50000, got %s", breakdown.Health)
	}
	if breakdown.Pension.String() != "64000" {
		t.Errorf("Expected pension 64000, got %s", breakdown.Pension)
	}
	if breakdown.NetAmount.String() != "886000" {
		t.Errorf("Expected net 886000, got %s", breakdown.NetAmount)
	}
}
