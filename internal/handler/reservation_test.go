package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbistro/ordering-platform/internal/model"
	"github.com/openbistro/ordering-platform/internal/repository"
	"github.com/openbistro/ordering-platform/internal/service"
)

// stubReservationService lets each test pin the service outcome.
type stubReservationService struct {
	createRes model.Reservation
	createErr error
	lastInput service.CreateReservationInput
}

func (s *stubReservationService) Create(ctx context.Context, in service.CreateReservationInput) (model.Reservation, error) {
	s.lastInput = in
	return s.createRes, s.createErr
}

func (s *stubReservationService) AvailableTables(ctx context.Context, date, clock string, partySize int) ([]model.Table, error) {
	return []model.Table{{ID: 1, TableNumber: 5}}, nil
}

func (s *stubReservationService) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	return model.Reservation{}, repository.ErrReservationNotFound
}

func (s *stubReservationService) List(ctx context.Context, f repository.ListFilter) ([]model.Reservation, error) {
	return []model.Reservation{}, nil
}

func (s *stubReservationService) Update(ctx context.Context, id uint64, status, notes *string) (model.Reservation, error) {
	return model.Reservation{}, repository.ErrReservationNotFound
}

func (s *stubReservationService) Delete(ctx context.Context, id uint64) error {
	return repository.ErrReservationNotFound
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const validCreateBody = `{
	"customerName": "Ada",
	"customerPhone": "555-0100",
	"tableNumber": 5,
	"partySize": 4,
	"reservationDate": "2026-09-01",
	"reservationTime": "19:00"
}`

func TestCreateReservationReturns201(t *testing.T) {
	svc := &stubReservationService{createRes: model.Reservation{ID: 42, Status: model.ReservationPending}}
	h := NewReservationHandler(svc)

	c, rec := newContext(http.MethodPost, "/reservations", validCreateBody)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ada", svc.lastInput.CustomerName)
	assert.Equal(t, 5, svc.lastInput.TableNumber)
	assert.Equal(t, "2026-09-01", svc.lastInput.Date)

	var got model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(42), got.ID)
}

func TestCreateReservationValidatesFields(t *testing.T) {
	h := NewReservationHandler(&stubReservationService{})

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"customerPhone":"555","tableNumber":5,"partySize":2,"reservationDate":"2026-09-01","reservationTime":"19:00"}`, "customerName is required"},
		{"zero table", `{"customerName":"Ada","customerPhone":"555","tableNumber":0,"partySize":2,"reservationDate":"2026-09-01","reservationTime":"19:00"}`, "tableNumber must be a positive integer"},
		{"bad status", `{"customerName":"Ada","customerPhone":"555","tableNumber":5,"partySize":2,"reservationDate":"2026-09-01","reservationTime":"19:00","status":"eaten"}`, "invalid status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/reservations", tc.body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestCreateReservationMapsUnknownTableTo404(t *testing.T) {
	h := NewReservationHandler(&stubReservationService{createErr: repository.ErrTableNotFound})

	c, rec := newContext(http.MethodPost, "/reservations", validCreateBody)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReservationMapsConflictTo400(t *testing.T) {
	h := NewReservationHandler(&stubReservationService{createErr: repository.ErrTableUnavailable})

	c, rec := newContext(http.MethodPost, "/reservations", validCreateBody)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "table already reserved in this time slot")
}

func TestAvailableTablesRequiresParams(t *testing.T) {
	h := NewReservationHandler(&stubReservationService{})

	c, rec := newContext(http.MethodGet, "/reservations/available-tables?date=2026-09-01", "")
	require.NoError(t, h.AvailableTables(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "date, time, partySize required")
}

func TestAvailableTablesReturnsTables(t *testing.T) {
	h := NewReservationHandler(&stubReservationService{})

	c, rec := newContext(http.MethodGet, "/reservations/available-tables?date=2026-09-01&time=19:00&partySize=4", "")
	require.NoError(t, h.AvailableTables(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var tables []model.Table
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tables))
	require.Len(t, tables, 1)
	assert.Equal(t, 5, tables[0].TableNumber)
}

func TestGetReservationNotFound(t *testing.T) {
	h := NewReservationHandler(&stubReservationService{})

	c, rec := newContext(http.MethodGet, "/reservations/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetReservationRejectsBadID(t *testing.T) {
	h := NewReservationHandler(&stubReservationService{})

	c, rec := newContext(http.MethodGet, "/reservations/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
