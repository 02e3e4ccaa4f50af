package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventaris_admin/gateway"
	"inventaris_admin/loan"
	"inventaris_admin/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestFail_StatusMapping(t *testing.T) {
	s := &Srv{Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	upstream := &gateway.Error{Op: "create loan", Kind: gateway.KindRejected, Status: 409, Message: "stok tidak cukup"}

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"missing field", &loan.MissingFieldError{Field: loan.FieldQuantity}, http.StatusBadRequest},
		{"invalid status", fmt.Errorf("%w: x", loan.ErrInvalidStatus), http.StatusBadRequest},
		{"unknown loan", loan.ErrUnknownLoan, http.StatusNotFound},
		{"credentials", fmt.Errorf("%w: nope", session.ErrInvalidCredentials), http.StatusUnauthorized},
		{"unauthenticated", session.ErrUnauthenticated, http.StatusUnauthorized},
		{"no session", session.ErrNoSession, http.StatusUnauthorized},
		{"malformed token", session.ErrMalformedToken, http.StatusBadGateway},
		{"rejected", fmt.Errorf("%w: %w", loan.ErrGatewayRejected, upstream), http.StatusUnprocessableEntity},
		{"unavailable", loan.ErrGatewayUnavailable, http.StatusServiceUnavailable},
		{"raw gateway 5xx", &gateway.Error{Kind: gateway.KindUnavailable, Status: 502}, http.StatusServiceUnavailable},
		{"raw gateway 401", &gateway.Error{Kind: gateway.KindUnauthorized, Status: 401}, http.StatusUnauthorized},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			s.fail(c, tc.err)
			require.Equal(t, tc.code, w.Code)
		})
	}
}

func TestFail_MissingFieldBody(t *testing.T) {
	s := &Srv{Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	s.fail(c, &loan.MissingFieldError{Field: loan.FieldPlannedReturnDate, Reason: "must not be before borrowedDate"})

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "plannedReturnDate", body["field"])
	require.Contains(t, body["error"], "plannedReturnDate")
}

func TestFail_PassesUpstreamMessage(t *testing.T) {
	s := &Srv{Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	up := &gateway.Error{Kind: gateway.KindRejected, Status: 422, Message: "stok tidak cukup"}
	s.fail(c, fmt.Errorf("%w: %w", loan.ErrGatewayRejected, up))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "stok tidak cukup", body["message"])
}

func TestPaging_Window(t *testing.T) {
	from, to, no := paging{Page: 1, Size: 20}.window(3)
	require.Equal(t, []int{0, 3, 1}, []int{from, to, no})

	from, to, no = paging{Page: 2, Size: 2}.window(5)
	require.Equal(t, []int{2, 4, 3}, []int{from, to, no})

	from, to, _ = paging{Page: 9, Size: 2}.window(5)
	require.Equal(t, from, to)
}

func TestPagingFrom_Clamps(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=0&size=1000", nil)
	require.Equal(t, paging{Page: 1, Size: maxPageSize}, pagingFrom(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, paging{Page: 1, Size: defaultPageSize}, pagingFrom(c))
}
