package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkudasheva/paper-broker/internal/adapter/in_memory"
	"github.com/mkudasheva/paper-broker/internal/api/dto"
	"github.com/mkudasheva/paper-broker/internal/core"
	"github.com/mkudasheva/paper-broker/internal/domain"
)

func newTestServer(t *testing.T) (*gin.Engine, *in_memory.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := in_memory.NewMemoryRepo()
	handler := core.NewSimHandler(repo, repo, in_memory.NewCache(), zap.NewNop())
	return NewHTTPServer(handler, 0).Router(), repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitOrderEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/orders", dto.SubmitOrderRequest{
		Symbol:    "BTCUSDT",
		Direction: dto.Long,
		Type:      dto.Limit,
		Price:     decimal.NewFromInt(50_000),
		Quantity:  decimal.NewFromInt(1),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.SubmitOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Order.ID)
	assert.Equal(t, string(domain.StatusSubmitted), resp.Order.Status)
	assert.NotNil(t, resp.Order.SubmissionTimestamp)
}

func TestSubmitOrderEndpointRejectsBadRequest(t *testing.T) {
	router, _ := newTestServer(t)

	// zero quantity
	w := doJSON(t, router, http.MethodPost, "/orders", map[string]any{
		"symbol": "BTCUSDT", "direction": "long", "type": "limit",
		"price": "50000", "quantity": "0",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing price on a limit order
	w = doJSON(t, router, http.MethodPost, "/orders", map[string]any{
		"symbol": "BTCUSDT", "direction": "long", "type": "limit", "quantity": "1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAndCancelEndpoints(t *testing.T) {
	router, repo := newTestServer(t)

	now := time.Now()
	repo.SeedCandles("BTCUSDT", 1, []domain.Candle{{
		Symbol:          "BTCUSDT",
		IntervalMinutes: 1,
		OpenTimestamp:   now.Add(-30 * time.Second),
		CloseTimestamp:  now.Add(30 * time.Second),
		Low:             decimal.NewFromInt(49_000),
		High:            decimal.NewFromInt(51_000),
	}})

	w := doJSON(t, router, http.MethodPost, "/orders", dto.SubmitOrderRequest{
		Symbol:    "BTCUSDT",
		Direction: dto.Long,
		Type:      dto.Limit,
		Price:     decimal.NewFromInt(50_000),
		Quantity:  decimal.NewFromInt(1),
	})
	require.Equal(t, http.StatusOK, w.Code)
	var submitted dto.SubmitOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitted))
	id := submitted.Order.ID

	w = doJSON(t, router, http.MethodPost, "/orders/"+id+"/check", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var checked dto.CheckOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checked))
	require.NotNil(t, checked.Order)
	assert.True(t, checked.Filled)
	assert.Equal(t, string(domain.StatusFilled), checked.Order.Status)
	require.Len(t, checked.Order.Trades, 1)

	// terminal order: cancel conflicts
	w = doJSON(t, router, http.MethodPost, "/orders/"+id+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelAllAndActiveEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	for i := 0; i < 2; i++ {
		w := doJSON(t, router, http.MethodPost, "/orders", dto.SubmitOrderRequest{
			Symbol:    "BTCUSDT",
			Direction: dto.Short,
			Type:      dto.Limit,
			Price:     decimal.NewFromInt(60_000),
			Quantity:  decimal.NewFromInt(1),
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/orders/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active dto.ActiveOrdersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	assert.Len(t, active.Orders, 2)

	w = doJSON(t, router, http.MethodPost, "/orders/cancel_all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cancelAll dto.CancelAllResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelAll))
	assert.Len(t, cancelAll.Cancelled, 2)

	w = doJSON(t, router, http.MethodGet, "/orders/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	active = dto.ActiveOrdersResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	assert.Empty(t, active.Orders)
}

func TestGetOrderNotFound(t *testing.T) {
	router, _ := newTestServer(t)
	w := doJSON(t, router, http.MethodGet, "/orders/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
