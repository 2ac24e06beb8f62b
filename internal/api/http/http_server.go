package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkudasheva/paper-broker/internal/api/dto"
	"github.com/mkudasheva/paper-broker/internal/core"
	"github.com/mkudasheva/paper-broker/internal/domain"
	"github.com/mkudasheva/paper-broker/internal/middleware"
)

type HTTPServer struct {
	handler   *core.SimHandler
	rateLimit time.Duration
}

func NewHTTPServer(handler *core.SimHandler, rateLimit time.Duration) *HTTPServer {
	return &HTTPServer{handler: handler, rateLimit: rateLimit}
}

func (s *HTTPServer) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *HTTPServer) Router() *gin.Engine {
	r := gin.Default()

	if s.rateLimit > 0 {
		rl := middleware.NewRateLimiter(s.rateLimit)
		r.Use(rl.Middleware())
	}

	r.POST("/orders", s.submitOrder)
	r.POST("/orders/:id/check", s.checkOrder)
	r.POST("/orders/:id/cancel", s.cancelOrder)
	r.POST("/orders/cancel_all", s.cancelAllOrders)
	r.GET("/orders/active", s.getActiveOrders)
	r.GET("/orders/:id", s.getOrder)

	return r
}

func (s *HTTPServer) submitOrder(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instrument := domain.Instrument{Type: domain.InstrumentSpot, Symbol: req.Symbol}
	unit := domain.QuantityUnit(req.Unit)
	if req.Unit == "" {
		unit = domain.UnitBase
	}
	quantity := domain.Quantity{Amount: req.Quantity, Unit: unit}

	var (
		o   *domain.Order
		err error
	)
	switch req.Type {
	case dto.Market:
		o, err = domain.NewMarketOrder(instrument, quantity, domain.Direction(req.Direction))
	case dto.Limit:
		o, err = domain.NewLimitOrder(instrument, req.Price, quantity, domain.Direction(req.Direction))
	default:
		err = domain.ErrUnsupportedOrderType
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submitted, err := s.handler.SubmitOrder(c.Request.Context(), o)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.SubmitOrderResponse{Order: convertOrder(submitted)})
}

func (s *HTTPServer) checkOrder(c *gin.Context) {
	o, err := s.handler.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	checked, err := s.handler.CheckOrder(c.Request.Context(), o)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if checked == nil {
		c.JSON(http.StatusOK, dto.CheckOrderResponse{})
		return
	}
	out := convertOrder(checked)
	c.JSON(http.StatusOK, dto.CheckOrderResponse{
		Order:  &out,
		Filled: checked.Status == domain.StatusFilled,
	})
}

func (s *HTTPServer) cancelOrder(c *gin.Context) {
	o, err := s.handler.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	cancelled, err := s.handler.CancelOrder(c.Request.Context(), o)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.CancelOrderResponse{Order: convertOrder(cancelled)})
}

func (s *HTTPServer) cancelAllOrders(c *gin.Context) {
	cancelled, err := s.handler.CancelAllOrders(c.Request.Context())
	resp := dto.CancelAllResponse{Cancelled: convertOrders(cancelled)}
	if err != nil {
		// partial failures: report them without discarding the cancelled set
		resp.Message = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) getActiveOrders(c *gin.Context) {
	orders, err := s.handler.GetActiveOrders(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ActiveOrdersResponse{Orders: convertOrders(orders)})
}

func (s *HTTPServer) getOrder(c *gin.Context) {
	o, err := s.handler.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.GetOrderResponse{Order: convertOrder(o)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidOrderSpec),
		errors.Is(err, domain.ErrUnsupportedOrderType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidStateTransition),
		errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func convertOrder(o *domain.Order) dto.Order {
	return dto.Order{
		ID:                    o.ID,
		ExternalID:            o.ExternalID,
		InstrumentType:        string(o.InstrumentType),
		Symbol:                o.Symbol,
		Direction:             dto.Direction(o.Direction),
		Type:                  dto.OrderType(o.Type),
		Status:                string(o.Status),
		Price1:                o.Price1,
		Quantity:              o.Quantity.Amount,
		Unit:                  dto.QuantityUnit(o.Quantity.Unit),
		TimeInForce:           string(o.TimeInForce),
		SubmissionTimestamp:   o.SubmissionTimestamp,
		ExecutionTimestamp:    o.ExecutionTimestamp,
		CancellationTimestamp: o.CancellationTimestamp,
		Trades:                convertTrades(o.Trades),
		CreatedAt:             o.CreatedAt,
	}
}

func convertOrders(orders []*domain.Order) []dto.Order {
	res := make([]dto.Order, len(orders))
	for i, o := range orders {
		res[i] = convertOrder(o)
	}
	return res
}

func convertTrades(trades []domain.Trade) []dto.Trade {
	if len(trades) == 0 {
		return nil
	}
	res := make([]dto.Trade, len(trades))
	for i, t := range trades {
		res[i] = dto.Trade{Price: t.Price, Timestamp: t.Timestamp}
	}
	return res
}
