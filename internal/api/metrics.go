package api

import (
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const ctxMetrics = "request_metrics"

type requestMetrics struct {
	logger        *log.Logger
	start         time.Time
	userID        uint
	itemsReturned int
	errorStage    string
}

func newRequestMetrics(logger *log.Logger) *requestMetrics {
	return &requestMetrics{
		logger:        logger,
		start:         time.Now(),
		itemsReturned: -1,
	}
}

// metricsFrom never returns nil so handlers can record without checks.
func metricsFrom(c echo.Context) *requestMetrics {
	if m, ok := c.Get(ctxMetrics).(*requestMetrics); ok {
		return m
	}
	return &requestMetrics{}
}

func (m *requestMetrics) SetUserID(id uint) {
	m.userID = id
}

func (m *requestMetrics) SetItemsReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.itemsReturned = count
}

func (m *requestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

func (m *requestMetrics) Log(c echo.Context, err error) {
	if m == nil || m.logger == nil {
		return
	}

	status := c.Response().Status
	fields := log.Fields{
		"route":      c.Path(),
		"method":     c.Request().Method,
		"status":     status,
		"total_ms":   durationToMillis(time.Since(m.start)),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}
	if m.userID != 0 {
		fields["user_id"] = m.userID
	}
	if m.itemsReturned >= 0 {
		fields["items_returned"] = m.itemsReturned
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	entry := m.logger.WithFields(fields)
	if status >= 500 {
		entry.Error("http.request.metrics")
		return
	}
	entry.Info("http.request.metrics")
}

// requestMetrics logs one line per request once the response is written.
func (s *Server) requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		m := newRequestMetrics(s.logger)
		c.Set(ctxMetrics, m)
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		m.Log(c, err)
		return nil
	}
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
