package routes

import (
	"encoding/json"
	"net/http"

	"github.com/dwellsight/backend/internal/queue"
	"github.com/dwellsight/backend/internal/server/middleware"
	"github.com/dwellsight/backend/internal/util"
	"github.com/dwellsight/backend/pkg/common"
	"github.com/dwellsight/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// CreateDiscoveryHandler enqueues a discovery run for a bounding box.
// The run executes on the worker; its counts are log-only there, so the
// response carries just the correlation ID for tracing.
func CreateDiscoveryHandler(c echo.Context) error {
	type createDiscoveryBody struct {
		MinLat   float64 `json:"min_lat" validate:"required,min=-90,max=90"`
		MaxLat   float64 `json:"max_lat" validate:"required,min=-90,max=90"`
		MinLng   float64 `json:"min_lng" validate:"required,min=-180,max=180"`
		MaxLng   float64 `json:"max_lng" validate:"required,min=-180,max=180"`
		MinUnits int     `json:"min_units" validate:"omitempty,min=1"`
	}

	type createDiscoveryResponse struct {
		Message       string `json:"message"`
		CorrelationID string `json:"correlation_id,omitempty"`
	}

	data := new(createDiscoveryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createDiscoveryResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createDiscoveryResponse{
			Message: "Invalid request body",
		})
	}
	if data.MinLat >= data.MaxLat || data.MinLng >= data.MaxLng {
		return c.JSON(http.StatusBadRequest, createDiscoveryResponse{
			Message: "Bounding box is empty",
		})
	}

	msg := queue.DiscoveryMsg{
		CorrelationID: util.NewCorrelationID(),
		Bounds: common.Bounds{
			MinLat: data.MinLat,
			MaxLat: data.MaxLat,
			MinLng: data.MinLng,
			MaxLng: data.MaxLng,
		},
		MinUnits: data.MinUnits,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createDiscoveryResponse{
			Message: "Internal server error",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.DiscoveryQueue, payload); err != nil {
		logger.Error("Failed to enqueue discovery job", "err", err)
		return c.JSON(http.StatusInternalServerError, createDiscoveryResponse{
			Message: "Internal server error",
		})
	}

	logger.Info("Enqueued discovery job", "correlation_id", msg.CorrelationID)
	return c.JSON(http.StatusAccepted, createDiscoveryResponse{
		Message:       "Discovery run queued",
		CorrelationID: msg.CorrelationID,
	})
}
