package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"weather-relay/internal/domain/entity"
	"weather-relay/internal/domain/model"
	"weather-relay/internal/domain/usecase/relay"
	"weather-relay/pkg/log"
)

type RelayController struct {
	api     *echo.Group
	useCase relay.UseCase
}

func NewRelayController(api *echo.Group, useCase relay.UseCase) *RelayController {
	return &RelayController{api: api, useCase: useCase}
}

// InitRelayRoutes initializes relay routes
func (controller *RelayController) InitRelayRoutes() {
	controller.api.POST("/weather/fetch", controller.FetchWeather)
}

// FetchWeather godoc
// @Summary Request a forecast
// @Description Dispatches one forecast call; the result is delivered as PIRATE_WEATHER_DATA on the configured transport
// @Tags weather
// @Accept json
// @Produce json
// @Param request body entity.FetchRequest true "Fetch request"
// @Success 202 {object} model.FetchAccepted "Request dispatched"
// @Failure 400 {object} model.ErrorResponse "Malformed request"
// @Router /weather/fetch [post]
func (controller *RelayController) FetchWeather(c echo.Context) error {
	var req entity.FetchRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
	}

	if err := validateOptionalFields(req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	log.Debug("Dispatching fetch request", zap.String("request_id", requestID), zap.Any("instance_id", req.InstanceID))
	controller.useCase.HandleFetchRequest(c.Request().Context(), req)

	return c.JSON(http.StatusAccepted, model.FetchAccepted{InstanceID: req.InstanceID, RequestID: requestID})
}

// validateOptionalFields rejects units and languages the provider would answer with 400
func validateOptionalFields(req entity.FetchRequest) error {
	if !req.Units.IsValid() {
		return fmt.Errorf("invalid units %q: expected one of ca, uk, us, si", req.Units)
	}
	if req.Language != "" {
		if _, err := language.Parse(req.Language); err != nil {
			return fmt.Errorf("invalid language %q: %v", req.Language, err)
		}
	}
	return nil
}
