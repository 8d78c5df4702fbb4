package flights

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flightly/internal/shared/utils/response"
)

type Controller interface {
	ListFlights(c *gin.Context)
	GetFlight(c *gin.Context)
	CreateFlight(c *gin.Context)
	UpdateFlight(c *gin.Context)
	DeleteFlight(c *gin.Context)
	AddPassengers(c *gin.Context)
	ListPassengers(c *gin.Context)
	GetPassenger(c *gin.Context)
	UpdatePassenger(c *gin.Context)
	RemovePassenger(c *gin.Context)
	GetOverbookedPassengers(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// handleServiceError maps the flights error taxonomy onto protocol responses:
// not-found conditions to 404, duplicate passengers to 409, the rest to 500.
func (ctrl *controller) handleServiceError(c *gin.Context, err error) {
	flightID := c.Param("flightId")
	passengerID := c.Param("passengerId")

	var dup *DuplicatePassengerError
	switch {
	case errors.As(err, &dup):
		response.RespondJSON(c, "error", http.StatusConflict, "Duplicate passenger found", nil, gin.H{"passengerIds": dup.PassengerIDs})
	case errors.Is(err, ErrPassengerNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, fmt.Sprintf("Passenger %s not found in flight %s", passengerID, flightID), nil, nil)
	case errors.Is(err, ErrFlightNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, fmt.Sprintf("Flight %s not found", flightID), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}

func (ctrl *controller) flightID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("flightId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid flight ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) passengerID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("passengerId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid passenger ID", nil, err.Error())
		return 0, false
	}
	return id, true
}

func (ctrl *controller) ListFlights(c *gin.Context) {
	var query FlightListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	flights, err := ctrl.service.ListFlights(c.Request.Context(), query)
	if err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flights retrieved successfully", flights, nil)
}

func (ctrl *controller) GetFlight(c *gin.Context) {
	id, ok := ctrl.flightID(c)
	if !ok {
		return
	}

	flight, err := ctrl.service.GetFlight(c.Request.Context(), id)
	if err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flight retrieved successfully", flight, nil)
}

func (ctrl *controller) CreateFlight(c *gin.Context) {
	var req CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	flight, err := ctrl.service.CreateFlight(c.Request.Context(), req)
	if err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Flight created successfully", flight, nil)
}

func (ctrl *controller) UpdateFlight(c *gin.Context) {
	id, ok := ctrl.flightID(c)
	if !ok {
		return
	}

	var req UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	flight, err := ctrl.service.UpdateFlight(c.Request.Context(), id, req)
	if err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flight updated successfully", flight, nil)
}

func (ctrl *controller) DeleteFlight(c *gin.Context) {
	id, ok := ctrl.flightID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteFlight(c.Request.Context(), id); err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (ctrl *controller) AddPassengers(c *gin.Context) {
	id, ok := ctrl.flightID(c)
	if !ok {
		return
	}

	var req AddPassengersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	passengers, err := ctrl.service.AddPassengers(c.Request.Context(), id, req.Passengers)
	if err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Passengers added successfully", passengers, nil)
}

func (ctrl *controller) ListPassengers(c *gin.Context) {
	id, ok := ctrl.flightID(c)
	if !ok {
		return
	}

	var filter PassengerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	passengers, err := ctrl.service.ListPassengers(c.Request.Context(), id, filter)
	if err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Passengers retrieved successfully", passengers, nil)
}

func (ctrl *controller) GetPassenger(c *gin.Context) {
	id, ok := ctrl.flightID(c)
	if !ok {
		return
	}
	passengerID, ok := ctrl.passengerID(c)
	if !ok {
		return
	}

	passenger, err := ctrl.service.GetPassenger(c.Request.Context(), id, passengerID)
	if err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Passenger retrieved successfully", passenger, nil)
}

func (ctrl *controller) UpdatePassenger(c *gin.Context) {
	id, ok := ctrl.flightID(c)
	if !ok {
		return
	}
	passengerID, ok := ctrl.passengerID(c)
	if !ok {
		return
	}

	var req UpdatePassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	passenger, err := ctrl.service.UpdatePassenger(c.Request.Context(), id, passengerID, req)
	if err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Passenger updated successfully", passenger, nil)
}

func (ctrl *controller) RemovePassenger(c *gin.Context) {
	id, ok := ctrl.flightID(c)
	if !ok {
		return
	}
	passengerID, ok := ctrl.passengerID(c)
	if !ok {
		return
	}

	if err := ctrl.service.RemovePassengers(c.Request.Context(), id, []int{passengerID}); err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (ctrl *controller) GetOverbookedPassengers(c *gin.Context) {
	id, ok := ctrl.flightID(c)
	if !ok {
		return
	}

	passengers, err := ctrl.service.GetOverbookedPassengers(c.Request.Context(), id)
	if err != nil {
		ctrl.handleServiceError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Overbooked passengers retrieved successfully", passengers, nil)
}
