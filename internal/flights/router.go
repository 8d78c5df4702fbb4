package flights

import (
	"github.com/gin-gonic/gin"
)

func SetupFlightRoutes(router *gin.RouterGroup, controller Controller) {
	flights := router.Group("/flights")
	{
		flights.GET("", controller.ListFlights)
		flights.POST("", controller.CreateFlight)
		flights.GET("/:flightId", controller.GetFlight)
		flights.PUT("/:flightId", controller.UpdateFlight)
		flights.DELETE("/:flightId", controller.DeleteFlight)

		flights.POST("/:flightId/passengers", controller.AddPassengers)
		flights.GET("/:flightId/passengers", controller.ListPassengers)
		flights.GET("/:flightId/passengers/:passengerId", controller.GetPassenger)
		flights.PUT("/:flightId/passengers/:passengerId", controller.UpdatePassenger)
		flights.DELETE("/:flightId/passengers/:passengerId", controller.RemovePassenger)

		flights.GET("/:flightId/overbooked-passengers", controller.GetOverbookedPassengers)
	}
}
