package routes

import (
	"servebook/handlers"
	"servebook/middleware"
	"servebook/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints for the booking engine.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler, nh *handlers.NotificationHandler) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, utils.GetHealthStatus())
	})

	api := r.Group("/api")
	api.Use(middleware.ActorAuthMiddleware())

	bookings := api.Group("/bookings")
	{
		bookings.GET("/availability", bh.CheckAvailabilityHandler)
		bookings.POST("", bh.CreateBookingHandler)
		bookings.GET("/feed", bh.FeedHandler)
		bookings.GET("/provider/:providerId/day/:date", bh.ListProviderDayHandler)
		bookings.GET("/:id", bh.GetBookingHandler)
		bookings.PATCH("/:id/status", bh.TransitionBookingHandler)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", nh.ListNotificationsHandler)
		notifications.POST("/read-all", nh.MarkAllReadHandler)
		notifications.POST("/:id/read", nh.MarkReadHandler)
	}
}
