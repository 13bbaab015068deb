package wire

import (
	"event-ticketing/internal/adaptor"
	"event-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, log *zap.Logger) {
	// ==================== PROTECTED ROUTES (require identity) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/bookings - Create new booking
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings/{orderID} - Booking detail by order ID
		r.Get("/api/bookings/{orderID}", bookingHandler.GetBookingByOrderID)

		// PATCH /api/bookings/{id} - Cancel own booking
		r.Patch("/api/bookings/{id}", bookingHandler.CancelBooking)

		// GET /api/user/bookings - View booking history (user's own bookings)
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/events", func(r chi.Router) {
		// Require both identity AND admin role
		r.Use(middleware.Identity(log))
		r.Use(middleware.Admin(log))

		// POST /api/admin/events/{id}/cancel-bookings - Bulk cancel on event cancellation
		r.Post("/{id}/cancel-bookings", bookingHandler.CancelEventBookings)

		// GET /api/admin/events/{id}/revenue - Settlement report per event
		r.Get("/{id}/revenue", bookingHandler.GetEventRevenue)
	})
}
