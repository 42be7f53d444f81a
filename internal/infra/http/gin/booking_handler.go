package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bikely/internal/app/commands"
	bookingapp "bikely/internal/app/handlers/booking"
	domainbikes "bikely/internal/domain/bikes"
	domainbooking "bikely/internal/domain/booking"
	domaincalendar "bikely/internal/domain/calendar"
	"bikely/internal/domain/dates"
)

type BookingHandler struct {
	Commands commands.Bus
}

type createBookingRequest struct {
	BikeID   string `json:"bike_id"`
	DateFrom string `json:"date_from"`
	DateEnd  string `json:"date_end"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.RequestBookingCommand{
		CommandID:       generateCommandID(),
		BikeID:          req.BikeID,
		RenterID:        user.ID,
		DateFrom:        req.DateFrom,
		DateEnd:         req.DateEnd,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

func (h BookingHandler) Confirm(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := bookingapp.ConfirmBookingCommand{
		BookingID:       c.Param("id"),
		OwnerID:         user.ID,
		OwnerAccountID:  user.AccountID,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.ConfirmBookingCommand, *bookingapp.ConfirmBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type declineBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Decline(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req declineBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.DeclineBookingCommand{
		BookingID:       c.Param("id"),
		OwnerID:         user.ID,
		Reason:          req.Reason,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.DeclineBookingCommand, *bookingapp.DeclineBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) PickUp(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := bookingapp.PickUpBookingCommand{
		BookingID: c.Param("id"),
		RenterID:  user.ID,
	}
	result, err := commands.Dispatch[bookingapp.PickUpBookingCommand, *bookingapp.PickUpBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Return(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := bookingapp.ReturnBookingCommand{
		BookingID: c.Param("id"),
		OwnerID:   user.ID,
	}
	result, err := commands.Dispatch[bookingapp.ReturnBookingCommand, *bookingapp.ReturnBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainbikes.ErrBikeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrNotYourBooking),
		errors.Is(err, bookingapp.ErrOwnBike):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrPaymentSetupRequired):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrInvalidTransition),
		errors.Is(err, domaincalendar.ErrDateBlocked),
		errors.Is(err, domaincalendar.ErrOverlappingRange):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, dates.ErrUnparsableDate),
		errors.Is(err, dates.ErrInvalidRange),
		errors.Is(err, domaincalendar.ErrIncompleteRange),
		errors.Is(err, domainbooking.ErrDeclineReasonRequired),
		errors.Is(err, bookingapp.ErrStartInPast),
		errors.Is(err, bookingapp.ErrBikeNotRentable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
