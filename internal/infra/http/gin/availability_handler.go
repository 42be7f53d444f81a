package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"bikely/internal/app/dto"
	availabilityapp "bikely/internal/app/handlers/availability"
	"bikely/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

// Calendar returns the blocked-day set and marking annotations for one
// bike. An optional in-progress selection is passed through query params
// so clients can render the start/middle/end caps server-side.
func (h AvailabilityHandler) Calendar(c *gin.Context) {
	query := availabilityapp.GetCalendarQuery{
		BikeID:         c.Param("id"),
		SelectionStart: c.Query("selection_start"),
		SelectionEnd:   c.Query("selection_end"),
	}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
