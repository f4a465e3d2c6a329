package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"bookingengine/internal/app/dto"
	availabilityapp "bookingengine/internal/app/handlers/availability"
	"bookingengine/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

// Check answers GET /units/:id/availability?check_in=&check_out=.
func (h AvailabilityHandler) Check(c *gin.Context) {
	in, out, err := parseDates(c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		writeError(c, err)
		return
	}
	query := availabilityapp.CheckAvailabilityQuery{UnitID: c.Param("id"), CheckIn: in, CheckOut: out}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, dto.Availability](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Occupancy(c *gin.Context) {
	from, to, err := parseDates(c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	query := availabilityapp.GetOccupancyQuery{UnitID: c.Param("id"), From: from, To: to}
	result, err := queries.Ask[availabilityapp.GetOccupancyQuery, dto.Occupancy](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
