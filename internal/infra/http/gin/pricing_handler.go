package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"bookingengine/internal/app/dto"
	pricingapp "bookingengine/internal/app/handlers/pricing"
	"bookingengine/internal/app/handlers/support"
	"bookingengine/internal/app/queries"
)

type PricingHandler struct {
	Queries queries.Bus
}

type quoteRequest struct {
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	Guests           int    `json:"guests"`
	RequireAvailable bool   `json:"require_available"`
}

func (h PricingHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, support.Invalid("malformed body: %v", err))
		return
	}
	in, out, err := parseDates(req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(c, err)
		return
	}
	query := pricingapp.QuoteStayQuery{
		UnitID:           c.Param("id"),
		CheckIn:          in,
		CheckOut:         out,
		Guests:           req.Guests,
		RequireAvailable: req.RequireAvailable,
	}
	result, err := queries.Ask[pricingapp.QuoteStayQuery, dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ PricingHTTP = PricingHandler{}
