package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"bookingengine/internal/app/dto"
	searchapp "bookingengine/internal/app/handlers/search"
	"bookingengine/internal/app/handlers/support"
	"bookingengine/internal/app/queries"
)

type SearchHandler struct {
	Queries queries.Bus
}

type searchRequest struct {
	CheckIn  string   `json:"check_in"`
	CheckOut string   `json:"check_out"`
	Guests   int      `json:"guests"`
	UnitIDs  []string `json:"unit_ids"`
	Limit    int      `json:"limit"`
}

func (h SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, support.Invalid("malformed body: %v", err))
		return
	}
	in, out, err := parseDates(req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(c, err)
		return
	}
	query := searchapp.SearchStaysQuery{
		CheckIn:  in,
		CheckOut: out,
		Guests:   req.Guests,
		UnitIDs:  req.UnitIDs,
		Limit:    req.Limit,
	}
	result, err := queries.Ask[searchapp.SearchStaysQuery, dto.SearchResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ SearchHTTP = SearchHandler{}
