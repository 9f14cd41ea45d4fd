package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/rpifanctl/internal/governor"
	"github.com/markusressel/rpifanctl/internal/persistence"
)

func registerStatusEndpoints(rest *echo.Echo) {
	group := rest.Group("/status")

	group.GET("/", getStatus)
}

func registerHistoryEndpoints(rest *echo.Echo, pers persistence.Persistence) {
	group := rest.Group("/history")

	group.GET("/", func(c echo.Context) error {
		return getHistory(c, pers)
	})
}

// returns the latest observation of each governor loop
func getStatus(c echo.Context) error {
	data := governor.StateMap.Items()
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

// returns the recorded observation history, oldest first
func getHistory(c echo.Context, pers persistence.Persistence) error {
	if pers == nil {
		return c.JSONPretty(http.StatusOK, []persistence.HistoryEntry{}, indentationChar)
	}

	entries, err := pers.LoadHistory()
	if err != nil {
		return returnError(c, err)
	}
	if entries == nil {
		entries = []persistence.HistoryEntry{}
	}
	return c.JSONPretty(http.StatusOK, entries, indentationChar)
}
