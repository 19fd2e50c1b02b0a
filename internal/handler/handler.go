package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// parseID reads the numeric :id path parameter.
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// bindUpdates reads a PATCH body as the raw field map so the repository can
// distinguish absent fields from zero values.
func bindUpdates(c echo.Context) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if err := c.Bind(&updates); err != nil {
		return nil, err
	}
	return updates, nil
}
