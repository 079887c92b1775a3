package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/repo"
	"github.com/quizhub/backend/internal/util"
)

type ResponseHTTP struct {
	Repo *repo.GormRepo
}

// GetUserResponses lists recorded answer events, filterable by user and
// question.
func (h *ResponseHTTP) GetUserResponses(c echo.Context) error {
	ctx := c.Request().Context()

	offset, limit, page := pagination(c)
	userID := uint(util.ParseIntDefault(c.QueryParam("user_id"), 0))
	questionID := uint(util.ParseIntDefault(c.QueryParam("question_id"), 0))

	total, items, err := h.Repo.ListUserResponses(ctx, userID, questionID, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("get_user_responses_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list user responses")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "meta": listMeta(page, limit, total, offset)})
}
