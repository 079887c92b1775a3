package httpserver

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/service/search"
)

type SearchHTTP struct {
	ES      *elasticsearch.Client
	ESIndex string
}

func (h *SearchHTTP) SearchQuestions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "question.search")

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	if h.ES == nil {
		l.Warn("search_questions_error", "status", 503, "reason", "no es client")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "question search disabled")
	}
	offset, limit, page := pagination(c)

	total, docs, err := search.SearchQuestions(ctx, h.ES, h.ESIndex, query, offset, limit)
	if err != nil {
		l.Error("search_questions_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search unavailable")
	}

	l.Info("search_questions_success", "query", query, "hits", total)
	return c.JSON(http.StatusOK, echo.Map{"data": docs, "meta": listMeta(page, limit, total, offset)})
}
