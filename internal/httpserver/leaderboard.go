package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/service"
	"github.com/quizhub/backend/internal/util"
)

type LeaderboardHTTP struct {
	Svc *service.ScoringService
}

func (h *LeaderboardHTTP) GetLeaderboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "leaderboard.get")

	period := models.TimePeriod(c.QueryParam("time_period"))
	if period == "" {
		period = models.PeriodAllTime
	}

	var groupID *uint
	if raw := c.QueryParam("group_id"); raw != "" {
		id := uint(util.ParseIntDefault(raw, 0))
		if id == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "group_id must be an integer")
		}
		groupID = &id
	}
	limit := util.ParseIntDefault(c.QueryParam("limit"), 0)

	entries, err := h.Svc.Leaderboard(ctx, period, groupID, limit)
	if err != nil {
		if errors.Is(err, service.ErrBadTimePeriod) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown time period")
		}
		l.Error("get_leaderboard_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot build leaderboard")
	}
	return c.JSON(http.StatusOK, entries)
}

// GetUserScore returns a single user's all-time correct-answer count.
func (h *LeaderboardHTTP) GetUserScore(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	score, err := h.Svc.UserScore(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Error("get_user_score_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot compute score")
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "score": score})
}
