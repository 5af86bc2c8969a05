package api

import (
	"errors"
	"net/http"

	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	commands commands.CalendarCommands
	queries  queries.CalendarQueries
}

func NewCalendarHandler(cmds commands.CalendarCommands, calQueries queries.CalendarQueries) *CalendarHandler {
	return &CalendarHandler{
		commands: cmds,
		queries:  calQueries,
	}
}

// @Summary List calendars
// @Tags calendars
// @Produce json
// @Security BearerAuth
// @Param service_alias query string false "Filter by owning service"
// @Success 200 {array} resdto.CalendarResponse
// @Router /calendars [get]
func (h *CalendarHandler) ListCalendars(c *gin.Context) {
	var (
		views []*queries.CalendarView
		err   error
	)
	if alias := c.Query("service_alias"); alias != "" {
		views, err = h.queries.ListByServiceAlias(c.Request.Context(), alias)
	} else {
		views, err = h.queries.List(c.Request.Context())
	}
	if err != nil {
		respondCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCalendarViews(views))
}

// @Summary Get calendar
// @Tags calendars
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Success 200 {object} resdto.CalendarResponse
// @Failure 404 {object} map[string]string
// @Router /calendars/{id} [get]
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	view, err := h.queries.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCalendarView(view))
}

// @Summary Get calendar by reservation type
// @Tags calendars
// @Produce json
// @Security BearerAuth
// @Param type path string true "Reservation type"
// @Success 200 {object} resdto.CalendarResponse
// @Failure 404 {object} map[string]string
// @Router /calendars/by-type/{type} [get]
func (h *CalendarHandler) GetCalendarByReservationType(c *gin.Context) {
	view, err := h.queries.GetByReservationType(c.Request.Context(), c.Param("type"))
	if err != nil {
		respondCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCalendarView(view))
}

// @Summary Create calendar
// @Description Register a bookable calendar and its collision edges
// @Tags calendars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CalendarRequest true "Calendar definition"
// @Success 201 {object} resdto.CalendarResponse
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /calendars [post]
func (h *CalendarHandler) CreateCalendar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	cal, err := h.commands.CreateCalendar(c.Request.Context(), userID, req.ToCommand())
	if err != nil {
		respondCalendarError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromCalendar(cal))
}

// @Summary Update calendar
// @Tags calendars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Param request body reqdto.CalendarRequest true "Calendar definition"
// @Success 200 {object} resdto.CalendarResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /calendars/{id} [put]
func (h *CalendarHandler) UpdateCalendar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	cal, err := h.commands.UpdateCalendar(c.Request.Context(), c.Param("id"), userID, req.ToCommand())
	if err != nil {
		respondCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCalendar(cal))
}

// @Summary Delete calendar
// @Tags calendars
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /calendars/{id} [delete]
func (h *CalendarHandler) DeleteCalendar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.commands.DeleteCalendar(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondCalendarError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Restore deleted calendar
// @Description Bring a deleted calendar back without its collision edges
// @Tags calendars
// @Produce json
// @Security BearerAuth
// @Param id path string true "Calendar ID"
// @Success 200 {object} resdto.CalendarResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /calendars/{id}/restore [post]
func (h *CalendarHandler) RestoreCalendar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	cal, err := h.commands.RestoreCalendar(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCalendar(cal))
}

func respondCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrCalendarNotFound), errors.Is(err, queries.ErrCalendarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Calendar not found"})
	case errors.Is(err, commands.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, commands.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	case errors.Is(err, commands.ErrDanglingCollision):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Collision references an unknown calendar"})
	case errors.Is(err, commands.ErrInvalidCalendar):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid calendar definition"})
	case errors.Is(err, commands.ErrExternalCalendar):
		c.JSON(http.StatusBadGateway, gin.H{"error": "External calendar unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
