package api

import (
	"errors"
	"net/http"

	"reservation-engine/internal/domain/booking"
	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	commands commands.EventCommands
	queries  queries.EventQueries
	users    queries.UserQueries
}

func NewEventHandler(cmds commands.EventCommands, evQueries queries.EventQueries, userQueries queries.UserQueries) *EventHandler {
	return &EventHandler{
		commands: cmds,
		queries:  evQueries,
		users:    userQueries,
	}
}

// @Summary Create event
// @Description Book a time window on a calendar
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateEventRequest true "Event request"
// @Success 201 {object} resdto.CreateEventResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.commands.CreateEvent(c.Request.Context(), userID, req.ToCommand())
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCreateResult(result))
}

// @Summary Get event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} resdto.EventResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	view, err := h.queries.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEventView(view))
}

// @Summary List own events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param state query string false "Filter by lifecycle state"
// @Param past query bool false "Filter past (true) or upcoming (false) events"
// @Success 200 {array} resdto.EventResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.queries.ListByUser(c.Request.Context(), userID, parseEventFilter(c))
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEventViews(views))
}

// @Summary List events on managed calendars
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param state query string false "Filter by lifecycle state"
// @Param past query bool false "Filter past (true) or upcoming (false) events"
// @Success 200 {array} resdto.EventResponse
// @Router /events/managed [get]
func (h *EventHandler) ListManagedEvents(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	views, err := h.queries.ListByManagedAliases(c.Request.Context(), u.Roles, parseEventFilter(c))
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEventViews(views))
}

// @Summary Get current event
// @Description The caller's confirmed event containing the present moment
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.EventResponse
// @Success 204 "No Content"
// @Router /events/current [get]
func (h *EventHandler) GetCurrentEvent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.queries.CurrentForUser(c.Request.Context(), userID)
	if err != nil {
		respondEventError(c, err)
		return
	}
	if view == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEventView(view))
}

// @Summary Resolve approval
// @Description Approve or decline a not-approved event (manager only)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.ResolveApprovalRequest true "Approval decision"
// @Success 200 {object} resdto.EventResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/approval [post]
func (h *EventHandler) ResolveApproval(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.ResolveApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	res, err := h.commands.ResolveApproval(c.Request.Context(), c.Param("id"), userID, req.Approve, req.Notes)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(res, ""))
}

// @Summary Cancel event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} resdto.EventResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id} [delete]
func (h *EventHandler) CancelEvent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CancelEventRequest
	_ = c.ShouldBindJSON(&req)

	res, err := h.commands.CancelEvent(c.Request.Context(), c.Param("id"), userID, req.Reason)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(res, ""))
}

// @Summary Permanently remove event
// @Description Remove a canceled event outright (manager only)
// @Tags events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/permanent [delete]
func (h *EventHandler) HardDeleteEvent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.commands.HardDeleteEvent(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondEventError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Restore removed event
// @Description Bring a permanently removed event back as canceled (manager only)
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} resdto.EventResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/restore [post]
func (h *EventHandler) RestoreEvent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	res, err := h.commands.RestoreEvent(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(res, ""))
}

// @Summary Request time change
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.RequestTimeChangeRequest true "Proposed window"
// @Success 200 {object} resdto.EventResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/time-change [post]
func (h *EventHandler) RequestTimeChange(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.RequestTimeChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	res, err := h.commands.RequestTimeChange(c.Request.Context(), c.Param("id"), userID, req.Start, req.End, req.Reason)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(res, ""))
}

// @Summary Resolve time change
// @Description Approve or decline a pending time change (manager only)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.ResolveTimeChangeRequest true "Decision"
// @Success 200 {object} resdto.EventResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/time-change/resolution [post]
func (h *EventHandler) ResolveTimeChange(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.ResolveTimeChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	res, err := h.commands.ResolveTimeChange(c.Request.Context(), c.Param("id"), userID, req.Approve, req.Notes)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(res, ""))
}

// @Summary Update event
// @Description Edit an event's window and details directly (manager only)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body reqdto.UpdateEventRequest true "Changes"
// @Success 200 {object} resdto.EventResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /events/{id} [patch]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	res, err := h.commands.UpdateEvent(c.Request.Context(), c.Param("id"), userID, req.ToCommand())
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(res, ""))
}

func parseEventFilter(c *gin.Context) queries.EventFilter {
	var filter queries.EventFilter
	if state := c.Query("state"); state != "" {
		filter.State = &state
	}
	switch c.Query("past") {
	case "true":
		v := true
		filter.Past = &v
	case "false":
		v := false
		filter.Past = &v
	}
	return filter
}

func respondEventError(c *gin.Context, err error) {
	var rejection *booking.Rejection
	switch {
	case errors.As(err, &rejection):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": rejection.Reason})
	case errors.Is(err, commands.ErrEventNotFound), errors.Is(err, queries.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, commands.ErrCalendarNotFound), errors.Is(err, queries.ErrCalendarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Calendar not found"})
	case errors.Is(err, commands.ErrUserNotFound), errors.Is(err, queries.ErrQueryUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, commands.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	case errors.Is(err, commands.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Event state does not allow this operation"})
	case errors.Is(err, commands.ErrExternalCalendar):
		c.JSON(http.StatusBadGateway, gin.H{"error": "External calendar unavailable"})
	case errors.Is(err, commands.ErrEntitlementSource):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Member information system unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
