package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventhub-io/eventhub/internal/api/handler/v1/request"
	"github.com/eventhub-io/eventhub/internal/api/handler/v1/response"
	"github.com/eventhub-io/eventhub/internal/domain"
	"github.com/eventhub-io/eventhub/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event, organizerID uint) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	UpdateStatus(ctx context.Context, id uint, status domain.EventStatus) (domain.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	FilterEvents(ctx context.Context, filter service.EventFilter) ([]domain.Event, error)
	SearchPublicEvents(ctx context.Context, keyword string, category *domain.Category, city string, date *time.Time) ([]domain.Event, error)
}

type EventStatsService interface {
	EventStats(ctx context.Context, eventID uint) (domain.EventStats, error)
}

type EventHandler struct {
	svc      EventService
	statsSvc EventStatsService
	uSvc     UserService
}

func NewEventHandler(svc EventService, statsSvc EventStatsService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:      svc,
		statsSvc: statsSvc,
		uSvc:     uSvc,
	}
}

// HandleListEvents godoc
// @Summary      List events with optional filters
// @Description  Admins see all events; organizers see their own. Filters combine with AND.
// @Tags         events
// @Produce      json
// @Param        keyword     query  string  false  "substring match on title/description"
// @Param        category    query  string  false  "exact category"
// @Param        city        query  string  false  "substring match on city"
// @Param        start_date  query  string  false  "inclusive lower bound (RFC3339)"
// @Param        end_date    query  string  false  "inclusive upper bound (RFC3339)"
// @Param        min_price   query  number  false  "inclusive minimum price"
// @Param        max_price   query  number  false  "inclusive maximum price"
// @Success      200  {array}   response.EventResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	filter, err := parseEventFilter(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	// Organizers only ever see their own events.
	if user.Role == domain.RoleOrganizer {
		filter.OrganizerID = &user.ID
	}

	events, err := h.svc.FilterEvents(ctx.Request.Context(), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.FilterEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewEventsResponse(events))
}

// HandleSearchEvents godoc
// @Summary      Search published events
// @Description  Public catalog search over published events that have not ended.
// @Tags         events
// @Produce      json
// @Param        keyword   query  string  false  "substring match on title/description"
// @Param        category  query  string  false  "exact category"
// @Param        city      query  string  false  "substring match on city"
// @Param        date      query  string  false  "events starting on this day (RFC3339)"
// @Success      200  {array}   response.EventResponse
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/search [get]
func (h *EventHandler) HandleSearchEvents(ctx *gin.Context) {
	var category *domain.Category
	if v := ctx.Query("category"); v != "" {
		c := domain.Category(v)
		category = &c
	}

	var date *time.Time
	if v := ctx.Query("date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date: %w", err)))
			return
		}
		date = &parsed
	}

	events, err := h.svc.SearchPublicEvents(ctx.Request.Context(), ctx.Query("keyword"), category, ctx.Query("city"), date)
	if err != nil {
		err = fmt.Errorf("v1.HandleSearchEvents -> h.svc.SearchPublicEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewEventsResponse(events))
}

// HandleGetEvent godoc
// @Summary      Get one event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewEventResponse(event))
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Creates a draft event owned by the authenticated organizer.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.SaveEventRequest  true  "event details"
// @Success      201      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != domain.RoleOrganizer && user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	var req request.SaveEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), req.ToDomain(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrEndsBeforeStarts) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEndsBeforeStarts))
			return
		}

		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewEventResponse(event))
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Rewrites the event. Only the owning organizer or an admin may update.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                       true  "Event ID"
// @Param        request  body      request.SaveEventRequest  true  "event details"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	existing, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if user.Role != domain.RoleAdmin && existing.OrganizerID != user.ID {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v does not own event %v", user.ID, eventID)))
		return
	}

	var req request.SaveEventRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event := req.ToDomain()
	event.ID = eventID
	event.Status = existing.Status

	updated, err := h.svc.UpdateEvent(ctx.Request.Context(), event)
	if err != nil {
		if errors.Is(err, service.ErrCapacityBelowReserved) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrCapacityBelowReserved))
			return
		}
		if errors.Is(err, service.ErrEndsBeforeStarts) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEndsBeforeStarts))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.UpdateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewEventResponse(updated))
}

// HandleUpdateEventStatus godoc
// @Summary      Change an event's lifecycle status
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                               true  "Event ID"
// @Param        request  body      request.UpdateEventStatusRequest  true  "new status"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/status [put]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEventStatus(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	existing, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateEventStatus -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if user.Role != domain.RoleAdmin && existing.OrganizerID != user.ID {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v does not own event %v", user.ID, eventID)))
		return
	}

	var req request.UpdateEventStatusRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateStatus(ctx.Request.Context(), eventID, domain.EventStatus(req.Status))
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateEventStatus -> h.svc.UpdateStatus -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewEventResponse(updated))
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Deletes an event that has no reservations left.
// @Tags         events
// @Produce      json
// @Param        eventID  path  int  true  "Event ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	existing, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if user.Role != domain.RoleAdmin && existing.OrganizerID != user.ID {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v does not own event %v", user.ID, eventID)))
		return
	}

	if err = h.svc.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, service.ErrEventHasReservations) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrEventHasReservations))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.DeleteEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetEventStats godoc
// @Summary      Reporting figures for an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.EventStats
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/stats [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEventStats(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	stats, err := h.statsSvc.EventStats(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEventStats -> h.statsSvc.EventStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func parseEventFilter(ctx *gin.Context) (service.EventFilter, error) {
	filter := service.EventFilter{
		Keyword: ctx.Query("keyword"),
		City:    ctx.Query("city"),
	}

	if v := ctx.Query("category"); v != "" {
		c := domain.Category(v)
		filter.Category = &c
	}
	if v := ctx.Query("start_date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return service.EventFilter{}, fmt.Errorf("invalid start_date: %w", err)
		}
		filter.StartDate = &parsed
	}
	if v := ctx.Query("end_date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return service.EventFilter{}, fmt.Errorf("invalid end_date: %w", err)
		}
		filter.EndDate = &parsed
	}
	if v := ctx.Query("min_price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return service.EventFilter{}, fmt.Errorf("invalid min_price: %w", err)
		}
		filter.MinPrice = &parsed
	}
	if v := ctx.Query("max_price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return service.EventFilter{}, fmt.Errorf("invalid max_price: %w", err)
		}
		filter.MaxPrice = &parsed
	}

	return filter, nil
}
