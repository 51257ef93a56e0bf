package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventhub-io/eventhub/internal/api/handler/v1/request"
	"github.com/eventhub-io/eventhub/internal/api/handler/v1/response"
	"github.com/eventhub-io/eventhub/internal/domain"
	"github.com/eventhub-io/eventhub/internal/service"
)

type ReservationService interface {
	CreateReservation(ctx context.Context, user domain.User, eventID uint, seats int, comment string) (domain.Reservation, error)
	ConfirmReservation(ctx context.Context, id uint) (domain.Reservation, error)
	CancelReservation(ctx context.Context, id uint) (domain.Reservation, error)
	DeleteReservation(ctx context.Context, id uint) error
	GetReservation(ctx context.Context, id uint) (domain.Reservation, error)
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	FindByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	FindByEventIDs(ctx context.Context, eventIDs []uint) ([]domain.Reservation, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Reservation, error)
	FindByCode(ctx context.Context, code string) (domain.Reservation, error)
}

type ReservationEventService interface {
	FindByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error)
}

type ReservationHandler struct {
	svc      ReservationService
	eventSvc ReservationEventService
	uSvc     UserService
}

func NewReservationHandler(svc ReservationService, eventSvc ReservationEventService, uSvc UserService) *ReservationHandler {
	return &ReservationHandler{
		svc:      svc,
		eventSvc: eventSvc,
		uSvc:     uSvc,
	}
}

// HandleCreateReservation godoc
// @Summary      Book seats on an event
// @Description  Creates a pending reservation for the authenticated user.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateReservationRequest  true  "reservation details"
// @Success      201      {object}  response.ReservationResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /reservations [post]
// @Security     BearerAuth
func (h *ReservationHandler) HandleCreateReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	res, err := h.svc.CreateReservation(ctx.Request.Context(), user, req.EventID, req.Seats, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", req.EventID))
		case errors.Is(err, service.ErrEventNotPublished):
			response.RenderErr(ctx, response.ErrConflict(service.ErrEventNotPublished))
		case errors.Is(err, service.ErrEventAlreadyStarted):
			response.RenderErr(ctx, response.ErrConflict(service.ErrEventAlreadyStarted))
		case errors.Is(err, service.ErrInsufficientSeats):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInsufficientSeats))
		case errors.Is(err, service.ErrInvalidSeatCount):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidSeatCount))
		default:
			err = fmt.Errorf("v1.HandleCreateReservation -> h.svc.CreateReservation -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.NewReservationResponse(res))
}

// HandleListReservations godoc
// @Summary      List reservations
// @Description  Admins see all reservations, organizers those of their events, clients their own. Optional status filter.
// @Tags         reservations
// @Produce      json
// @Param        status  query  string  false  "PENDING, CONFIRMED or CANCELLED"
// @Success      200  {array}   response.ReservationResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reservations [get]
// @Security     BearerAuth
func (h *ReservationHandler) HandleListReservations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reservations, err := h.listForUser(ctx, user)
	if err != nil {
		err = fmt.Errorf("v1.HandleListReservations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if status := ctx.Query("status"); status != "" {
		filtered := make([]domain.Reservation, 0, len(reservations))
		for _, res := range reservations {
			if res.Status == domain.ReservationStatus(status) {
				filtered = append(filtered, res)
			}
		}
		reservations = filtered
	}

	ctx.JSON(http.StatusOK, response.NewReservationsResponse(reservations))
}

func (h *ReservationHandler) listForUser(ctx *gin.Context, user domain.User) ([]domain.Reservation, error) {
	reqCtx := ctx.Request.Context()

	switch user.Role {
	case domain.RoleAdmin:
		return h.svc.ListReservations(reqCtx)
	case domain.RoleOrganizer:
		events, err := h.eventSvc.FindByOrganizer(reqCtx, user.ID)
		if err != nil {
			return nil, err
		}

		if len(events) == 0 {
			return []domain.Reservation{}, nil
		}

		eventIDs := make([]uint, len(events))
		for i, e := range events {
			eventIDs[i] = e.ID
		}

		return h.svc.FindByEventIDs(reqCtx, eventIDs)
	default:
		return h.svc.FindByUser(reqCtx, user.ID)
	}
}

// HandleGetReservation godoc
// @Summary      Get one reservation
// @Tags         reservations
// @Produce      json
// @Param        reservationID  path      int  true  "Reservation ID"
// @Success      200            {object}  response.ReservationResponse
// @Failure      400            {object}  response.Err
// @Failure      403            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /reservations/{reservationID} [get]
// @Security     BearerAuth
func (h *ReservationHandler) HandleGetReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reservationID, err := parseIDParam(ctx, "reservationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	res, err := h.svc.GetReservation(ctx.Request.Context(), reservationID)
	if err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reservation", "ID", reservationID))
			return
		}

		err = fmt.Errorf("v1.HandleGetReservation -> h.svc.GetReservation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !h.mayAccess(user, res) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v may not access reservation %v", user.ID, reservationID)))
		return
	}

	ctx.JSON(http.StatusOK, response.NewReservationResponse(res))
}

// HandleGetReservationByCode godoc
// @Summary      Look up a reservation by its code
// @Tags         reservations
// @Produce      json
// @Param        code  path      string  true  "reservation code, e.g. EVT-04217"
// @Success      200   {object}  response.ReservationResponse
// @Failure      403   {object}  response.Err
// @Failure      404   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /reservations/code/{code} [get]
// @Security     BearerAuth
func (h *ReservationHandler) HandleGetReservationByCode(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	code := ctx.Param("code")

	res, err := h.svc.FindByCode(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reservation", "code", code))
			return
		}

		err = fmt.Errorf("v1.HandleGetReservationByCode -> h.svc.FindByCode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !h.mayAccess(user, res) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v may not access reservation %v", user.ID, res.ID)))
		return
	}

	ctx.JSON(http.StatusOK, response.NewReservationResponse(res))
}

// HandleConfirmReservation godoc
// @Summary      Confirm a pending reservation
// @Description  Confirming an already-confirmed reservation is a no-op; a cancelled one is rejected.
// @Tags         reservations
// @Produce      json
// @Param        reservationID  path      int  true  "Reservation ID"
// @Success      200            {object}  response.ReservationResponse
// @Failure      400            {object}  response.Err
// @Failure      403            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      409            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /reservations/{reservationID}/confirm [post]
// @Security     BearerAuth
func (h *ReservationHandler) HandleConfirmReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reservationID, err := parseIDParam(ctx, "reservationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if respErr = h.checkManageAccess(ctx, user, reservationID); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	res, err := h.svc.ConfirmReservation(ctx.Request.Context(), reservationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReservationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("reservation", "ID", reservationID))
		case errors.Is(err, service.ErrInvalidStateTransition):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInvalidStateTransition))
		default:
			err = fmt.Errorf("v1.HandleConfirmReservation -> h.svc.ConfirmReservation -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewReservationResponse(res))
}

// HandleCancelReservation godoc
// @Summary      Cancel a reservation
// @Description  Allowed until 48 hours before the event starts; frees the reserved seats.
// @Tags         reservations
// @Produce      json
// @Param        reservationID  path      int  true  "Reservation ID"
// @Success      200            {object}  response.ReservationResponse
// @Failure      400            {object}  response.Err
// @Failure      403            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      409            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /reservations/{reservationID}/cancel [post]
// @Security     BearerAuth
func (h *ReservationHandler) HandleCancelReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reservationID, err := parseIDParam(ctx, "reservationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	existing, err := h.svc.GetReservation(ctx.Request.Context(), reservationID)
	if err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reservation", "ID", reservationID))
			return
		}

		err = fmt.Errorf("v1.HandleCancelReservation -> h.svc.GetReservation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !h.mayAccess(user, existing) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v may not access reservation %v", user.ID, reservationID)))
		return
	}

	res, err := h.svc.CancelReservation(ctx.Request.Context(), reservationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyCancelled):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyCancelled))
		case errors.Is(err, service.ErrCancellationWindowExpired):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCancellationWindowExpired))
		default:
			err = fmt.Errorf("v1.HandleCancelReservation -> h.svc.CancelReservation -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewReservationResponse(res))
}

// HandleDeleteReservation godoc
// @Summary      Delete a reservation (admin)
// @Tags         reservations
// @Produce      json
// @Param        reservationID  path  int  true  "Reservation ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reservations/{reservationID} [delete]
// @Security     BearerAuth
func (h *ReservationHandler) HandleDeleteReservation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	reservationID, err := parseIDParam(ctx, "reservationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.DeleteReservation(ctx.Request.Context(), reservationID); err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reservation", "ID", reservationID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteReservation -> h.svc.DeleteReservation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleExportReservations godoc
// @Summary      Export reservations as CSV (admin)
// @Tags         reservations
// @Produce      text/csv
// @Success      200
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reservations/export [get]
// @Security     BearerAuth
func (h *ReservationHandler) HandleExportReservations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	reservations, err := h.svc.ListReservations(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleExportReservations -> h.svc.ListReservations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", `attachment; filename="reservations.csv"`)

	if err = response.WriteReservationsCSV(ctx.Writer, reservations); err != nil {
		err = fmt.Errorf("v1.HandleExportReservations -> response.WriteReservationsCSV -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
}

// mayAccess reports whether the user may see or cancel the reservation:
// its owner, the organizer of the booked event, or an admin.
func (h *ReservationHandler) mayAccess(user domain.User, res domain.Reservation) bool {
	if user.Role == domain.RoleAdmin {
		return true
	}
	if res.UserID == user.ID {
		return true
	}

	return user.Role == domain.RoleOrganizer && res.Event.OrganizerID == user.ID
}

// checkManageAccess restricts confirmation to the event's organizer or
// an admin; clients cannot confirm their own reservations.
func (h *ReservationHandler) checkManageAccess(ctx *gin.Context, user domain.User, reservationID uint) *response.Err {
	if user.Role == domain.RoleAdmin {
		return nil
	}

	res, err := h.svc.GetReservation(ctx.Request.Context(), reservationID)
	if err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			return response.ErrNotFound("reservation", "ID", reservationID)
		}

		return response.ErrInternalServerError(fmt.Errorf("v1.checkManageAccess -> h.svc.GetReservation -> %w", err))
	}

	if user.Role == domain.RoleOrganizer && res.Event.OrganizerID == user.ID {
		return nil
	}

	return response.ErrPermissionDenied(fmt.Errorf("user %v may not manage reservation %v", user.ID, reservationID))
}
