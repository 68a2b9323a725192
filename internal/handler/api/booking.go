package api

import (
	"net/http"
	"strconv"

	"booking-orchestrator/internal/domain/booking"
	reqdto "booking-orchestrator/internal/handler/dto/request"
	resdto "booking-orchestrator/internal/handler/dto/response"
	"booking-orchestrator/internal/handler/httperr"
	"booking-orchestrator/internal/handler/middleware"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/commands"
	"booking-orchestrator/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create or reschedule booking
// @Description Books an event type, or reschedules an existing booking when rescheduleUid is set
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Platform-Client-Id header string false "Platform OAuth client id"
// @Param Idempotency-Key header string false "UUID; a retry with the same key and body returns the first booking"
// @Param dryRun query bool false "Run every decision without side effects"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 200 {object} resdto.BookingResponse "dry run"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, "invalid_request", "Invalid request", err.Error())
		return
	}

	dryRun, _ := strconv.ParseBool(c.Query("dryRun"))
	caller := callerFrom(c, dryRun)
	if keyStr := c.GetHeader(middleware.IdempotencyKeyHeader); keyStr != "" {
		key, err := uuid.Parse(keyStr)
		if err != nil {
			httperr.AbortWithCode(c, http.StatusBadRequest, err, "invalid_idempotency_key", "Invalid idempotency key", nil)
			return
		}
		caller.IdempotencyKey = &key
	}

	raw, err := req.ToCommand(creationSource(caller), dryRun)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Book(c.Request.Context(), raw, req.EventTypeID, caller)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	resp, err := resdto.FromBookingResult(result)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	status := http.StatusCreated
	if result.IsDryRun {
		status = http.StatusOK
	}
	if result.Replayed {
		c.Header(middleware.IdempotentReplayedHeader, "true")
	}
	c.JSON(status, resp)
}

// @Summary Get booking
// @Description Get a booking by uid with attendees and references
// @Tags bookings
// @Produce json
// @Param uid path string true "Booking uid"
// @Success 200 {object} queries.BookingView
// @Failure 404 {object} httperr.Response
// @Router /bookings/{uid} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	view, err := h.q.GetByUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		if errs.Is(err, queries.ErrBookingNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
			return
		}
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List my bookings
// @Description Keyset-paginated bookings organized by the current user
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing user"), "Unauthorized", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}
	items, next, err := h.q.ListByUser(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		if errs.Is(err, queries.ErrInvalidCursor) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
			return
		}
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingPage(items, next))
}

func callerFrom(c *gin.Context, dryRun bool) commands.CallerContext {
	caller := commands.CallerContext{DryRun: dryRun, Hostname: c.Request.Host}
	if userID, ok := middleware.GetUserID(c); ok {
		caller.UserID = &userID
	}
	if clientID, ok := middleware.GetPlatformClientID(c); ok {
		caller.PlatformClientID = &clientID
	}
	return caller
}

func creationSource(caller commands.CallerContext) booking.CreationSource {
	if caller.IsPlatform() {
		return booking.SourcePlatform
	}
	return booking.SourceWebapp
}

func abortBookingError(c *gin.Context, err error) {
	var verrs commands.ValidationErrors
	switch {
	case errs.As(err, &verrs):
		httperr.AbortWithCode(c, http.StatusBadRequest, err, "validation_error", "Invalid booking request", verrs)
	case errs.Is(err, commands.ErrBookerEmailBlocked):
		httperr.AbortWithCode(c, http.StatusBadRequest, err, "booker_email_blocked", "Cannot use this email to create the booking", nil)
	case errs.Is(err, commands.ErrBookingValidation):
		httperr.AbortWithCode(c, http.StatusBadRequest, err, "validation_error", "Invalid booking request", rootMessage(err))
	case errs.Is(err, commands.ErrEventTypeNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, err, "event_type_not_found", "Event type not found", nil)
	case errs.Is(err, commands.ErrRescheduleTargetNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, err, "booking_not_found", "Booking to reschedule not found", nil)
	case errs.Is(err, commands.ErrEventTypeUsersNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, err, "event_type_users_not_found", "No hosts found for this event type", nil)
	case errs.Is(err, commands.ErrBookingConflict):
		httperr.AbortWithCode(c, http.StatusConflict, err, "booking_conflict", "Booking conflict", nil)
	case errs.Is(err, commands.ErrIdempotencyKeyReused):
		httperr.AbortWithCode(c, http.StatusConflict, err, "idempotency_key_reused", "Idempotency key was used with a different request", nil)
	case errs.Is(err, commands.ErrIdempotencyInProgress):
		httperr.AbortWithCode(c, http.StatusConflict, err, "idempotency_key_in_progress", "A request with this idempotency key is still in progress", nil)
	case errs.Is(err, commands.ErrNoAvailableUsers), errs.Is(err, commands.ErrRoundRobinHostsUnavailable):
		httperr.AbortWithCode(c, http.StatusConflict, err, "no_available_users", "No available users found", nil)
	default:
		httperr.Internal(c, err)
	}
}

func rootMessage(err error) string {
	return errs.UnwrapAll(err).Error()
}
