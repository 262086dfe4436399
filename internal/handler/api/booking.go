package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "questbook/internal/handler/dto/request"
	resdto "questbook/internal/handler/dto/response"
	"questbook/internal/handler/middleware"
	"questbook/internal/usecase/commands"
	"questbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
	admin           *middleware.AdminMiddleware
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries, admin *middleware.AdminMiddleware) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
		admin:           admin,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.bookingCommands.Create(c.Request.Context(), req.ToInput(h.admin.IsAdmin(c)))
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	sort, err := queries.ParseSort(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid sort expression",
		})
		return
	}

	views, err := h.bookingQueries.List(c.Request.Context(), filter, sort)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	var req reqdto.UpdateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.bookingCommands.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	if err := h.bookingCommands.Delete(c.Request.Context(), id); err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookingNotFound), errors.Is(err, queries.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, commands.ErrQuestNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Quest not found",
		})
	case errors.Is(err, commands.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Slot not found",
		})
	case errors.Is(err, commands.ErrSlotAlreadyBooked):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Slot is already booked",
		})
	case errors.Is(err, commands.ErrBookingBlocked):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Booking rejected",
		})
	case errors.Is(err, commands.ErrParticipantsOutOfRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Participant count is out of range",
		})
	case errors.Is(err, commands.ErrInvalidPayment):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid payment type",
		})
	case errors.Is(err, commands.ErrInvalidStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid booking status",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func parseListFilter(c *gin.Context) (queries.ListFilter, error) {
	var f queries.ListFilter
	if v := c.Query("status"); v != "" {
		f.Status = &v
	}
	if v := c.Query("quest_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return queries.ListFilter{}, errors.New("invalid quest_id filter")
		}
		f.QuestID = &id
	}
	if v := c.Query("aggregator"); v != "" {
		f.Aggregator = &v
	}
	if v := c.Query("promo_code"); v != "" {
		f.PromoCode = &v
	}
	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return queries.ListFilter{}, errors.New("invalid date_from filter")
		}
		f.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return queries.ListFilter{}, errors.New("invalid date_to filter")
		}
		f.DateTo = &t
	}
	return f, nil
}
