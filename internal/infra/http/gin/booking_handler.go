package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"lendme/internal/app/dto"
	"lendme/internal/app/services/bookings"
)

type BookingHandler struct {
	Bookings *bookings.Service
}

type createBookingRequest struct {
	ItemID int64     `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

func (h BookingHandler) Create(c *gin.Context) {
	booker, ok := callerID(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Start.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must not be in the past"})
		return
	}
	b, err := h.Bookings.Create(c.Request.Context(), bookings.CreateParams{
		ItemID: req.ItemID,
		Start:  req.Start,
		End:    req.End,
	}, booker)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapBooking(b))
}

func (h BookingHandler) Approve(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid approved"})
		return
	}
	b, err := h.Bookings.Approve(c.Request.Context(), bookingID, owner, approved)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBooking(b))
}

func (h BookingHandler) Get(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return
	}
	b, err := h.Bookings.FindByIDAndUserID(c.Request.Context(), bookingID, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBooking(b))
}

func (h BookingHandler) ListByBooker(c *gin.Context) {
	booker, ok := callerID(c)
	if !ok {
		return
	}
	p, ok := pageParams(c)
	if !ok {
		return
	}
	list, err := h.Bookings.FindByUserIDAndState(c.Request.Context(), booker, c.DefaultQuery("state", "ALL"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookings(list))
}

func (h BookingHandler) ListByOwner(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	p, ok := pageParams(c)
	if !ok {
		return
	}
	list, err := h.Bookings.FindByOwnerIDAndState(c.Request.Context(), owner, c.DefaultQuery("state", "ALL"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookings(list))
}

var _ BookingHTTP = BookingHandler{}
