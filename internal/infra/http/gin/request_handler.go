package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"lendme/internal/app/dto"
	"lendme/internal/app/services/requests"
)

type RequestHandler struct {
	Requests *requests.Service
}

type createRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

func (h RequestHandler) Create(c *gin.Context) {
	requester, ok := callerID(c)
	if !ok {
		return
	}
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.Requests.Create(c.Request.Context(), req.Description, requester)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapRequest(r, []dto.Item{}))
}

func (h RequestHandler) ListOwn(c *gin.Context) {
	requester, ok := callerID(c)
	if !ok {
		return
	}
	details, err := h.Requests.FindByUserID(c.Request.Context(), requester)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRequestDetailsList(details))
}

func (h RequestHandler) ListOthers(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	p, ok := pageParams(c)
	if !ok {
		return
	}
	details, err := h.Requests.FindAll(c.Request.Context(), caller, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRequestDetailsList(details))
}

func (h RequestHandler) Get(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "requestId")
	if !ok {
		return
	}
	details, err := h.Requests.FindByID(c.Request.Context(), requestID, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRequestDetails(details))
}

var _ RequestHTTP = RequestHandler{}
