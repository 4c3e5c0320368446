package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"lendme/internal/app/dto"
	"lendme/internal/app/services/items"
	domainitem "lendme/internal/domain/item"
)

type ItemHandler struct {
	Items *items.Service
}

type createItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   int64  `json:"requestId"`
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type addCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h ItemHandler) Create(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itm, err := h.Items.Create(c.Request.Context(), items.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	}, owner)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapItem(itm))
}

func (h ItemHandler) Update(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itm, err := h.Items.Update(c.Request.Context(), itemID, caller, domainitem.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapItem(itm))
}

func (h ItemHandler) Get(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	details, err := h.Items.FindByIDWithBookings(c.Request.Context(), itemID, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapItemDetails(details))
}

func (h ItemHandler) ListByOwner(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	p, ok := pageParams(c)
	if !ok {
		return
	}
	details, err := h.Items.FindAllByOwnerID(c.Request.Context(), owner, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapItemDetailsList(details))
}

func (h ItemHandler) Search(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}
	p, ok := pageParams(c)
	if !ok {
		return
	}
	found, err := h.Items.Search(c.Request.Context(), c.Query("text"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapItems(found))
}

func (h ItemHandler) AddComment(c *gin.Context) {
	author, ok := callerID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.Items.AddComment(c.Request.Context(), author, itemID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapComment(comment))
}

var _ ItemHTTP = ItemHandler{}
