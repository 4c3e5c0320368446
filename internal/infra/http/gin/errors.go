package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	domainbooking "lendme/internal/domain/booking"
	domainitem "lendme/internal/domain/item"
	domainrequest "lendme/internal/domain/request"
	domainuser "lendme/internal/domain/user"
)

// writeError maps domain errors onto HTTP statuses. Unknown errors become
// 500 without leaking their text.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainuser.ErrNotFound),
		errors.Is(err, domainitem.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domainrequest.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainitem.ErrWrongOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainuser.ErrEmailInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainitem.ErrNotAvailable),
		errors.Is(err, domainitem.ErrIllegalComment),
		errors.Is(err, domainitem.ErrCommentTextEmpty),
		errors.Is(err, domainbooking.ErrUnsupportedState),
		errors.Is(err, domainbooking.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrAlreadyDecided),
		errors.Is(err, domainuser.ErrNameRequired),
		errors.Is(err, domainuser.ErrEmailRequired),
		errors.Is(err, domainitem.ErrNameRequired),
		errors.Is(err, domainitem.ErrDescriptionRequired),
		errors.Is(err, domainrequest.ErrDescriptionRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
