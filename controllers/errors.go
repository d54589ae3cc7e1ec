package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-waitlist/lifecycle"
	"github.com/yeremiapane/restaurant-waitlist/queue"
	"github.com/yeremiapane/restaurant-waitlist/utils"
)

type CustomError struct {
	Msg string
}

func (e *CustomError) Error() string {
	return e.Msg
}

// respondDomainError -> memetakan error domain ke kode HTTP
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queue.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, queue.ErrDuplicateContact):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, queue.ErrInvalidTransition):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, queue.ErrConcurrentModification):
		// retriable: caller boleh mengulang operasi yang sama
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, queue.ErrNoSuitableTable):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, lifecycle.ErrInvalidPartySize):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
