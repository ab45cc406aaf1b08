package handler

import (
	"github.com/gin-gonic/gin"

	"bookrental/internal/apperror"
	"bookrental/internal/microservices/http-api/middleware"
)

// respondError writes err as {"kind", "error"}. Non-API errors are
// recorded on the context for the request logger and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// bindError reports a malformed or incomplete JSON body.
func bindError(c *gin.Context, err error) {
	respondError(c, apperror.Validation("invalid request body").WithDetails(err.Error()))
}
