package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func callerFrom(ctx *gin.Context) service.Caller {
	return service.CallerFromClaims(util.GetUserFromContext(ctx))
}

// bindJSON 绑定失败时直接输出 422
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		util.RespondError(ctx, util.BindingError(err))
		return false
	}
	return true
}
