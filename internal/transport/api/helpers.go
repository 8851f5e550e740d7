package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fsdevblog/groph-duel/internal/transport/api/middlewares"
)

var errInvalidRoundIndex = errors.New("invalid round index")

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка утверждения
// типа - вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

// parsePublicID разбирает параметр пути publicID. При невалидном uuid пишет ответ
// 400 и возвращает false.
func parsePublicID(c *gin.Context) (uuid.UUID, bool) {
	publicID, err := uuid.Parse(c.Param("publicID"))
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err).SetType(gin.ErrorTypeBind)
		return uuid.Nil, false
	}
	return publicID, true
}

// parseRoundIndex разбирает параметр пути index. При нечисловом или неположительном
// значении пишет ответ 400 и возвращает false.
func parseRoundIndex(c *gin.Context) (int16, bool) {
	index, err := strconv.ParseInt(c.Param("index"), 10, 16)
	if err != nil || index < 1 {
		_ = c.AbortWithError(http.StatusBadRequest, errInvalidRoundIndex).SetType(gin.ErrorTypeBind)
		return 0, false
	}
	return int16(index), true
}
