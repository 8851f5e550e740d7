package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/groph-duel/internal/fair"
)

// VerifyHandler пересчитывает исход раунда по опубликованным данным. Секрет платформы
// для проверки не нужен, поэтому хэндлеру не нужны и сервисы.
type VerifyHandler struct{}

func NewVerifyHandler() *VerifyHandler {
	return &VerifyHandler{}
}

type VerifyParams struct {
	SeedSlice string `binding:"required" json:"seedSlice"`
	// Указатели, чтобы валидный ноль не считался пропущенным полем.
	PlayerANumber *int32 `binding:"required" json:"playerANumber"`
	PlayerBNumber *int32 `binding:"required" json:"playerBNumber"`
}

type VerifyResponse struct {
	RandomNumber int32  `json:"randomNumber"`
	DistanceA    int32  `json:"distanceA"`
	DistanceB    int32  `json:"distanceB"`
	Winner       string `json:"winner"`
	IsDraw       bool   `json:"isDraw"`
}

// Verify POST RouteGroup + VerifyRoute. Воспроизводит розыгрыш раунда из seedSlice и чисел
// игроков: любой может убедиться, что сохраненный исход не подменен.
func (v *VerifyHandler) Verify(c *gin.Context) {
	var params VerifyParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	verification, err := fair.Verify(params.SeedSlice, *params.PlayerANumber, *params.PlayerBNumber)
	if err != nil {
		if errors.Is(err, fair.ErrBadSeedSlice) || errors.Is(err, fair.ErrNumberOutOfRange) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	var winner string
	switch verification.WinnerIndex {
	case fair.WinnerA:
		winner = "A"
	case fair.WinnerB:
		winner = "B"
	default:
		winner = "NONE"
	}

	c.JSON(http.StatusOK, VerifyResponse{
		RandomNumber: verification.RandomNumber,
		DistanceA:    verification.DistanceA,
		DistanceB:    verification.DistanceB,
		Winner:       winner,
		IsDraw:       verification.IsDraw,
	})
}
