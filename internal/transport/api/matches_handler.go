package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

type MatchesHandler struct {
	matchSvs MatchServicer
}

func NewMatchesHandler(matchSvs MatchServicer) *MatchesHandler {
	return &MatchesHandler{
		matchSvs: matchSvs,
	}
}

type MatchResponse struct {
	PublicID     uuid.UUID                `json:"id"`
	CreatedAt    time.Time                `json:"createdAt"`
	StakePerGame float64                  `json:"stakePerGame"`
	GamesPlanned int16                    `json:"gamesPlanned"`
	GamesPlayed  int16                    `json:"gamesPlayed"`
	WinsA        int16                    `json:"winsA"`
	WinsB        int16                    `json:"winsB"`
	Draws        int16                    `json:"draws"`
	Status       domain.MatchStatusType   `json:"status"`
	WinnerID     *int64                   `json:"winnerId,omitempty"`
	FinishReason *domain.FinishReasonType `json:"finishReason,omitempty"`
}

func matchResponseFrom(match *domain.Match) MatchResponse {
	return MatchResponse{
		PublicID:     match.PublicID,
		CreatedAt:    match.CreatedAt,
		StakePerGame: match.StakePerGame.InexactFloat64(),
		GamesPlanned: match.GamesPlanned,
		GamesPlayed:  match.GamesPlayed,
		WinsA:        match.WinsA,
		WinsB:        match.WinsB,
		Draws:        match.Draws,
		Status:       match.Status,
		WinnerID:     match.WinnerID,
		FinishReason: match.FinishReason,
	}
}

type RoundResponse struct {
	RoundIndex        int16                  `json:"roundIndex"`
	Deadline          time.Time              `json:"deadline"`
	Status            domain.RoundStatusType `json:"status"`
	YourNumber        *int32                 `json:"yourNumber,omitempty"`
	OpponentNumber    *int32                 `json:"opponentNumber,omitempty"`
	OpponentSubmitted bool                   `json:"opponentSubmitted"`
	WinnerID          *int64                 `json:"winnerId,omitempty"`
	IsDraw            bool                   `json:"isDraw"`
	SeedSlice         *string                `json:"seedSlice,omitempty"`
	RandomNumber      *int32                 `json:"randomNumber,omitempty"`
	TimeSlot          *int64                 `json:"timeSlot,omitempty"`
	ForfeitedBy       *int64                 `json:"forfeitedBy,omitempty"`
}

// roundResponseFrom собирает ответ с точки зрения стороны viewer. Пока раунд не разыгран,
// число соперника скрыто: видно лишь сам факт отправки. Иначе отправивший вторым
// подбирал бы число под уже известное.
func roundResponseFrom(round *domain.Round, viewer domain.MatchSide) RoundResponse {
	response := RoundResponse{
		RoundIndex:        round.RoundIndex,
		Deadline:          round.Deadline,
		Status:            round.Status,
		YourNumber:        round.NumberOf(viewer),
		OpponentSubmitted: round.NumberOf(viewer.Opponent()) != nil,
		IsDraw:            round.IsDraw,
	}
	if round.Status != domain.RoundStatusAwaitingNumbers {
		response.OpponentNumber = round.NumberOf(viewer.Opponent())
		response.WinnerID = round.WinnerID
		response.SeedSlice = round.SeedSlice
		response.RandomNumber = round.RandomNumber
		response.TimeSlot = round.TimeSlot
		response.ForfeitedBy = round.ForfeitedBy
	}
	return response
}

type MatchDetailResponse struct {
	Match       MatchResponse    `json:"match"`
	PlayerAName string           `json:"playerAName"`
	PlayerBName string           `json:"playerBName"`
	YourSide    domain.MatchSide `json:"yourSide"`
	Rounds      []RoundResponse  `json:"rounds"`
}

// Show GET RouteGroup + MatchRoute. Матч с раундами, доступен только участникам.
func (m *MatchesHandler) Show(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	publicID, ok := parsePublicID(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	detail, err := m.matchSvs.GetByPublicID(reqCtx, publicID, currentUserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(err, domain.ErrNotParticipant):
			c.AbortWithStatus(http.StatusForbidden)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).
				SetType(gin.ErrorTypePrivate)
		}
		return
	}

	viewer, _ := detail.Match.SideOf(currentUserID)
	rounds := make([]RoundResponse, len(detail.Rounds))
	for i := range detail.Rounds {
		rounds[i] = roundResponseFrom(&detail.Rounds[i], viewer)
	}

	c.JSON(http.StatusOK, MatchDetailResponse{
		Match:       matchResponseFrom(&detail.Match),
		PlayerAName: detail.PlayerAName,
		PlayerBName: detail.PlayerBName,
		YourSide:    viewer,
		Rounds:      rounds,
	})
}

type SubmitNumberParams struct {
	// Указатель, чтобы валидный ноль не считался пропущенным полем.
	Number *int32 `binding:"required" json:"number"`
}

// SubmitNumber POST RouteGroup + MatchNumberRoute. Фиксирует число текущего юзера
// в раунде матча. Раунд в пути обязан быть текущим: отставший клиент получает конфликт,
// а не запись своего числа в чужой раунд.
func (m *MatchesHandler) SubmitNumber(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	publicID, ok := parsePublicID(c)
	if !ok {
		return
	}
	roundIndex, ok := parseRoundIndex(c)
	if !ok {
		return
	}

	var params SubmitNumberParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	round, side, submitErr := m.matchSvs.SubmitNumber(reqCtx, publicID, roundIndex, currentUserID, *params.Number)
	if submitErr != nil {
		switch {
		case errors.Is(submitErr, domain.ErrNumberOutRange):
			c.AbortWithStatus(http.StatusUnprocessableEntity)
		case errors.Is(submitErr, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(submitErr, domain.ErrNotParticipant):
			c.AbortWithStatus(http.StatusForbidden)
		case errors.Is(submitErr, domain.ErrAlreadySubmitted),
			errors.Is(submitErr, domain.ErrRoundMismatch),
			errors.Is(submitErr, domain.ErrMatchFinished):
			c.AbortWithStatus(http.StatusConflict)
		case errors.Is(submitErr, domain.ErrRoundExpired):
			c.AbortWithStatus(http.StatusGone)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, submitErr).
				SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"round": roundResponseFrom(round, side)})
}

// Index GET RouteGroup + UserMatchesRoute. Матчи текущего юзера, новые первыми.
func (m *MatchesHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	matches, err := m.matchSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	if len(matches) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]MatchResponse, len(matches))
	for i := range matches {
		response[i] = matchResponseFrom(&matches[i])
	}

	c.JSON(http.StatusOK, response)
}
