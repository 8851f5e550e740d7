package repoargs

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

type CreateMatch struct {
	PublicID     uuid.UUID
	OrderID      int64
	PlayerAID    int64
	PlayerBID    int64
	StakePerGame decimal.Decimal
	GamesPlanned int16
}

// ScoreDelta инкремент счёта серии после завершённого раунда. Ровно одно
// из полей должно быть единицей, остальные нулями.
type ScoreDelta struct {
	WinsA int16
	WinsB int16
	Draws int16
}

type FinishMatch struct {
	MatchID      int64
	WinnerID     *int64
	FinishReason domain.FinishReasonType
}
