package domain

import "github.com/shopspring/decimal"

type OrderStatusType string

const (
	OrderStatusOpen                  OrderStatusType = "OPEN"
	OrderStatusWaitingCreatorConfirm OrderStatusType = "WAITING_CREATOR_CONFIRM"
	OrderStatusMatched               OrderStatusType = "MATCHED"
	OrderStatusInProgress            OrderStatusType = "IN_PROGRESS"
	OrderStatusCompleted             OrderStatusType = "COMPLETED"
	OrderStatusCancelled             OrderStatusType = "CANCELLED"
	OrderStatusExpired               OrderStatusType = "EXPIRED"
)

type MatchStatusType string

const (
	MatchStatusInProgress MatchStatusType = "IN_PROGRESS"
	MatchStatusCompleted  MatchStatusType = "COMPLETED"
)

type FinishReasonType string

const (
	FinishReasonPlayedOut     FinishReasonType = "PLAYED_OUT"
	FinishReasonEarlyForfeit  FinishReasonType = "EARLY_FORFEIT"
	FinishReasonMutualForfeit FinishReasonType = "MUTUAL_FORFEIT"
)

type RoundStatusType string

const (
	RoundStatusAwaitingNumbers RoundStatusType = "AWAITING_NUMBERS"
	RoundStatusFinished        RoundStatusType = "FINISHED"
	RoundStatusForfeited       RoundStatusType = "FORFEITED"
)

// MatchSide обозначает сторону игрока в матче: создатель ордера всегда сторона A,
// присоединившийся оппонент - сторона B.
type MatchSide string

const (
	SideA MatchSide = "A"
	SideB MatchSide = "B"
)

// Opponent возвращает противоположную сторону.
func (s MatchSide) Opponent() MatchSide {
	if s == SideA {
		return SideB
	}
	return SideA
}

type DirectionType string

const (
	DirectionDebit  DirectionType = "debit"
	DirectionCredit DirectionType = "credit"
)

type TransactionKind string

const (
	TransactionStakeLock       TransactionKind = "STAKE_LOCK"
	TransactionPayout          TransactionKind = "PAYOUT"
	TransactionRefund          TransactionKind = "REFUND"
	TransactionForfeitTransfer TransactionKind = "FORFEIT_TRANSFER"
	TransactionWelcomeBonus    TransactionKind = "WELCOME_BONUS"
	TransactionDeposit         TransactionKind = "DEPOSIT"
)

type DepositStatusType string

const (
	DepositStatusNew        DepositStatusType = "NEW"
	DepositStatusProcessing DepositStatusType = "PROCESSING"
	DepositStatusCredited   DepositStatusType = "CREDITED"
	DepositStatusInvalid    DepositStatusType = "INVALID"
)

// ChipType определяет номинал фишки ставки. Номинал фиксирует стоимость одной игры серии.
type ChipType string

const (
	ChipSmile ChipType = "SMILE"
	ChipHeart ChipType = "HEART"
	ChipFire  ChipType = "FIRE"
	ChipRing  ChipType = "RING"
)

// Границы кол-ва игр в серии.
const (
	MinGamesPlanned int16 = 2
	MaxGamesPlanned int16 = 10
)

var chipValues = map[ChipType]int64{
	ChipSmile: 5,
	ChipHeart: 10,
	ChipFire:  25,
	ChipRing:  50,
}

// Value возвращает стоимость одной игры для данного номинала фишки.
// Вторым значением вернется false для неизвестного номинала.
func (c ChipType) Value() (decimal.Decimal, bool) {
	points, ok := chipValues[c]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(points), true
}

// DealEvent события, изменяющие счетчики надежности юзера.
type DealEvent string

const (
	DealEventMissedConfirmation    DealEvent = "MISSED_CONFIRMATION"
	DealEventDuelCompleted         DealEvent = "DUEL_COMPLETED"
	DealEventDroppedBeforeMinGames DealEvent = "DROPPED_BEFORE_MIN_GAMES"
)

// ReliabilityRank ранг надежности, вычисляемый из коэффициента надежности.
type ReliabilityRank string

const (
	RankTrusted    ReliabilityRank = "TRUSTED"
	RankReliable   ReliabilityRank = "RELIABLE"
	RankAverage    ReliabilityRank = "AVERAGE"
	RankRisky      ReliabilityRank = "RISKY"
	RankUnreliable ReliabilityRank = "UNRELIABLE"
)

// Пороги рангов надежности.
const (
	trustedThreshold  = 0.90
	reliableThreshold = 0.70
	averageThreshold  = 0.50
	riskyThreshold    = 0.30
)

// ReliabilityCoefficient вычисляет коэффициент надежности по счетчикам сделок.
// Юзер без истории считается полностью надежным (1.0).
func ReliabilityCoefficient(completed, total int64) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(completed) / float64(total)
}

// RankForCoefficient возвращает ранг надежности для коэффициента c.
func RankForCoefficient(c float64) ReliabilityRank {
	switch {
	case c >= trustedThreshold:
		return RankTrusted
	case c >= reliableThreshold:
		return RankReliable
	case c >= averageThreshold:
		return RankAverage
	case c >= riskyThreshold:
		return RankRisky
	default:
		return RankUnreliable
	}
}
