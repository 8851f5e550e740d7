package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"time"
)

type User struct {
	ID             int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string
	Password       string
	Balance        decimal.Decimal
	TotalDeals     int64
	CompletedDeals int64
	TelegramChatID *int64
}

// ReliabilityCoefficient возвращает коэффициент надежности юзера: доля завершенных сделок
// от общего числа. Для юзера без сделок возвращает 1.0.
func (u *User) ReliabilityCoefficient() float64 {
	return ReliabilityCoefficient(u.CompletedDeals, u.TotalDeals)
}

type Order struct {
	ID                   int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
	PublicID             uuid.UUID
	UserID               int64
	ChipType             ChipType
	StakePerGame         decimal.Decimal
	GamesPlanned         int16
	Status               OrderStatusType
	OpponentID           *int64
	ConfirmationDeadline *time.Time
	MissedConfirms       int16
}

// StakeTotal возвращает полную ставку за серию: ставка за игру умноженная на кол-во игр.
func (o *Order) StakeTotal() decimal.Decimal {
	return o.StakePerGame.Mul(decimal.NewFromInt(int64(o.GamesPlanned)))
}

type Match struct {
	ID           int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PublicID     uuid.UUID
	OrderID      int64
	PlayerAID    int64
	PlayerBID    int64
	StakePerGame decimal.Decimal
	GamesPlanned int16
	GamesPlayed  int16
	WinsA        int16
	WinsB        int16
	Draws        int16
	Status       MatchStatusType
	WinnerID     *int64
	FinishReason *FinishReasonType
}

// SideOf возвращает сторону юзера в матче. Вторым значением вернется false, если юзер
// в матче не участвует.
func (m *Match) SideOf(userID int64) (MatchSide, bool) {
	switch userID {
	case m.PlayerAID:
		return SideA, true
	case m.PlayerBID:
		return SideB, true
	default:
		return "", false
	}
}

// PlayerID возвращает id игрока занимающего сторону side.
func (m *Match) PlayerID(side MatchSide) int64 {
	if side == SideB {
		return m.PlayerBID
	}
	return m.PlayerAID
}

// StakeTotal возвращает полную ставку одного игрока за серию.
func (m *Match) StakeTotal() decimal.Decimal {
	return m.StakePerGame.Mul(decimal.NewFromInt(int64(m.GamesPlanned)))
}

type Round struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	MatchID       int64
	RoundIndex    int16
	Deadline      time.Time
	PlayerANumber *int32
	PlayerBNumber *int32
	Status        RoundStatusType
	WinnerID      *int64
	IsDraw        bool
	SeedSlice     *string
	RandomNumber  *int32
	TimeSlot      *int64
	ForfeitedBy   *int64
}

// NumberOf возвращает число, загаданное стороной side, или nil если число еще не отправлено.
func (r *Round) NumberOf(side MatchSide) *int32 {
	if side == SideB {
		return r.PlayerBNumber
	}
	return r.PlayerANumber
}

type BalanceTransaction struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    int64
	Direction DirectionType
	Kind      TransactionKind
	Amount    decimal.Decimal
	OrderID   *int64
	MatchID   *int64
}

type DepositTicket struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    int64
	Code      string
	Status    DepositStatusType
	Amount    decimal.Decimal
	Attempts  int16
}
