package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

type CreateRound struct {
	MatchID    int64
	RoundIndex int16
	Deadline   time.Time
}

// SetPlayerNumber аргументы фиксации числа игрока в раунде. Side определяет,
// какая из двух колонок обновляется.
type SetPlayerNumber struct {
	RoundID int64
	Side    domain.MatchSide
	Number  int32
}

// FinishRound аргументы закрытия раунда результатом генератора.
type FinishRound struct {
	RoundID      int64
	WinnerID     *int64
	IsDraw       bool
	SeedSlice    string
	RandomNumber int32
	TimeSlot     int64
}

// ForfeitRound аргументы закрытия просроченного раунда, в котором число
// отправила ровно одна сторона. ForfeitedBy указывает опоздавшего,
// WinnerID успевшего.
type ForfeitRound struct {
	RoundID     int64
	WinnerID    int64
	ForfeitedBy int64
}
