package fair

import (
	"fmt"
	"strconv"
)

// Verification результат независимой проверки исхода раунда.
type Verification struct {
	RandomNumber int32
	DistanceA    int32
	DistanceB    int32
	WinnerIndex  int
	IsDraw       bool
}

// Verify воспроизводит исход раунда из опубликованного seedSlice без знания секрета платформы.
// Достаточно seedSlice и чисел обоих игроков: randomNumber и дистанции пересчитываются
// по тем же правилам, что и в Engine.DetermineWinner.
//
// Возвращает ErrBadSeedSlice для строки неверной длины или с не-hex символами и
// ErrNumberOutOfRange для чисел вне диапазона [0, MaxPlayerNumber].
func Verify(seedSlice string, aNumber, bNumber int32) (*Verification, error) {
	if len(seedSlice) != seedSliceLen {
		return nil, fmt.Errorf("%w: expected %d hex chars, got %d", ErrBadSeedSlice, seedSliceLen, len(seedSlice))
	}
	if _, err := strconv.ParseUint(seedSlice, 16, 64); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadSeedSlice, seedSlice)
	}
	if err := validateNumber(aNumber); err != nil {
		return nil, err
	}
	if err := validateNumber(bNumber); err != nil {
		return nil, err
	}

	randomNumber := randomFromSlice(seedSlice)
	distanceA, distanceB, winnerIndex := resolve(aNumber, bNumber, randomNumber)

	return &Verification{
		RandomNumber: randomNumber,
		DistanceA:    distanceA,
		DistanceB:    distanceB,
		WinnerIndex:  winnerIndex,
		IsDraw:       winnerIndex == WinnerNone,
	}, nil
}

// Matches сравнивает заявленный индекс победителя с пересчитанным.
func (v *Verification) Matches(claimedWinnerIndex int) bool {
	return v.WinnerIndex == claimedWinnerIndex
}
