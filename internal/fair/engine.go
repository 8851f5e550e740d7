// Package fair реализует провабли-фейр определение победителя раунда на базе HMAC-SHA256.
// Пакет чистый: не имеет состояния кроме секрета платформы и не обращается к хранилищу.
package fair

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	// MaxPlayerNumber максимальное значение числа игрока (включительно).
	MaxPlayerNumber int32 = 999999

	// timeSlotWindowMs ширина окна таймслота в миллисекундах.
	timeSlotWindowMs int64 = 30_000

	// seedSliceLen кол-во hex символов дайджеста, участвующих в генерации случайного числа.
	seedSliceLen = 8

	// randomModulo модуль приведения случайного числа к диапазону [0, 999999].
	randomModulo uint64 = 1_000_000
)

// Индексы победителя. Совпадают с порядком игроков в seedInput.
const (
	WinnerA    = 0
	WinnerB    = 1
	WinnerNone = -1
)

var (
	ErrEmptySecret      = errors.New("[fair] empty platform secret")
	ErrNumberOutOfRange = errors.New("[fair] player number out of range")
	ErrBadSeedSlice     = errors.New("[fair] malformed seed slice")
)

// Pick представляет выбор одного игрока в раунде.
type Pick struct {
	PlayerID string
	Number   int32
}

// Outcome результат вычисления раунда. Сохраняется как авторитетный:
// повторные чтения никогда не пересчитывают исход.
type Outcome struct {
	SeedInput    string
	SeedSlice    string
	RandomNumber int32
	DistanceA    int32
	DistanceB    int32
	WinnerIndex  int
	IsDraw       bool
	Formula      string
}

// Engine вычисляет исходы раундов с использованием секрета платформы.
type Engine struct {
	secret []byte
}

func New(secret []byte) (*Engine, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &Engine{secret: s}, nil
}

// TimeSlot возвращает номер 30-секундного окна для момента времени t.
func TimeSlot(t time.Time) int64 {
	return t.UnixMilli() / timeSlotWindowMs
}

// DetermineWinner вычисляет исход раунда.
//
// Параметры:
//   - duelID: публичный идентификатор дуэли
//   - roundNumber: номер раунда начиная с 1
//   - timeSlot: номер 30-секундного окна (см. TimeSlot)
//   - a, b: выборы игроков; сторона A - создатель ордера.
//
// Алгоритм работы:
//  1. Проверяет что оба числа в диапазоне [0, MaxPlayerNumber].
//  2. Склеивает вход seedInput из идентификатора дуэли, номера раунда, таймслота
//     и пар "игрок:число" через двоеточие.
//  3. Берет HMAC-SHA256 от seedInput на секрете платформы, первые 8 hex символов
//     дайджеста образуют seedSlice.
//  4. randomNumber = parseHex(seedSlice) mod 1_000_000.
//  5. Побеждает игрок со строго меньшей дистанцией |число - randomNumber|.
//     Равные дистанции означают ничью.
//
// Исход полностью детерминирован входными аргументами и секретом.
func (e *Engine) DetermineWinner(duelID string, roundNumber int, timeSlot int64, a, b Pick) (*Outcome, error) {
	if err := validateNumber(a.Number); err != nil {
		return nil, fmt.Errorf("player %s: %w", a.PlayerID, err)
	}
	if err := validateNumber(b.Number); err != nil {
		return nil, fmt.Errorf("player %s: %w", b.PlayerID, err)
	}

	seedInput := fmt.Sprintf("%s:%d:%d:%s:%d:%s:%d",
		duelID, roundNumber, timeSlot, a.PlayerID, a.Number, b.PlayerID, b.Number)

	mac := hmac.New(sha256.New, e.secret)
	mac.Write([]byte(seedInput))
	seedSlice := hex.EncodeToString(mac.Sum(nil))[:seedSliceLen]

	randomNumber := randomFromSlice(seedSlice)
	distanceA, distanceB, winnerIndex := resolve(a.Number, b.Number, randomNumber)

	return &Outcome{
		SeedInput:    seedInput,
		SeedSlice:    seedSlice,
		RandomNumber: randomNumber,
		DistanceA:    distanceA,
		DistanceB:    distanceB,
		WinnerIndex:  winnerIndex,
		IsDraw:       winnerIndex == WinnerNone,
		Formula: fmt.Sprintf("randomNumber = parseHex(%s) mod %d = %d; distanceA = |%d - %d| = %d; distanceB = |%d - %d| = %d",
			seedSlice, randomModulo, randomNumber,
			a.Number, randomNumber, distanceA,
			b.Number, randomNumber, distanceB),
	}, nil
}

func validateNumber(n int32) error {
	if n < 0 || n > MaxPlayerNumber {
		return fmt.Errorf("%w: %d", ErrNumberOutOfRange, n)
	}
	return nil
}

// randomFromSlice конвертирует 8 hex символов в число диапазона [0, 999999].
// Вызывающий обязан гарантировать что slice состоит из hex символов.
func randomFromSlice(seedSlice string) int32 {
	value, _ := strconv.ParseUint(seedSlice, 16, 64)
	return int32(value % randomModulo) //nolint:gosec
}

// resolve сравнивает дистанции обоих игроков до случайного числа.
func resolve(aNumber, bNumber, randomNumber int32) (int32, int32, int) {
	distanceA := distance(aNumber, randomNumber)
	distanceB := distance(bNumber, randomNumber)

	switch {
	case distanceA < distanceB:
		return distanceA, distanceB, WinnerA
	case distanceB < distanceA:
		return distanceA, distanceB, WinnerB
	default:
		return distanceA, distanceB, WinnerNone
	}
}

func distance(n, randomNumber int32) int32 {
	d := n - randomNumber
	if d < 0 {
		return -d
	}
	return d
}
