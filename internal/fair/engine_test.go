package fair

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

const testSecret = "test-platform-secret"

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	engine, err := New([]byte(testSecret))
	s.Require().NoError(err)
	s.engine = engine
}

func (s *EngineTestSuite) TestNewEmptySecret() {
	_, err := New(nil)
	s.Require().ErrorIs(err, ErrEmptySecret)

	_, err = New([]byte{})
	s.Require().ErrorIs(err, ErrEmptySecret)
}

// TestGoldenFixture фиксирует байтовую стабильность алгоритма: любые изменения порядка
// склейки seedInput, длины среза или модуля сломают этот тест.
func (s *EngineTestSuite) TestGoldenFixture() {
	outcome, err := s.engine.DetermineWinner("d1", 1, 1000,
		Pick{PlayerID: "alice", Number: 500000},
		Pick{PlayerID: "bob", Number: 500010},
	)
	s.Require().NoError(err)

	s.Equal("d1:1:1000:alice:500000:bob:500010", outcome.SeedInput)
	s.Equal("3794a6eb", outcome.SeedSlice)
	s.Equal(int32(488939), outcome.RandomNumber)
	s.Equal(int32(11061), outcome.DistanceA)
	s.Equal(int32(11071), outcome.DistanceB)
	s.Equal(WinnerA, outcome.WinnerIndex)
	s.False(outcome.IsDraw)
	s.NotEmpty(outcome.Formula)

	// Исход воспроизводим без секрета по опубликованному seedSlice.
	verification, verErr := Verify(outcome.SeedSlice, 500000, 500010)
	s.Require().NoError(verErr)
	s.Equal(outcome.RandomNumber, verification.RandomNumber)
	s.Equal(outcome.DistanceA, verification.DistanceA)
	s.Equal(outcome.DistanceB, verification.DistanceB)
	s.Equal(outcome.WinnerIndex, verification.WinnerIndex)
	s.True(verification.Matches(outcome.WinnerIndex))
}

func (s *EngineTestSuite) TestDeterminism() {
	a := Pick{PlayerID: "alice", Number: 500000}
	b := Pick{PlayerID: "bob", Number: 500010}

	first, firstErr := s.engine.DetermineWinner("d1", 1, 1000, a, b)
	s.Require().NoError(firstErr)
	second, secondErr := s.engine.DetermineWinner("d1", 1, 1000, a, b)
	s.Require().NoError(secondErr)
	s.Equal(first, second)

	// Другой таймслот дает другой дайджест.
	other, otherErr := s.engine.DetermineWinner("d1", 1, 1001, a, b)
	s.Require().NoError(otherErr)
	s.Equal("aa5dc5ba", other.SeedSlice)
	s.NotEqual(first.SeedSlice, other.SeedSlice)
}

func (s *EngineTestSuite) TestEqualNumbersAlwaysDraw() {
	outcome, err := s.engine.DetermineWinner("d1", 2, 1000,
		Pick{PlayerID: "alice", Number: 333333},
		Pick{PlayerID: "bob", Number: 333333},
	)
	s.Require().NoError(err)
	s.True(outcome.IsDraw)
	s.Equal(WinnerNone, outcome.WinnerIndex)
	s.Equal(outcome.DistanceA, outcome.DistanceB)
}

func (s *EngineTestSuite) TestNumberValidation() {
	cases := []struct {
		name    string
		aNumber int32
		bNumber int32
		wantErr error
	}{
		{name: "negative a", aNumber: -1, bNumber: 100, wantErr: ErrNumberOutOfRange},
		{name: "too big b", aNumber: 100, bNumber: 1000000, wantErr: ErrNumberOutOfRange},
		{name: "lower bound ok", aNumber: 0, bNumber: 100, wantErr: nil},
		{name: "upper bound ok", aNumber: 100, bNumber: 999999, wantErr: nil},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			_, err := s.engine.DetermineWinner("d1", 1, 1000,
				Pick{PlayerID: "alice", Number: t.aNumber},
				Pick{PlayerID: "bob", Number: t.bNumber},
			)
			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
			} else {
				s.Require().NoError(err)
			}
		})
	}
}

// TestDrawRateShape проверяет форму распределения ничьих: ничья случается только при точном
// совпадении дистанций, то есть с вероятностью порядка 1/1_000_000, а не 1/1000.
// При числах 400000 и 600000 ничья возможна лишь когда randomNumber равен ровно 500000.
func (s *EngineTestSuite) TestDrawRateShape() {
	if testing.Short() {
		s.T().Skip("skipping statistical test in short mode")
	}

	const iterations = 2_000_000
	a := Pick{PlayerID: "alice", Number: 400000}
	b := Pick{PlayerID: "bob", Number: 600000}

	var draws int
	for i := range iterations {
		outcome, err := s.engine.DetermineWinner(fmt.Sprintf("m-%d", i), 1, 1000, a, b)
		s.Require().NoError(err)
		if outcome.IsDraw {
			draws++
		}
	}

	// Ожидаемое значение около 2. Порог в 200 на три порядка ниже частоты 1/1000
	// (при которой вышло бы около 2000 ничьих).
	s.Less(draws, 200)
}
