package domain

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type DTOTestSuite struct {
	suite.Suite
}

func TestDTOSuite(t *testing.T) {
	suite.Run(t, new(DTOTestSuite))
}

func (s *DTOTestSuite) TestReliabilityCoefficient() {
	cases := []struct {
		name      string
		completed int64
		total     int64
		want      float64
	}{
		{name: "no history counts as fully reliable", completed: 0, total: 0, want: 1.0},
		{name: "all deals completed", completed: 10, total: 10, want: 1.0},
		{name: "partial history", completed: 9, total: 10, want: 0.9},
		{name: "nothing completed", completed: 0, total: 4, want: 0.0},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			s.InDelta(t.want, ReliabilityCoefficient(t.completed, t.total), 1e-9)
		})
	}
}

func (s *DTOTestSuite) TestRankForCoefficient() {
	// Пороги рангов включают нижнюю границу.
	cases := []struct {
		name        string
		coefficient float64
		want        ReliabilityRank
	}{
		{name: "perfect history", coefficient: 1.0, want: RankTrusted},
		{name: "trusted lower bound", coefficient: 0.90, want: RankTrusted},
		{name: "just below trusted", coefficient: 0.89, want: RankReliable},
		{name: "reliable lower bound", coefficient: 0.70, want: RankReliable},
		{name: "just below reliable", coefficient: 0.69, want: RankAverage},
		{name: "average lower bound", coefficient: 0.50, want: RankAverage},
		{name: "just below average", coefficient: 0.49, want: RankRisky},
		{name: "risky lower bound", coefficient: 0.30, want: RankRisky},
		{name: "just below risky", coefficient: 0.29, want: RankUnreliable},
		{name: "zero coefficient", coefficient: 0.0, want: RankUnreliable},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			s.Equal(t.want, RankForCoefficient(t.coefficient))
		})
	}
}

func (s *DTOTestSuite) TestRankFromCounters() {
	// Деления небольших целых на 10 попадают ровно на пороговые значения.
	cases := []struct {
		name      string
		completed int64
		total     int64
		want      ReliabilityRank
	}{
		{name: "fresh user is trusted", completed: 0, total: 0, want: RankTrusted},
		{name: "nine of ten is trusted", completed: 9, total: 10, want: RankTrusted},
		{name: "seven of ten is reliable", completed: 7, total: 10, want: RankReliable},
		{name: "five of ten is average", completed: 5, total: 10, want: RankAverage},
		{name: "three of ten is risky", completed: 3, total: 10, want: RankRisky},
		{name: "two of ten is unreliable", completed: 2, total: 10, want: RankUnreliable},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			s.Equal(t.want, RankForCoefficient(ReliabilityCoefficient(t.completed, t.total)))
		})
	}
}

func (s *DTOTestSuite) TestChipValue() {
	cases := []struct {
		chip ChipType
		want int64
	}{
		{chip: ChipSmile, want: 5},
		{chip: ChipHeart, want: 10},
		{chip: ChipFire, want: 25},
		{chip: ChipRing, want: 50},
	}

	for _, t := range cases {
		s.Run(string(t.chip), func() {
			value, ok := t.chip.Value()
			s.True(ok)
			s.Equal(t.want, value.IntPart())
		})
	}

	_, ok := ChipType("COIN").Value()
	s.False(ok)
}

func (s *DTOTestSuite) TestMatchSideHelpers() {
	s.Equal(SideB, SideA.Opponent())
	s.Equal(SideA, SideB.Opponent())

	match := Match{PlayerAID: 10, PlayerBID: 20}

	side, ok := match.SideOf(10)
	s.True(ok)
	s.Equal(SideA, side)

	side, ok = match.SideOf(20)
	s.True(ok)
	s.Equal(SideB, side)

	_, ok = match.SideOf(30)
	s.False(ok)

	s.Equal(int64(10), match.PlayerID(SideA))
	s.Equal(int64(20), match.PlayerID(SideB))
}
