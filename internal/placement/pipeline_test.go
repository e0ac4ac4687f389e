package placement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"ExamSeatPlanner/internal/placement"
)

type PipelineSuite struct {
	suite.Suite
	ctx     context.Context
	planner *placement.Planner
	rooms   []placement.Room
}

func (s *PipelineSuite) SetupTest() {
	s.ctx = context.Background()
	s.planner = placement.NewPlanner(nil)
	s.rooms = []placement.Room{
		generatedRoom("A", placement.ArrangementDouble, placement.GroupSpec{ID: 1, RowCount: 4}, placement.GroupSpec{ID: 2, RowCount: 3}),
		generatedRoom("B", placement.ArrangementSingle, placement.GroupSpec{ID: 1, RowCount: 5}, placement.GroupSpec{ID: 2, RowCount: 5}),
		{ID: "C", Name: "Closed", Active: false},
	}
}

func (s *PipelineSuite) TestRunPlacesEveryoneOnce() {
	all := students(12, "9-A", "10-B")
	all[3].Pinned = true
	all[3].PinnedRoomID = "B"
	all[3].PinnedSeatID = "B-R1C1"

	for _, name := range []string{placement.OptimizerNone, placement.OptimizerGreedy, placement.OptimizerGenetic} {
		opt, err := placement.NewOptimizer(name, placement.DefaultGreedyOptions(), placement.GeneticOptions{Population: 8, Generations: 5, Seed: 1})
		require.NoError(s.T(), err)

		out, err := s.planner.Run(s.ctx, all, s.rooms, placement.RunOptions{Seed: 1, Optimizer: opt})
		require.NoError(s.T(), err, name)
		require.Len(s.T(), out.Results, 2)
		require.Equal(s.T(), []string{"A", "B"}, []string{out.Results[0].RoomID, out.Results[1].RoomID})

		seen := map[string]bool{}
		for _, r := range out.Results {
			for _, st := range r.Placed() {
				require.False(s.T(), seen[st.ID], "%s placed twice with %s", st.ID, name)
				seen[st.ID] = true
			}
		}
		for _, st := range out.Unplaced {
			require.False(s.T(), seen[st.ID])
		}
		require.Equal(s.T(), len(all), len(seen)+len(out.Unplaced))
		require.Equal(s.T(), len(seen), out.Report.TotalPlaced)

		require.Len(s.T(), out.Pins, 1)
		require.NoError(s.T(), out.Pins[0].Err)
		require.Equal(s.T(), all[3].ID, out.Results[1].Layout.Seat("B-R1C1").Occupant.ID, name)
	}
}

func (s *PipelineSuite) TestRunIsDeterministic() {
	all := students(9, "10-A", "11-A", "12-A")
	opts := placement.RunOptions{Seed: 5, Optimizer: placement.NewGreedyOptimizer(placement.DefaultGreedyOptions())}

	a, err := s.planner.Run(s.ctx, all, s.rooms, opts)
	require.NoError(s.T(), err)
	b, err := s.planner.Run(s.ctx, all, s.rooms, opts)
	require.NoError(s.T(), err)

	for i := range a.Results {
		require.Equal(s.T(), a.Results[i].Layout.Snapshot(), b.Results[i].Layout.Snapshot())
	}
	require.Equal(s.T(), a.Report, b.Report)
}

func (s *PipelineSuite) TestRunWithWeights() {
	w := placement.DefaultWeightProfile()
	w.GenderBalance = 1
	out, err := s.planner.Run(s.ctx, students(4, "10-A", "11-A"), s.rooms, placement.RunOptions{Seed: 2, Weights: &w})
	require.NoError(s.T(), err)
	require.Equal(s.T(), 8, out.Report.TotalPlaced)
	require.Equal(s.T(), 1.0, w.GenderBalance, "caller's profile is not normalized in place")

	w.GenderBalance = 2
	_, err = s.planner.Run(s.ctx, nil, s.rooms, placement.RunOptions{Weights: &w})
	require.ErrorIs(s.T(), err, placement.ErrInvalidWeights)
}

func (s *PipelineSuite) TestRunErrors() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.planner.Run(ctx, students(2, "10-A"), s.rooms, placement.RunOptions{})
	require.ErrorIs(s.T(), err, context.Canceled)

	bad := append(s.rooms, generatedRoom("X", "ring", placement.GroupSpec{ID: 1, RowCount: 1}))
	_, err = s.planner.Run(s.ctx, students(2, "10-A"), bad, placement.RunOptions{})
	require.ErrorIs(s.T(), err, placement.ErrInvalidArrangement)
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}
