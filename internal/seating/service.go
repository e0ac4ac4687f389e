package seating

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"ExamSeatPlanner/internal/config"
	"ExamSeatPlanner/internal/placement"
)

var (
	ErrNoActiveRooms    = errors.New("no active rooms")
	ErrCapacityExceeded = errors.New("total students exceed total room capacity")
)

// SeatingService handles business logic for seating arrangements.
type SeatingService struct {
	store   Store
	planner *placement.Planner
	cfg     *config.EngineConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewSeatingService creates a new seating service.
func NewSeatingService(store Store, planner *placement.Planner, cfg *config.EngineConfig, logger *zap.Logger) *SeatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	return &SeatingService{store: store, planner: planner, cfg: cfg, logger: logger, now: time.Now}
}

// GenerateRequest overrides the configured engine defaults for one plan.
type GenerateRequest struct {
	Seed      *int64
	Optimizer string
	Weights   *placement.WeightProfile
}

// PinRequest fixes a student to a room and, optionally, a seat id or desk
// number.
type PinRequest struct {
	StudentID string
	RoomID    string
	SeatID    string
}

// GeneratePlan runs the placement pipeline over every active room and stores
// the result as a draft plan.
func (s *SeatingService) GeneratePlan(ctx context.Context, req GenerateRequest) (*PlacementPlan, error) {
	rooms, err := s.store.ListActiveRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	if len(rooms) == 0 {
		return nil, ErrNoActiveRooms
	}
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	// The distributor skips repeated ids, so only distinct students need seats.
	capacity := lo.SumBy(rooms, func(r placement.Room) int { return r.EffectiveCapacity() })
	unique := len(lo.UniqBy(students, func(st placement.Student) string { return st.ID }))
	if unique > capacity {
		return nil, fmt.Errorf("%w: %d students, %d seats", ErrCapacityExceeded, unique, capacity)
	}

	seed := s.cfg.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	name := s.cfg.Optimizer
	if req.Optimizer != "" {
		name = req.Optimizer
	}
	optimizer, err := s.optimizer(name, seed)
	if err != nil {
		return nil, err
	}

	out, err := s.planner.Run(ctx, students, rooms, placement.RunOptions{
		Seed:      seed,
		Weights:   req.Weights,
		Optimizer: optimizer,
	})
	if err != nil {
		return nil, fmt.Errorf("run placement: %w", err)
	}

	now := s.now()
	plan := &PlacementPlan{
		ID:        primitive.NewObjectID(),
		Seed:      seed,
		Optimizer: name,
		Weights:   req.Weights,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	plan.apply(out.Results, out.Unplaced)
	for _, pin := range out.Pins {
		plan.Pins = append(plan.Pins, newPinRecord(pin, now))
	}
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}

	s.logger.Info("placement plan generated",
		zap.String("plan_id", plan.ID.Hex()),
		zap.Int64("seed", seed),
		zap.String("optimizer", name),
		zap.Int("placed", plan.Report.TotalPlaced),
		zap.Int("unplaced", plan.Report.TotalUnplaced),
	)
	return plan, nil
}

func (s *SeatingService) optimizer(name string, seed int64) (placement.Optimizer, error) {
	return placement.NewOptimizer(name,
		placement.GreedyOptions{
			MaxPasses: s.cfg.GreedyMaxPasses,
			Logger:    s.logger,
		},
		placement.GeneticOptions{
			Population:    s.cfg.Population,
			Generations:   s.cfg.Generations,
			CrossoverRate: s.cfg.CrossoverRate,
			MutationRate:  s.cfg.MutationRate,
			Seed:          seed,
			Logger:        s.logger,
		},
	)
}

// GetPlan retrieves a plan by ID.
func (s *SeatingService) GetPlan(ctx context.Context, id primitive.ObjectID) (*PlacementPlan, error) {
	plan, err := s.store.FindPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (s *SeatingService) ListPlans(ctx context.Context) ([]*PlacementPlan, error) {
	return s.store.ListPlans(ctx)
}

func (s *SeatingService) DeletePlan(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeletePlan(ctx, id)
}

// GetReport returns the stored report of a plan, rebuilding it from the
// seats when the plan has none.
func (s *SeatingService) GetReport(ctx context.Context, id primitive.ObjectID) (*placement.StatsReport, error) {
	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.Report != nil {
		return plan.Report, nil
	}
	results, err := plan.results()
	if err != nil {
		return nil, err
	}
	return placement.BuildReport(results, plan.Unplaced), nil
}

// PinStudent pins a student to a room (and optionally a seat) of a plan,
// evicting whoever sits there. The pin is stored on the student only when
// it could be applied.
func (s *SeatingService) PinStudent(ctx context.Context, planID primitive.ObjectID, req PinRequest) (*PlacementPlan, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	student, err := s.store.FindStudent(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	results, err := plan.results()
	if err != nil {
		return nil, fmt.Errorf("restore plan %s: %w", plan.ID.Hex(), err)
	}
	pinned := *student
	pinned.Pinned = true
	pinned.PinnedRoomID = req.RoomID
	pinned.PinnedSeatID = req.SeatID

	unplaced, outcomes := s.planner.EnforcePinned(results, plan.Unplaced, []placement.Student{pinned})
	outcome := outcomes[0]
	if outcome.Err != nil {
		return nil, outcome.Err
	}
	if err := s.store.UpdateStudentPin(ctx, student.ID, true, req.RoomID, req.SeatID); err != nil {
		return nil, fmt.Errorf("store pin: %w", err)
	}

	now := s.now()
	plan.apply(results, unplaced)
	plan.Pins = append(plan.Pins, newPinRecord(outcome, now))
	plan.UpdatedAt = now
	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}

	s.logger.Info("student pinned",
		zap.String("plan_id", plan.ID.Hex()),
		zap.String("student_id", student.ID),
		zap.String("room_id", outcome.RoomID),
		zap.String("seat_id", outcome.SeatID),
		zap.String("displaced_id", outcome.DisplacedID),
	)
	return plan, nil
}

// UnpinStudent clears a student's pin. The student keeps the seat it holds
// in the plan.
func (s *SeatingService) UnpinStudent(ctx context.Context, planID primitive.ObjectID, studentID string) (*PlacementPlan, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateStudentPin(ctx, studentID, false, "", ""); err != nil {
		return nil, err
	}

	results, err := plan.results()
	if err != nil {
		return nil, fmt.Errorf("restore plan %s: %w", plan.ID.Hex(), err)
	}
	for _, r := range results {
		if seat := r.Layout.Find(studentID); seat != nil {
			st, _ := r.Layout.Vacate(seat)
			st.Pinned, st.PinnedRoomID, st.PinnedSeatID = false, "", ""
			r.Layout.Assign(seat, st)
		}
	}

	plan.apply(results, plan.Unplaced)
	plan.UpdatedAt = s.now()
	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	return plan, nil
}

// Room operations
func (s *SeatingService) ListRooms(ctx context.Context) ([]placement.Room, error) {
	return s.store.ListRooms(ctx)
}

// CreateRoom stores a room after checking its shape resolves into seats.
func (s *SeatingService) CreateRoom(ctx context.Context, room *placement.Room) error {
	if _, err := placement.BuildLayout(*room); err != nil {
		return err
	}
	return s.store.CreateRoom(ctx, room)
}

func (s *SeatingService) UpdateRoom(ctx context.Context, room *placement.Room) error {
	if _, err := placement.BuildLayout(*room); err != nil {
		return err
	}
	return s.store.UpdateRoom(ctx, room)
}

func (s *SeatingService) DeleteRoom(ctx context.Context, id string) error {
	return s.store.DeleteRoom(ctx, id)
}

// Student operations
func (s *SeatingService) ListStudents(ctx context.Context) ([]placement.Student, error) {
	return s.store.ListStudents(ctx)
}

func (s *SeatingService) CreateStudents(ctx context.Context, students []placement.Student) error {
	return s.store.CreateStudents(ctx, students)
}
