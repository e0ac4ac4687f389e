package seating

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"ExamSeatPlanner/internal/placement"
)

// SeatingHandler handles HTTP requests for seating operations.
type SeatingHandler struct {
	service  *SeatingService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSeatingHandler creates a new SeatingHandler.
func NewSeatingHandler(service *SeatingService, logger *zap.Logger) *SeatingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeatingHandler{service: service, validate: validator.New(), logger: logger}
}

// WeightsRequest carries a custom weight profile. Every weight lies in
// [0.1, 1.0]; the engine renormalizes them.
type WeightsRequest struct {
	MedicalNeeds       float64 `json:"medicalNeeds" validate:"gte=0.1,lte=1"`
	GroupPreservation  float64 `json:"groupPreservation" validate:"gte=0.1,lte=1"`
	GenderBalance      float64 `json:"genderBalance" validate:"gte=0.1,lte=1"`
	ClassLevelMix      float64 `json:"classLevelMix" validate:"gte=0.1,lte=1"`
	AcademicSimilarity float64 `json:"academicSimilarity" validate:"gte=0.1,lte=1"`
}

// GeneratePlanRequest represents the request to generate a placement plan.
type GeneratePlanRequest struct {
	Seed      *int64          `json:"seed" validate:"omitempty,gte=0"`
	Optimizer string          `json:"optimizer" validate:"omitempty,oneof=none greedy genetic"`
	Weights   *WeightsRequest `json:"weights"`
}

// RoomRequest represents the request to create or replace a room.
type RoomRequest struct {
	Code     string              `json:"code" validate:"max=32"`
	Name     string              `json:"name" validate:"required"`
	Active   *bool               `json:"active"`
	Capacity int                 `json:"capacity" validate:"gte=0"`
	Shape    placement.RoomShape `json:"shape"`
}

// StudentRequest represents one student of a bulk import.
type StudentRequest struct {
	ID            string `json:"id" validate:"max=64"`
	Name          string `json:"name" validate:"required"`
	ClassLabel    string `json:"classLabel" validate:"required"`
	Gender        string `json:"gender" validate:"max=16"`
	MedicalNeed   bool   `json:"medicalNeed"`
	Disability    bool   `json:"disability"`
	SpecialNeed   bool   `json:"specialNeed"`
	KeepWithGroup bool   `json:"keepWithGroup"`
	AcademicGroup string `json:"academicGroup"`
}

// CreateStudentsRequest represents a bulk student import.
type CreateStudentsRequest struct {
	Students []StudentRequest `json:"students" validate:"required,min=1,dive"`
}

// PinStudentRequest pins a student to a room and optionally a seat id or
// desk number.
type PinStudentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	RoomID    string `json:"roomId" validate:"required"`
	SeatID    string `json:"seatId"`
}

// Healthz reports liveness.
func (h *SeatingHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GeneratePlan runs the placement pipeline and stores a draft plan.
func (h *SeatingHandler) GeneratePlan(c echo.Context) error {
	var req GeneratePlanRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	gen := GenerateRequest{Seed: req.Seed, Optimizer: req.Optimizer}
	if w := req.Weights; w != nil {
		gen.Weights = &placement.WeightProfile{
			MedicalNeeds:       w.MedicalNeeds,
			GroupPreservation:  w.GroupPreservation,
			GenderBalance:      w.GenderBalance,
			ClassLevelMix:      w.ClassLevelMix,
			AcademicSimilarity: w.AcademicSimilarity,
		}
	}

	plan, err := h.service.GeneratePlan(c.Request().Context(), gen)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, plan)
}

func (h *SeatingHandler) ListPlans(c echo.Context) error {
	plans, err := h.service.ListPlans(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if plans == nil {
		plans = []*PlacementPlan{}
	}
	return c.JSON(http.StatusOK, plans)
}

// GetPlan retrieves a placement plan by ID.
func (h *SeatingHandler) GetPlan(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return err
	}
	plan, err := h.service.GetPlan(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *SeatingHandler) DeletePlan(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeletePlan(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetReport returns the statistics report of a plan.
func (h *SeatingHandler) GetReport(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return err
	}
	report, err := h.service.GetReport(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// PinStudent applies a pin to a stored plan.
func (h *SeatingHandler) PinStudent(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return err
	}
	var req PinStudentRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	plan, err := h.service.PinStudent(c.Request().Context(), id, PinRequest(req))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *SeatingHandler) UnpinStudent(c echo.Context) error {
	id, err := planID(c)
	if err != nil {
		return err
	}
	plan, err := h.service.UnpinStudent(c.Request().Context(), id, c.Param("studentId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *SeatingHandler) ListRooms(c echo.Context) error {
	rooms, err := h.service.ListRooms(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if rooms == nil {
		rooms = []placement.Room{}
	}
	return c.JSON(http.StatusOK, rooms)
}

// CreateRoom allows admins to create a new room.
func (h *SeatingHandler) CreateRoom(c echo.Context) error {
	var req RoomRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	room := req.room("")
	if err := h.service.CreateRoom(c.Request().Context(), &room); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *SeatingHandler) UpdateRoom(c echo.Context) error {
	var req RoomRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	room := req.room(c.Param("id"))
	if err := h.service.UpdateRoom(c.Request().Context(), &room); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

func (h *SeatingHandler) DeleteRoom(c echo.Context) error {
	if err := h.service.DeleteRoom(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SeatingHandler) ListStudents(c echo.Context) error {
	students, err := h.service.ListStudents(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if students == nil {
		students = []placement.Student{}
	}
	return c.JSON(http.StatusOK, students)
}

// CreateStudents imports a batch of students.
func (h *SeatingHandler) CreateStudents(c echo.Context) error {
	var req CreateStudentsRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	students := make([]placement.Student, len(req.Students))
	for i, s := range req.Students {
		students[i] = placement.Student{
			ID:            s.ID,
			Name:          s.Name,
			ClassLabel:    s.ClassLabel,
			Gender:        s.Gender,
			MedicalNeed:   s.MedicalNeed,
			Disability:    s.Disability,
			SpecialNeed:   s.SpecialNeed,
			KeepWithGroup: s.KeepWithGroup,
			AcademicGroup: s.AcademicGroup,
		}
	}
	if err := h.service.CreateStudents(c.Request().Context(), students); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, students)
}

func (r RoomRequest) room(id string) placement.Room {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return placement.Room{
		ID:       id,
		Code:     r.Code,
		Name:     r.Name,
		Active:   active,
		Capacity: r.Capacity,
		Shape:    r.Shape,
	}
}

// bind decodes and validates the body, returning a 400 HTTPError on failure.
func (h *SeatingHandler) bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return nil
}

func planID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "Invalid plan ID"})
	}
	return id, nil
}

// fail maps service errors onto status codes.
func (h *SeatingHandler) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrPlanNotFound),
		errors.Is(err, ErrStudentNotFound),
		errors.Is(err, ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, placement.ErrRoomNotFound),
		errors.Is(err, placement.ErrSeatNotResolved):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrNoActiveRooms),
		errors.Is(err, placement.ErrInvalidArrangement),
		errors.Is(err, placement.ErrDuplicateSeat),
		errors.Is(err, placement.ErrInvalidWeights),
		errors.Is(err, placement.ErrUnknownOptimizer):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.JSON(status, map[string]string{"error": "internal error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
