package seating

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ExamSeatPlanner/internal/placement"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrPlanNotFound    = errors.New("placement plan not found")
)

// Store is the persistence the seating service depends on.
type Store interface {
	ListActiveRooms(ctx context.Context) ([]placement.Room, error)
	ListRooms(ctx context.Context) ([]placement.Room, error)
	CreateRoom(ctx context.Context, room *placement.Room) error
	UpdateRoom(ctx context.Context, room *placement.Room) error
	DeleteRoom(ctx context.Context, id string) error

	ListStudents(ctx context.Context) ([]placement.Student, error)
	CreateStudents(ctx context.Context, students []placement.Student) error
	FindStudent(ctx context.Context, id string) (*placement.Student, error)
	UpdateStudentPin(ctx context.Context, id string, pinned bool, roomID, seatID string) error

	CreatePlan(ctx context.Context, plan *PlacementPlan) error
	FindPlan(ctx context.Context, id primitive.ObjectID) (*PlacementPlan, error)
	UpdatePlan(ctx context.Context, plan *PlacementPlan) error
	ListPlans(ctx context.Context) ([]*PlacementPlan, error)
	DeletePlan(ctx context.Context, id primitive.ObjectID) error
}

// SeatingRepository handles DB operations for seating-related entities.
type SeatingRepository struct {
	roomsCollection    *mongo.Collection
	studentsCollection *mongo.Collection
	plansCollection    *mongo.Collection
}

// NewSeatingRepository creates a new repository for seating operations.
func NewSeatingRepository(db *mongo.Database) *SeatingRepository {
	return &SeatingRepository{
		roomsCollection:    db.Collection("rooms"),
		studentsCollection: db.Collection("students"),
		plansCollection:    db.Collection("placement_plans"),
	}
}

var byID = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

// Room operations
func (r *SeatingRepository) ListActiveRooms(ctx context.Context) ([]placement.Room, error) {
	return r.findRooms(ctx, bson.M{"active": true})
}

func (r *SeatingRepository) ListRooms(ctx context.Context) ([]placement.Room, error) {
	return r.findRooms(ctx, bson.M{})
}

func (r *SeatingRepository) findRooms(ctx context.Context, filter bson.M) ([]placement.Room, error) {
	cursor, err := r.roomsCollection.Find(ctx, filter, byID)
	if err != nil {
		return nil, err
	}
	var rooms []placement.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *SeatingRepository) CreateRoom(ctx context.Context, room *placement.Room) error {
	if room.ID == "" {
		room.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.roomsCollection.InsertOne(ctx, room)
	return err
}

func (r *SeatingRepository) UpdateRoom(ctx context.Context, room *placement.Room) error {
	res, err := r.roomsCollection.ReplaceOne(ctx, bson.M{"_id": room.ID}, room)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (r *SeatingRepository) DeleteRoom(ctx context.Context, id string) error {
	res, err := r.roomsCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// Student operations
func (r *SeatingRepository) ListStudents(ctx context.Context) ([]placement.Student, error) {
	cursor, err := r.studentsCollection.Find(ctx, bson.M{}, byID)
	if err != nil {
		return nil, err
	}
	var students []placement.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *SeatingRepository) CreateStudents(ctx context.Context, students []placement.Student) error {
	if len(students) == 0 {
		return nil
	}
	docs := make([]interface{}, len(students))
	for i := range students {
		if students[i].ID == "" {
			students[i].ID = primitive.NewObjectID().Hex()
		}
		docs[i] = students[i]
	}
	_, err := r.studentsCollection.InsertMany(ctx, docs)
	return err
}

func (r *SeatingRepository) FindStudent(ctx context.Context, id string) (*placement.Student, error) {
	var student placement.Student
	err := r.studentsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *SeatingRepository) UpdateStudentPin(ctx context.Context, id string, pinned bool, roomID, seatID string) error {
	update := bson.M{"$set": bson.M{
		"pinned":         pinned,
		"pinned_room_id": roomID,
		"pinned_seat_id": seatID,
	}}
	res, err := r.studentsCollection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// PlacementPlan operations
func (r *SeatingRepository) CreatePlan(ctx context.Context, plan *PlacementPlan) error {
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	_, err := r.plansCollection.InsertOne(ctx, plan)
	return err
}

func (r *SeatingRepository) FindPlan(ctx context.Context, id primitive.ObjectID) (*PlacementPlan, error) {
	var plan PlacementPlan
	err := r.plansCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SeatingRepository) UpdatePlan(ctx context.Context, plan *PlacementPlan) error {
	res, err := r.plansCollection.ReplaceOne(ctx, bson.M{"_id": plan.ID}, plan)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// ListPlans returns plan summaries, newest first, without their seat data.
func (r *SeatingRepository) ListPlans(ctx context.Context) ([]*PlacementPlan, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"rooms.seats": 0, "unplaced": 0})
	cursor, err := r.plansCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var plans []*PlacementPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *SeatingRepository) DeletePlan(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.plansCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPlanNotFound
	}
	return nil
}
