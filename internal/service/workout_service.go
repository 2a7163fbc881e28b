package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrNotOwner        = errors.New("not authorized to access this workout")
)

// ValidationError reports every missing or invalid field of a create or
// update request at once, unlike the first-failure credential checks.
type ValidationError struct {
	EmptyFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please fill in all the fields: %s", strings.Join(e.EmptyFields, ", "))
}

// WorkoutInput carries the caller-supplied fields of a workout record.
type WorkoutInput struct {
	ExerciseName string
	Date         time.Time
	Sets         []domain.Set
}

// ProgressPoint is one entry of a per-exercise progress series: the max
// weight lifted and the total volume (weight x repetitions summed over
// all sets) of a single workout record.
type ProgressPoint struct {
	Date        time.Time `json:"date"`
	MaxWeight   float64   `json:"maxWeight"`
	TotalVolume float64   `json:"totalVolume"`
}

// WorkoutService implements ownership-enforcing CRUD on workout records.
// Every operation takes the authenticated owner's id; Get, Update and
// Delete distinguish a missing record (ErrWorkoutNotFound) from one
// owned by someone else (ErrNotOwner).
type WorkoutService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error)
	Get(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error)
	Update(ctx context.Context, ownerID, workoutID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error)
	Delete(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error)
	Progress(ctx context.Context, ownerID primitive.ObjectID, exerciseName string) ([]ProgressPoint, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
	}
}

// Create validates the input and persists a new record owned by ownerID.
func (s *workoutService) Create(ctx context.Context, ownerID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error) {
	if err := validateWorkoutInput(input); err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		UserID:       ownerID,
		Date:         input.Date,
		ExerciseName: strings.TrimSpace(input.ExerciseName),
		Sets:         input.Sets,
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	return workout, nil
}

// Get loads one record and enforces ownership.
func (s *workoutService) Get(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return workout, nil
}

// List returns the owner's records, most recently created first.
func (s *workoutService) List(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error) {
	return s.workoutRepo.GetByUserID(ctx, ownerID)
}

// Update replaces the record's fields after the same validation as Create.
// The repository write is conditioned on both id and owner, so the record
// cannot change hands between the ownership check and the write.
func (s *workoutService) Update(ctx context.Context, ownerID, workoutID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error) {
	existing, err := s.Get(ctx, ownerID, workoutID)
	if err != nil {
		return nil, err
	}

	if err := validateWorkoutInput(input); err != nil {
		return nil, err
	}

	existing.Date = input.Date
	existing.ExerciseName = strings.TrimSpace(input.ExerciseName)
	existing.Sets = input.Sets

	// The repository stamps UpdatedAt on the struct with the value it writes.
	if err := s.workoutRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Deleted concurrently since the ownership check.
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return existing, nil
}

// Delete removes the record and returns an echo of what was deleted.
func (s *workoutService) Delete(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	existing, err := s.Get(ctx, ownerID, workoutID)
	if err != nil {
		return nil, err
	}

	if err := s.workoutRepo.Delete(ctx, workoutID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return existing, nil
}

// Progress builds the per-exercise series behind the weight and volume
// charts: for each record, the heaviest set and the summed volume.
func (s *workoutService) Progress(ctx context.Context, ownerID primitive.ObjectID, exerciseName string) ([]ProgressPoint, error) {
	exerciseName = strings.TrimSpace(exerciseName)
	if exerciseName == "" {
		return nil, &ValidationError{EmptyFields: []string{"exerciseName"}}
	}

	workouts, err := s.workoutRepo.GetByUserAndExercise(ctx, ownerID, exerciseName)
	if err != nil {
		return nil, err
	}

	points := make([]ProgressPoint, 0, len(workouts))
	for _, w := range workouts {
		var maxWeight, totalVolume float64
		for _, set := range w.Sets {
			if set.Weight > maxWeight {
				maxWeight = set.Weight
			}
			totalVolume += set.Weight * float64(set.Repetitions)
		}
		points = append(points, ProgressPoint{
			Date:        w.Date,
			MaxWeight:   maxWeight,
			TotalVolume: totalVolume,
		})
	}
	return points, nil
}

// validateWorkoutInput accumulates every missing field name instead of
// stopping at the first. "sets_detail" flags a present but malformed set.
func validateWorkoutInput(input WorkoutInput) error {
	var emptyFields []string

	if strings.TrimSpace(input.ExerciseName) == "" {
		emptyFields = append(emptyFields, "exerciseName")
	}
	if input.Date.IsZero() {
		emptyFields = append(emptyFields, "date")
	}
	if len(input.Sets) == 0 {
		emptyFields = append(emptyFields, "sets")
	} else {
		for _, set := range input.Sets {
			if set.SetNumber < 1 || set.Repetitions < 1 || set.Weight < 0 {
				emptyFields = append(emptyFields, "sets_detail")
				break
			}
		}
	}

	if len(emptyFields) > 0 {
		return &ValidationError{EmptyFields: emptyFields}
	}
	return nil
}
