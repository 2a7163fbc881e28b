package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Set is one repetition-and-weight entry within a workout. Sets are embedded
// value objects; they have no identity of their own.
type Set struct {
	SetNumber   int     `bson:"setNumber" json:"setNumber"`     // 1-based position within the workout
	Repetitions int     `bson:"repetitions" json:"repetitions"` // must be >= 1
	Weight      float64 `bson:"weight" json:"weight"`           // kg; 0 allowed for bodyweight exercises
}

// Workout is a dated exercise entry owned by exactly one user.
// The sets slice is ordered; display and progress charts rely on it.
type Workout struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"` // owner, immutable after creation
	Date         time.Time          `bson:"date" json:"date"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`
	Sets         []Set              `bson:"sets" json:"sets"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
