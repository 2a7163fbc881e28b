package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// mockWorkoutService is a func-field mock of service.WorkoutService.
type mockWorkoutService struct {
	CreateFunc   func(ctx context.Context, ownerID primitive.ObjectID, input service.WorkoutInput) (*domain.Workout, error)
	GetFunc      func(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error)
	ListFunc     func(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error)
	UpdateFunc   func(ctx context.Context, ownerID, workoutID primitive.ObjectID, input service.WorkoutInput) (*domain.Workout, error)
	DeleteFunc   func(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error)
	ProgressFunc func(ctx context.Context, ownerID primitive.ObjectID, exerciseName string) ([]service.ProgressPoint, error)
}

func (m *mockWorkoutService) Create(ctx context.Context, ownerID primitive.ObjectID, input service.WorkoutInput) (*domain.Workout, error) {
	return m.CreateFunc(ctx, ownerID, input)
}

func (m *mockWorkoutService) Get(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	return m.GetFunc(ctx, ownerID, workoutID)
}

func (m *mockWorkoutService) List(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error) {
	return m.ListFunc(ctx, ownerID)
}

func (m *mockWorkoutService) Update(ctx context.Context, ownerID, workoutID primitive.ObjectID, input service.WorkoutInput) (*domain.Workout, error) {
	return m.UpdateFunc(ctx, ownerID, workoutID, input)
}

func (m *mockWorkoutService) Delete(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	return m.DeleteFunc(ctx, ownerID, workoutID)
}

func (m *mockWorkoutService) Progress(ctx context.Context, ownerID primitive.ObjectID, exerciseName string) ([]service.ProgressPoint, error) {
	return m.ProgressFunc(ctx, ownerID, exerciseName)
}

// newWorkoutRouter wires the handler behind a stub that plays the part of
// the auth middleware for a fixed user.
func newWorkoutRouter(svc service.WorkoutService, userID primitive.ObjectID) *gin.Engine {
	handler := NewWorkoutHandler(svc, zap.NewNop())
	router := gin.New()
	group := router.Group("/api/workouts")
	group.Use(func(c *gin.Context) {
		c.Set(ContextUserIDKey, userID.Hex())
		c.Next()
	})
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.GET("/progress/:exerciseName", handler.Progress)
	return router
}

func TestWorkoutHandler_List(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := &mockWorkoutService{
		ListFunc: func(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error) {
			assert.Equal(t, userID, ownerID)
			return []domain.Workout{
				{ID: primitive.NewObjectID(), UserID: ownerID, ExerciseName: "Squat"},
			}, nil
		},
	}
	router := newWorkoutRouter(svc, userID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/workouts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []WorkoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Squat", resp[0].ExerciseName)
}

func TestWorkoutHandler_List_EmptyIsArray(t *testing.T) {
	svc := &mockWorkoutService{
		ListFunc: func(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error) {
			return nil, nil
		},
	}
	router := newWorkoutRouter(svc, primitive.NewObjectID())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/workouts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestWorkoutHandler_Get(t *testing.T) {
	userID := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()

	tests := []struct {
		name           string
		path           string
		getFunc        func(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Workout, error)
		expectedStatus int
	}{
		{
			name: "found",
			path: "/api/workouts/" + workoutID.Hex(),
			getFunc: func(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Workout, error) {
				return &domain.Workout{ID: id, UserID: ownerID, ExerciseName: "Squat"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed id treated as not found",
			path:           "/api/workouts/not-a-hex-id",
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "missing record",
			path: "/api/workouts/" + primitive.NewObjectID().Hex(),
			getFunc: func(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Workout, error) {
				return nil, service.ErrWorkoutNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "foreign record",
			path: "/api/workouts/" + workoutID.Hex(),
			getFunc: func(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Workout, error) {
				return nil, service.ErrNotOwner
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newWorkoutRouter(&mockWorkoutService{GetFunc: tt.getFunc}, userID)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestWorkoutHandler_Create(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("created", func(t *testing.T) {
		var gotInput service.WorkoutInput
		svc := &mockWorkoutService{
			CreateFunc: func(ctx context.Context, ownerID primitive.ObjectID, input service.WorkoutInput) (*domain.Workout, error) {
				gotInput = input
				return &domain.Workout{
					ID:           primitive.NewObjectID(),
					UserID:       ownerID,
					Date:         input.Date,
					ExerciseName: input.ExerciseName,
					Sets:         input.Sets,
				}, nil
			},
		}
		router := newWorkoutRouter(svc, userID)

		body, _ := json.Marshal(gin.H{
			"exerciseName": "Bench Press",
			"date":         "2025-08-01",
			"sets": []gin.H{
				{"setNumber": 1, "repetitions": 10, "weight": 50},
			},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/workouts", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Bench Press", gotInput.ExerciseName)
		assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), gotInput.Date)
		require.Len(t, gotInput.Sets, 1)
		assert.Equal(t, domain.Set{SetNumber: 1, Repetitions: 10, Weight: 50}, gotInput.Sets[0])

		var resp WorkoutResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, userID.Hex(), resp.UserID)
	})

	t.Run("validation error lists empty fields", func(t *testing.T) {
		svc := &mockWorkoutService{
			CreateFunc: func(ctx context.Context, ownerID primitive.ObjectID, input service.WorkoutInput) (*domain.Workout, error) {
				return nil, &service.ValidationError{EmptyFields: []string{"exerciseName", "sets"}}
			},
		}
		router := newWorkoutRouter(svc, userID)

		body, _ := json.Marshal(gin.H{"date": "2025-08-01", "sets": []gin.H{}})
		req := httptest.NewRequest(http.MethodPost, "/api/workouts", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Error       string   `json:"error"`
			EmptyFields []string `json:"emptyFields"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"exerciseName", "sets"}, resp.EmptyFields)
	})

	t.Run("absent set fields flagged for the validator", func(t *testing.T) {
		var gotInput service.WorkoutInput
		svc := &mockWorkoutService{
			CreateFunc: func(ctx context.Context, ownerID primitive.ObjectID, input service.WorkoutInput) (*domain.Workout, error) {
				gotInput = input
				return nil, &service.ValidationError{EmptyFields: []string{"sets_detail"}}
			},
		}
		router := newWorkoutRouter(svc, userID)

		// weight omitted entirely: must not default to a legal 0.
		body, _ := json.Marshal(gin.H{
			"exerciseName": "Bench Press",
			"date":         "2025-08-01",
			"sets":         []gin.H{{"setNumber": 1, "repetitions": 10}},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/workouts", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.Len(t, gotInput.Sets, 1)
		assert.Equal(t, -1.0, gotInput.Sets[0].Weight)
	})
}

func TestWorkoutHandler_Update(t *testing.T) {
	userID := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()

	svc := &mockWorkoutService{
		UpdateFunc: func(ctx context.Context, ownerID, id primitive.ObjectID, input service.WorkoutInput) (*domain.Workout, error) {
			return &domain.Workout{ID: id, UserID: ownerID, ExerciseName: input.ExerciseName, Sets: input.Sets}, nil
		},
	}
	router := newWorkoutRouter(svc, userID)

	body, _ := json.Marshal(gin.H{
		"exerciseName": "Front Squat",
		"date":         "2025-08-02",
		"sets":         []gin.H{{"setNumber": 1, "repetitions": 5, "weight": 70}},
	})
	req := httptest.NewRequest(http.MethodPut, "/api/workouts/"+workoutID.Hex(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp WorkoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Front Squat", resp.ExerciseName)
	assert.Equal(t, workoutID.Hex(), resp.ID)
}

func TestWorkoutHandler_Delete_EchoesRecord(t *testing.T) {
	userID := primitive.NewObjectID()
	workoutID := primitive.NewObjectID()

	svc := &mockWorkoutService{
		DeleteFunc: func(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Workout, error) {
			return &domain.Workout{ID: id, UserID: ownerID, ExerciseName: "Squat",
				Sets: []domain.Set{{SetNumber: 1, Repetitions: 5, Weight: 80}}}, nil
		},
	}
	router := newWorkoutRouter(svc, userID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/workouts/"+workoutID.Hex(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp WorkoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Squat", resp.ExerciseName)
	require.Len(t, resp.Sets, 1)
	assert.Equal(t, 80.0, resp.Sets[0].Weight)
}

func TestWorkoutHandler_Progress(t *testing.T) {
	userID := primitive.NewObjectID()
	day := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	svc := &mockWorkoutService{
		ProgressFunc: func(ctx context.Context, ownerID primitive.ObjectID, exerciseName string) ([]service.ProgressPoint, error) {
			assert.Equal(t, "Bench Press", exerciseName)
			return []service.ProgressPoint{{Date: day, MaxWeight: 55, TotalVolume: 940}}, nil
		},
	}
	router := newWorkoutRouter(svc, userID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/workouts/progress/Bench%20Press", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []service.ProgressPoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, 55.0, resp[0].MaxWeight)
	assert.Equal(t, 940.0, resp[0].TotalVolume)
}
