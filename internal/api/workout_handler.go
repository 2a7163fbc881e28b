package api

import (
	"errors"
	"net/http"
	"time"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	logger         *zap.Logger
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, logger: logger}
}

// --- DTOs ---

// SetRequest uses pointers so an absent field is distinguishable from a
// zero value; weight 0 is legal for bodyweight exercises.
type SetRequest struct {
	SetNumber   *int     `json:"setNumber"`
	Repetitions *int     `json:"repetitions"`
	Weight      *float64 `json:"weight"`
}

type WorkoutRequest struct {
	ExerciseName string       `json:"exerciseName"`
	Date         string       `json:"date"`
	Sets         []SetRequest `json:"sets"`
}

type WorkoutResponse struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	Date         time.Time    `json:"date"`
	ExerciseName string       `json:"exerciseName"`
	Sets         []domain.Set `json:"sets"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// MapWorkoutToResponse converts a domain.Workout to its response DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	sets := w.Sets
	if sets == nil {
		sets = []domain.Set{}
	}
	return WorkoutResponse{
		ID:           w.ID.Hex(),
		UserID:       w.UserID.Hex(),
		Date:         w.Date,
		ExerciseName: w.ExerciseName,
		Sets:         sets,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

// MapWorkoutsToResponse converts a slice of workouts to response DTOs.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i, w := range workouts {
		responses[i] = MapWorkoutToResponse(&w)
	}
	return responses
}

// toServiceInput lowers the request DTO into the service input. Absent
// set fields become values the validator rejects as "sets_detail".
func (req *WorkoutRequest) toServiceInput() service.WorkoutInput {
	input := service.WorkoutInput{
		ExerciseName: req.ExerciseName,
	}
	if t, ok := parseWorkoutDate(req.Date); ok {
		input.Date = t
	}
	if req.Sets != nil {
		input.Sets = make([]domain.Set, len(req.Sets))
		for i, s := range req.Sets {
			set := domain.Set{Weight: -1}
			if s.SetNumber != nil {
				set.SetNumber = *s.SetNumber
			}
			if s.Repetitions != nil {
				set.Repetitions = *s.Repetitions
			}
			if s.Weight != nil {
				set.Weight = *s.Weight
			}
			input.Sets[i] = set
		}
	}
	return input
}

// parseWorkoutDate accepts RFC 3339 timestamps or bare calendar dates.
func parseWorkoutDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// --- Handler Methods ---

// List returns the authenticated user's workouts, newest first.
func (h *WorkoutHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	workouts, err := h.workoutService.List(c.Request.Context(), userID)
	if err != nil {
		h.serverError(c, "list workouts", err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// Get returns a single workout owned by the authenticated user.
func (h *WorkoutHandler) Get(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		// A malformed id is indistinguishable from a missing record.
		abortWithError(c, http.StatusNotFound, "No such workout")
		return
	}

	workout, err := h.workoutService.Get(c.Request.Context(), userID, workoutID)
	if err != nil {
		h.workoutError(c, "get workout", err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// Create validates and persists a new workout for the authenticated user.
func (h *WorkoutHandler) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	workout, err := h.workoutService.Create(c.Request.Context(), userID, req.toServiceInput())
	if err != nil {
		h.workoutError(c, "create workout", err)
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// Update replaces the fields of an owned workout.
func (h *WorkoutHandler) Update(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "No such workout")
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	workout, err := h.workoutService.Update(c.Request.Context(), userID, workoutID, req.toServiceInput())
	if err != nil {
		h.workoutError(c, "update workout", err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// Delete removes an owned workout and echoes the deleted record.
func (h *WorkoutHandler) Delete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "No such workout")
		return
	}

	workout, err := h.workoutService.Delete(c.Request.Context(), userID, workoutID)
	if err != nil {
		h.workoutError(c, "delete workout", err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// Progress returns the per-exercise weight/volume series for charts.
func (h *WorkoutHandler) Progress(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	points, err := h.workoutService.Progress(c.Request.Context(), userID, c.Param("exerciseName"))
	if err != nil {
		h.workoutError(c, "workout progress", err)
		return
	}

	c.JSON(http.StatusOK, points)
}

// workoutError maps workout service errors onto HTTP statuses.
func (h *WorkoutHandler) workoutError(c *gin.Context, op string, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":       "Please fill in all the fields",
			"emptyFields": validationErr.EmptyFields,
		})
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, "No such workout")
	case errors.Is(err, service.ErrNotOwner):
		abortWithError(c, http.StatusForbidden, "Not authorized to access this workout")
	default:
		h.serverError(c, op, err)
	}
}

// serverError logs the storage failure and hides the detail from the client.
func (h *WorkoutHandler) serverError(c *gin.Context, op string, err error) {
	h.logger.Error(op+" failed", zap.Error(err), zap.Any("requestId", c.Value(ContextRequestIDKey)))
	abortWithError(c, http.StatusInternalServerError, "Server Error")
}
