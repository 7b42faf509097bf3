package handler

import (
	"strings"
	"time"

	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/entity"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
)

// Requests carry only client-controlled fields. Ids, timestamps and ownership come from the server.

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest accepts any token, including none; refresh is not available yet.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=1000"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	CategoryID  *uuid.UUID `json:"categoryId"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=1000"`
	Status      string     `json:"status" validate:"required,oneof=Todo InProgress Done"`
	Priority    string     `json:"priority" validate:"required,oneof=Low Medium High"`
	CategoryID  *uuid.UUID `json:"categoryId"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Todo InProgress Done"`
}

// TaskQuery is the raw query string of GET /api/tasks.
type TaskQuery struct {
	Status      string `query:"status"`
	Priority    string `query:"priority"`
	CategoryID  string `query:"categoryId"`
	Search      string `query:"search"`
	CreatedFrom string `query:"createdFrom"`
	CreatedTo   string `query:"createdTo"`
	Page        int    `query:"page"`
	PageSize    int    `query:"pageSize"`
}

type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Success      bool          `json:"success"`
	Token        string        `json:"token,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
	ExpiresAt    *time.Time    `json:"expiresAt,omitempty"`
	User         *UserResponse `json:"user,omitempty"`
	Message      string        `json:"message"`
}

type TaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	UserID       uuid.UUID  `json:"userId"`
	UserName     string     `json:"userName,omitempty"`
	CategoryID   *uuid.UUID `json:"categoryId"`
	CategoryName string     `json:"categoryName,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type StatsResponse struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Pending        int64   `json:"pending"`
	CompletionRate float64 `json:"completionRate"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	TaskCount   int64     `json:"taskCount"`
}

func (r *RegisterRequest) toInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}

func (r *LoginRequest) toInput() usecase.LoginInput {
	return usecase.LoginInput{Email: r.Email, Password: r.Password}
}

func (r *CreateTaskRequest) toInput() usecase.CreateTaskInput {
	input := usecase.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		CategoryID:  r.CategoryID,
	}
	if r.Priority != nil {
		priority := entity.TaskPriority(*r.Priority)
		input.Priority = &priority
	}

	return input
}

func (r *UpdateTaskRequest) toInput() usecase.UpdateTaskInput {
	return usecase.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      entity.TaskStatus(r.Status),
		Priority:    entity.TaskPriority(r.Priority),
		CategoryID:  r.CategoryID,
	}
}

func (r *CategoryRequest) toInput() usecase.CategoryInput {
	return usecase.CategoryInput{Name: r.Name, Description: r.Description}
}

// toFilter parses the query. Unknown status or priority values are left for the usecase to reject.
func (q *TaskQuery) toFilter() (entity.TaskFilter, error) {
	filter := entity.TaskFilter{
		Search:   strings.TrimSpace(q.Search),
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	if q.Status != "" {
		status := entity.TaskStatus(q.Status)
		filter.Status = &status
	}
	if q.Priority != "" {
		priority := entity.TaskPriority(q.Priority)
		filter.Priority = &priority
	}
	if q.CategoryID != "" {
		id, err := uuid.Parse(q.CategoryID)
		if err != nil {
			return filter, domainerrors.ErrValidationFailed.WithDetails("categoryId must be a UUID")
		}
		filter.CategoryID = &id
	}

	var err error
	if filter.CreatedFrom, err = parseTimeParam("createdFrom", q.CreatedFrom); err != nil {
		return filter, err
	}
	if filter.CreatedTo, err = parseTimeParam("createdTo", q.CreatedTo); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseTimeParam(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(name + " must be an RFC3339 timestamp")
	}

	return &parsed, nil
}

func newUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}

	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

func newAuthResponse(result *usecase.AuthResult) *AuthResponse {
	resp := &AuthResponse{
		Success:      result.Success,
		Token:        result.Token,
		RefreshToken: result.RefreshToken,
		User:         newUserResponse(result.User),
		Message:      result.Message,
	}
	if !result.ExpiresAt.IsZero() {
		expiresAt := result.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}

	return resp
}

func newTaskResponse(task *entity.Task) *TaskResponse {
	resp := &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		UserID:      task.UserID,
		CategoryID:  task.CategoryID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Owner != nil {
		resp.UserName = task.Owner.FullName()
	}
	if task.Category != nil {
		resp.CategoryName = task.Category.Name
	}

	return resp
}

func newTaskResponses(tasks []*entity.Task) []*TaskResponse {
	out := make([]*TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, newTaskResponse(task))
	}

	return out
}

func newStatsResponse(stats entity.TaskStats) *StatsResponse {
	return &StatsResponse{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Pending:        stats.Pending,
		CompletionRate: stats.CompletionRate,
	}
}

func newCategoryResponse(category *entity.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		TaskCount:   category.TaskCount,
	}
}

func newCategoryResponses(categories []*entity.Category) []*CategoryResponse {
	out := make([]*CategoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, newCategoryResponse(category))
	}

	return out
}
