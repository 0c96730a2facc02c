package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/validation"
)

// maxTodoDepth bounds the ancestor walk so corrupt data cannot loop forever.
const maxTodoDepth = 1000

type TodoInput struct {
	Title            *string       `json:"title"`
	Description      Field[string] `json:"description"`
	Status           *string       `json:"status"`
	Priority         *string       `json:"priority"`
	DueDate          Field[string] `json:"dueDate"`
	ParentID         Field[string] `json:"parentId"`
	RepeatType       Field[string] `json:"repeatType"`
	RepeatInterval   *int          `json:"repeatInterval"`
	RepeatDaysOfWeek *[]int        `json:"repeatDaysOfWeek"`
	RepeatDayOfMonth Field[int]    `json:"repeatDayOfMonth"`
	RepeatEndDate    Field[string] `json:"repeatEndDate"`
}

type TodoService struct {
	clock
	repo repository.TodoRepository
}

func NewTodoService(repo repository.TodoRepository, loc *time.Location) *TodoService {
	return &TodoService{clock: newClock(loc), repo: repo}
}

func (s *TodoService) List(ctx context.Context, userID string, filter repository.TodoFilter, p model.Pagination) (model.Page[*model.Todo], error) {
	todos, total, err := s.repo.List(ctx, userID, filter, &p)
	if err != nil {
		return model.Page[*model.Todo]{}, err
	}
	return model.NewPage(todos, total, p), nil
}

func (s *TodoService) All(ctx context.Context, userID string, filter repository.TodoFilter) ([]*model.Todo, error) {
	todos, _, err := s.repo.List(ctx, userID, filter, nil)
	return todos, err
}

func (s *TodoService) ByID(ctx context.Context, userID, todoID string) (*model.Todo, error) {
	return s.repo.ByID(ctx, userID, todoID)
}

func (s *TodoService) Children(ctx context.Context, userID, todoID string) ([]*model.Todo, error) {
	if _, err := s.repo.ByID(ctx, userID, todoID); err != nil {
		return nil, err
	}
	children, err := s.repo.Children(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}
	if children == nil {
		children = []*model.Todo{}
	}
	return children, nil
}

func (s *TodoService) Create(ctx context.Context, userID string, in TodoInput) (*model.Todo, error) {
	now := s.Now()
	todo := &model.Todo{
		ID:             uuid.New().String(),
		UserID:         userID,
		Status:         model.TodoStatusTodo,
		Priority:       model.PriorityMedium,
		RepeatInterval: 1,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}

	errs := validation.Errors{}
	if in.Title == nil {
		errs.Add("title", "title is required")
	}
	s.apply(errs, todo, in, now)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if todo.ParentID != nil {
		if err := s.checkParent(ctx, userID, todo.ID, *todo.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

// Update applies only the fields present in the input.
func (s *TodoService) Update(ctx context.Context, userID, todoID string, in TodoInput) (*model.Todo, error) {
	todo, err := s.repo.ByID(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}
	previous := todo.Status
	previousParent := todo.ParentID

	now := s.Now()
	errs := validation.Errors{}
	s.apply(errs, todo, in, now)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if todo.ParentID != nil && (previousParent == nil || *previousParent != *todo.ParentID) {
		if err := s.checkParent(ctx, userID, todo.ID, *todo.ParentID); err != nil {
			return nil, err
		}
	}

	todo.UpdatedAt = now.UTC()
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.afterStatusChange(ctx, todo, previous)
	return todo, nil
}

// ToggleStatus advances TODO -> IN_PROGRESS -> DONE -> TODO.
func (s *TodoService) ToggleStatus(ctx context.Context, userID, todoID string) (*model.Todo, error) {
	todo, err := s.repo.ByID(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	previous := todo.Status
	todo.Status = model.NextStatus(todo.Status)
	todo.UpdatedAt = s.Now().UTC()
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.afterStatusChange(ctx, todo, previous)
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, todoID string) error {
	return s.repo.Delete(ctx, userID, todoID)
}

// afterStatusChange schedules the next occurrence of a repeating todo that
// just moved to DONE. A todo gets at most one follow-up, however often it is
// reopened and completed. Failure is logged; the status change already stands.
func (s *TodoService) afterStatusChange(ctx context.Context, todo *model.Todo, previous string) {
	if previous == model.TodoStatusDone || !todo.IsDone() || todo.NextOccurrenceID != nil {
		return
	}
	if _, err := s.scheduleNext(ctx, todo); err != nil {
		slog.Error("failed to schedule next occurrence", "error", err, "user_id", todo.UserID, "todo_id", todo.ID)
	}
}

// scheduleNext creates the follow-up todo, or returns nil when the rule has ended.
func (s *TodoService) scheduleNext(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	due, ok := nextDueDate(todo, s.loc)
	if !ok {
		return nil, nil
	}

	now := s.Now().UTC()
	next := *todo
	next.ID = uuid.New().String()
	next.Status = model.TodoStatusTodo
	next.DueDate = ptr(due.UTC())
	next.NextOccurrenceID = nil
	next.CreatedAt = now
	next.UpdatedAt = now

	created, err := s.repo.CreateOccurrence(ctx, todo, &next)
	if err != nil || !created {
		return nil, err
	}
	return &next, nil
}

// checkParent rejects a parent that is missing, foreign, the todo itself, or
// a descendant of the todo. The whole ancestor chain is walked.
func (s *TodoService) checkParent(ctx context.Context, userID, todoID, parentID string) error {
	if parentID == todoID {
		return validation.Field("parentId", "a todo cannot be its own parent")
	}

	current := parentID
	for depth := 0; depth < maxTodoDepth; depth++ {
		ancestor, err := s.repo.ByID(ctx, userID, current)
		if errors.Is(err, repository.ErrTodoNotFound) {
			if current == parentID {
				return validation.Field("parentId", "parent todo not found")
			}
			return nil
		}
		if err != nil {
			return err
		}
		if ancestor.ParentID == nil {
			return nil
		}
		if *ancestor.ParentID == todoID {
			return validation.Field("parentId", "parent would create a cycle")
		}
		current = *ancestor.ParentID
	}
	return validation.Field("parentId", "todo hierarchy is too deep")
}

func (s *TodoService) apply(errs validation.Errors, todo *model.Todo, in TodoInput, now time.Time) {
	if in.Title != nil {
		validation.Required(errs, "title", *in.Title, 200)
		todo.Title = trimmed(*in.Title)
	}
	if in.Description.Set {
		validation.Optional(errs, "description", in.Description.Value, 2000)
		todo.Description = in.Description.Value
	}
	if in.Status != nil {
		validation.OneOf(errs, "status", *in.Status, model.TodoStatuses)
		todo.Status = *in.Status
	}
	if in.Priority != nil {
		validation.OneOf(errs, "priority", *in.Priority, model.TodoPriorities)
		todo.Priority = *in.Priority
	}
	if in.DueDate.Set {
		todo.DueDate = bodyDate(errs, "dueDate", in.DueDate, now)
	}
	if in.ParentID.Set {
		todo.ParentID = nil
		if in.ParentID.Value != nil && *in.ParentID.Value != "" {
			todo.ParentID = in.ParentID.Value
		}
	}
	if in.RepeatType.Set {
		todo.RepeatType = nil
		if v := in.RepeatType.Value; v != nil && *v != "" {
			validation.OneOf(errs, "repeatType", *v, model.RepeatTypes)
			todo.RepeatType = v
		}
	}
	if in.RepeatInterval != nil {
		validation.IntBetween(errs, "repeatInterval", *in.RepeatInterval, 1, 365)
		todo.RepeatInterval = *in.RepeatInterval
	}
	if in.RepeatDaysOfWeek != nil {
		for _, d := range *in.RepeatDaysOfWeek {
			validation.IntBetween(errs, "repeatDaysOfWeek", d, 0, 6)
		}
		todo.RepeatDaysOfWeek = model.IntList(*in.RepeatDaysOfWeek)
	}
	if in.RepeatDayOfMonth.Set {
		if v := in.RepeatDayOfMonth.Value; v != nil {
			validation.IntBetween(errs, "repeatDayOfMonth", *v, 1, 31)
		}
		todo.RepeatDayOfMonth = in.RepeatDayOfMonth.Value
	}
	if in.RepeatEndDate.Set {
		todo.RepeatEndDate = bodyDate(errs, "repeatEndDate", in.RepeatEndDate, now)
	}
}
