// Package board implements the category/task persistence-and-sync layer.
// Every mutation returns a uniform domain.Result, records failures through
// the oplog recorder and, on success, emits a fresh snapshot event for the
// affected subscription scope.
package board

import (
	"context"
	"errors"
	"time"

	"taskit/internal/domain"
	"taskit/internal/oplog"
	categoryrepo "taskit/internal/repository/category"
	taskrepo "taskit/internal/repository/task"
	"taskit/internal/sse"
	"taskit/internal/validate"
)

// ChunkSize bounds batched writes to respect backing-store batch limits.
const ChunkSize = 400

// Broadcaster fans change events out to subscribed sessions.
type Broadcaster interface {
	Emit(event sse.Event)
}

// Service coordinates repositories, logging and change broadcasting.
type Service struct {
	categories categoryrepo.Repository
	tasks      taskrepo.Repository
	recorder   *oplog.Recorder
	events     Broadcaster
}

func New(categories categoryrepo.Repository, tasks taskrepo.Repository, recorder *oplog.Recorder, events Broadcaster) *Service {
	return &Service{
		categories: categories,
		tasks:      tasks,
		recorder:   recorder,
		events:     events,
	}
}

// CategoryOptions carries optional flags for new categories.
type CategoryOptions struct {
	Highlighted bool
}

// AddCategory validates the name, rejects duplicates per owner by
// normalized name and inserts the record. The duplicate pre-check is a
// read-then-write with a known race window; two concurrent creations of the
// same name can both pass it (the unique index then fails one of them as a
// db_error).
func (s *Service) AddCategory(ctx context.Context, userID, name string, opts CategoryOptions) domain.Result {
	if userID == "" {
		return domain.Fail(domain.CodeAuthRequired, "user not authenticated")
	}
	value, normalized, err := validate.CategoryName(name)
	if err != nil {
		return domain.Fail(domain.CodeValidationError, err.Error())
	}

	existing, err := s.categories.GetByNormalizedName(ctx, userID, normalized)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return s.failDB(ctx, "categories", "add", userID, map[string]any{"name": name}, err)
	}
	if existing != nil {
		return domain.Fail(domain.CodeDuplicateCategory, "category name already exists")
	}

	id, err := s.categories.Create(ctx, domain.Category{
		UserID:         userID,
		Name:           value,
		NormalizedName: normalized,
		Hidden:         false,
		Highlighted:    opts.Highlighted,
	})
	if err != nil {
		return s.failDB(ctx, "categories", "add", userID, map[string]any{"name": name}, err)
	}
	s.emitCategories(ctx, userID)
	return domain.OK(id)
}

// UpdateCategory applies a partial merge. Ownership is not re-validated at
// this layer; the trust boundary is the store's access rules.
func (s *Service) UpdateCategory(ctx context.Context, id string, updates map[string]any) domain.Result {
	if name, ok := updates["name"].(string); ok {
		value, normalized, err := validate.CategoryName(name)
		if err != nil {
			return domain.Fail(domain.CodeValidationError, err.Error())
		}
		updates["name"] = value
		updates["normalized_name"] = normalized
	}
	if err := s.categories.Update(ctx, id, updates); err != nil {
		return s.failDB(ctx, "categories", "update", "", map[string]any{"categoryId": id}, err)
	}
	if c, err := s.categories.GetByID(ctx, id); err == nil {
		s.emitCategories(ctx, c.UserID)
	}
	return domain.OK(id)
}

// DeleteCategory removes the category's tasks in bounded batches and the
// category record itself in the final batch. The chunks are not one
// transaction; a failure mid-sequence leaves earlier chunks committed, and
// re-running the delete is the prescribed recovery (already-deleted rows
// are no-ops). ownerID optionally narrows the task enumeration.
func (s *Service) DeleteCategory(ctx context.Context, id, ownerID string) domain.Result {
	userID := ownerID
	if c, err := s.categories.GetByID(ctx, id); err == nil && userID == "" {
		userID = c.UserID
	}

	taskIDs, err := s.tasks.ListIDsByCategory(ctx, id, ownerID)
	if err != nil {
		return s.failDB(ctx, "categories", "delete", ownerID, map[string]any{"categoryId": id}, err)
	}

	for start := 0; start < len(taskIDs); start += ChunkSize {
		end := start + ChunkSize
		if end > len(taskIDs) {
			end = len(taskIDs)
		}
		chunk := taskIDs[start:end]
		if end == len(taskIDs) {
			err = s.categories.DeleteWithTasks(ctx, id, chunk)
		} else {
			err = s.tasks.DeleteBatch(ctx, chunk)
		}
		if err != nil {
			return s.failDB(ctx, "categories", "delete", ownerID, map[string]any{"categoryId": id}, err)
		}
	}
	if len(taskIDs) == 0 {
		if err := s.categories.DeleteWithTasks(ctx, id, nil); err != nil {
			return s.failDB(ctx, "categories", "delete", ownerID, map[string]any{"categoryId": id}, err)
		}
	}

	if userID != "" {
		s.emitCategories(ctx, userID)
	}
	return domain.OK(id)
}

// UnhideAllCategories flips hidden off for every hidden category of the
// owner, in the same chunked-batch shape as the delete path. The result
// carries the number of updated records.
func (s *Service) UnhideAllCategories(ctx context.Context, userID string) domain.Result {
	ids, err := s.categories.ListHiddenIDs(ctx, userID)
	if err != nil {
		return s.failDB(ctx, "categories", "unhide_all", userID, nil, err)
	}
	updated := 0
	for start := 0; start < len(ids); start += ChunkSize {
		end := start + ChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := s.categories.SetHiddenBatch(ctx, ids[start:end], false); err != nil {
			return s.failDB(ctx, "categories", "unhide_all", userID, nil, err)
		}
		updated += end - start
	}
	if updated > 0 {
		s.emitCategories(ctx, userID)
	}
	res := domain.OK("")
	res.Updated = updated
	return res
}

// ListCategories returns the owner's categories in creation order, pending
// writes last.
func (s *Service) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	domain.SortCategoriesByCreation(categories)
	return categories, nil
}

// AddTask validates the text and inserts a task under the category. The
// parent must exist at creation time.
func (s *Service) AddTask(ctx context.Context, userID, categoryID, text string) domain.Result {
	if userID == "" {
		return domain.Fail(domain.CodeAuthRequired, "user not authenticated")
	}
	value, err := validate.TaskText(text)
	if err != nil {
		return domain.Fail(domain.CodeValidationError, err.Error())
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Fail(domain.CodeNotFound, "category not found")
		}
		return s.failDB(ctx, "tasks", "add", userID, map[string]any{"categoryId": categoryID}, err)
	}

	id, err := s.tasks.Create(ctx, domain.Task{
		UserID:     userID,
		CategoryID: categoryID,
		Text:       value,
	})
	if err != nil {
		return s.failDB(ctx, "tasks", "add", userID, map[string]any{"categoryId": categoryID}, err)
	}
	s.emitTasks(ctx, categoryID, userID)
	return domain.OK(id)
}

// UpdateTask applies a partial merge to a task.
func (s *Service) UpdateTask(ctx context.Context, id string, updates map[string]any) domain.Result {
	if text, ok := updates["text"].(string); ok {
		value, err := validate.TaskText(text)
		if err != nil {
			return domain.Fail(domain.CodeValidationError, err.Error())
		}
		updates["text"] = value
	}
	if err := s.tasks.Update(ctx, id, updates); err != nil {
		return s.failDB(ctx, "tasks", "update", "", map[string]any{"taskId": id}, err)
	}
	if t, err := s.tasks.GetByID(ctx, id); err == nil {
		s.emitTasks(ctx, t.CategoryID, t.UserID)
	}
	return domain.OK(id)
}

// DeleteTask removes a single task.
func (s *Service) DeleteTask(ctx context.Context, id string) domain.Result {
	t, getErr := s.tasks.GetByID(ctx, id)
	if err := s.tasks.Delete(ctx, id); err != nil {
		return s.failDB(ctx, "tasks", "delete", "", map[string]any{"taskId": id}, err)
	}
	if getErr == nil {
		s.emitTasks(ctx, t.CategoryID, t.UserID)
	}
	return domain.OK(id)
}

// ToggleTaskCompletion writes the negation of the caller's current value.
// Centralizing the read-negate-write here keeps concurrent toggles from
// multiple devices down to one stale-read window instead of many.
func (s *Service) ToggleTaskCompletion(ctx context.Context, id string, current bool) domain.Result {
	return s.UpdateTask(ctx, id, map[string]any{"completed": !current})
}

// ToggleTaskHighlight writes the negation of the current highlight flag.
func (s *Service) ToggleTaskHighlight(ctx context.Context, id string, current bool) domain.Result {
	return s.UpdateTask(ctx, id, map[string]any{"highlighted": !current})
}

// ListTasks returns a category's tasks in creation order, pending writes
// last. userID optionally narrows to one owner.
func (s *Service) ListTasks(ctx context.Context, categoryID, userID string) ([]domain.Task, error) {
	tasks, err := s.tasks.ListByCategory(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}
	domain.SortTasksByCreation(tasks)
	return tasks, nil
}

// CategoriesSnapshot builds the payload for a categories.changed event. On
// query failure the snapshot is empty and the error is recorded; the
// subscriber still gets a callback.
func (s *Service) CategoriesSnapshot(ctx context.Context, userID string) []domain.Category {
	categories, err := s.ListCategories(ctx, userID)
	if err != nil {
		s.recorder.Error(ctx, oplog.Record{
			UserID:    userID,
			Module:    "categories",
			Operation: "subscribe",
			Type:      oplog.TypeDatabase,
			Message:   err.Error(),
		})
		return []domain.Category{}
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories
}

// TasksSnapshot builds the payload for a tasks.changed event, with the same
// empty-on-error contract as CategoriesSnapshot.
func (s *Service) TasksSnapshot(ctx context.Context, categoryID, userID string) []domain.Task {
	tasks, err := s.ListTasks(ctx, categoryID, userID)
	if err != nil {
		s.recorder.Error(ctx, oplog.Record{
			UserID:    userID,
			Module:    "tasks",
			Operation: "subscribe",
			Type:      oplog.TypeDatabase,
			Message:   err.Error(),
			Context:   map[string]any{"categoryId": categoryID},
		})
		return []domain.Task{}
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks
}

func (s *Service) emitCategories(ctx context.Context, userID string) {
	if s.events == nil {
		return
	}
	s.events.Emit(sse.Event{
		Type:      sse.EventCategoriesChanged,
		Timestamp: time.Now(),
		UserID:    userID,
		Data:      s.CategoriesSnapshot(ctx, userID),
	})
}

func (s *Service) emitTasks(ctx context.Context, categoryID, userID string) {
	if s.events == nil {
		return
	}
	s.events.Emit(sse.Event{
		Type:       sse.EventTasksChanged,
		Timestamp:  time.Now(),
		UserID:     userID,
		CategoryID: categoryID,
		Data:       s.TasksSnapshot(ctx, categoryID, ""),
	})
}

func (s *Service) failDB(ctx context.Context, module, operation, userID string, context map[string]any, err error) domain.Result {
	code := domain.CodeDatabaseError
	if errors.Is(err, domain.ErrNotFound) {
		code = domain.CodeNotFound
	}
	s.recorder.Error(ctx, oplog.Record{
		UserID:    userID,
		Module:    module,
		Operation: operation,
		Type:      oplog.TypeDatabase,
		Message:   err.Error(),
		Code:      code,
		Context:   context,
	})
	return domain.Fail(code, err.Error())
}
