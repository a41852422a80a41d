package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"todolist/internal/metric"
	"todolist/internal/model"
	"todolist/internal/repositories"
)

// TaskService owns the ordered task list and writes the whole list to the
// store after every mutation. Titles act as identifiers.
type TaskService interface {
	// Add returns false without error when the title is already taken.
	Add(ctx context.Context, title string, isPriority bool, dueDate string) (bool, error)

	// Edit replaces the first task titled oldTitle with a new task, keeping
	// its position and completion state. It returns false when oldTitle is
	// unknown. newTitle is not checked against the other tasks.
	Edit(ctx context.Context, oldTitle, newTitle string, newIsPriority bool, newDueDate string) (bool, error)

	// Remove deletes every task titled title and returns how many went.
	Remove(ctx context.Context, title string) (int, error)

	// MarkComplete completes the first task titled title. It returns false
	// when there is no such task.
	MarkComplete(ctx context.Context, title string) (bool, error)

	// List returns a snapshot in insertion order.
	List(ctx context.Context) []model.Task
}

type taskService struct {
	mu    sync.Mutex
	store repositories.Store
	key   string
	tasks []*model.Task
}

// NewTaskService loads the list stored under key. A missing key starts an
// empty list. A blob that cannot be decoded is logged and ignored (the stored
// value is left as is until the next write). Store read failures are returned.
func NewTaskService(ctx context.Context, store repositories.Store, key string) (TaskService, error) {
	s := &taskService{store: store, key: key}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *taskService) load(ctx context.Context) error {
	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, repositories.ErrNotFound) {
		metric.ObserveStoreOp("get", nil)
		metric.SetTasksCount(0)
		return nil
	}
	metric.ObserveStoreOp("get", err)
	if err != nil {
		return fmt.Errorf("read tasks from store: %w", err)
	}

	tasks, err := decode(raw)
	if err != nil {
		log.Printf("failed to load tasks from key %q, starting empty: %v", s.key, err)
		metric.IncLoadFailures()
		tasks = nil
	}
	s.tasks = tasks
	metric.SetTasksCount(len(s.tasks))
	return nil
}

func decode(raw string) ([]*model.Task, error) {
	var records []model.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}
	tasks := make([]*model.Task, 0, len(records))
	for i, r := range records {
		t, err := model.FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// persist must be called with s.mu held.
func (s *taskService) persist(ctx context.Context) error {
	records := make([]model.Record, 0, len(s.tasks))
	for _, t := range s.tasks {
		records = append(records, t.Serialize())
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	err = s.store.Set(ctx, s.key, string(b))
	metric.ObserveStoreOp("set", err)
	metric.SetTasksCount(len(s.tasks))
	if err != nil {
		return fmt.Errorf("write tasks to store: %w", err)
	}
	return nil
}

func (s *taskService) indexOf(title string) int {
	for i, t := range s.tasks {
		if t.Title() == title {
			return i
		}
	}
	return -1
}

func (s *taskService) Add(ctx context.Context, title string, isPriority bool, dueDate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(title) >= 0 {
		return false, nil
	}
	t, err := model.NewTask(model.CategoryFor(isPriority), title, dueDate)
	if err != nil {
		return false, err
	}
	s.tasks = append(s.tasks, t)
	if err := s.persist(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (s *taskService) Edit(ctx context.Context, oldTitle, newTitle string, newIsPriority bool, newDueDate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(oldTitle)
	if i < 0 {
		return false, nil
	}
	t, err := model.NewTask(model.CategoryFor(newIsPriority), newTitle, newDueDate)
	if err != nil {
		return false, err
	}
	if s.tasks[i].Completed() {
		t.MarkComplete()
	}
	s.tasks[i] = t
	if err := s.persist(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (s *taskService) Remove(ctx context.Context, title string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.Title() != title {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
	return removed, s.persist(ctx)
}

func (s *taskService) MarkComplete(ctx context.Context, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(title)
	if i < 0 {
		return false, nil
	}
	log.Print(s.tasks[i].MarkComplete())
	return true, s.persist(ctx)
}

func (s *taskService) List(_ context.Context) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	return out
}
