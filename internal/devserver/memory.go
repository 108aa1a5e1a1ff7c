package devserver

import (
	"context"
	"sync"
	"time"

	"todo/internal/service"
)

// MemoryRepository keeps todos in memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	todos  []Record
	nextID int
	now    func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, now: time.Now}
}

func (r *MemoryRepository) List(ctx context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.todos))
	copy(out, r.todos)
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.index(id)
	if i < 0 {
		return Record{}, ErrTodoNotFound
	}
	return r.todos[i], nil
}

func (r *MemoryRepository) Create(ctx context.Context, todo service.NewTodo) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	rec := Record{
		ID:          r.nextID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.nextID++
	r.todos = append(r.todos, rec)
	return rec, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id int, updates service.TodoUpdate) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return Record{}, ErrTodoNotFound
	}
	rec := r.todos[i]
	t := updates.Apply(rec.Todo())
	rec.Title, rec.Description, rec.Completed = t.Title, t.Description, t.Completed
	rec.UpdatedAt = r.now().UTC()
	r.todos[i] = rec
	return rec, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return ErrTodoNotFound
	}
	r.todos = append(r.todos[:i], r.todos[i+1:]...)
	return nil
}

func (r *MemoryRepository) Close() error { return nil }

// index must be called with mu held.
func (r *MemoryRepository) index(id int) int {
	for i, t := range r.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
