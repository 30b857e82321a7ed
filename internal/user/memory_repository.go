package user

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryRepository keeps users in process memory. It backs the "memory"
// storage driver and stands in for MongoDB in tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[bson.ObjectID]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[bson.ObjectID]User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (bson.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *user
	stored.ID = bson.NewObjectID()
	r.users[stored.ID] = stored

	return stored.ID, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id bson.ObjectID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &stored, nil
}

func (r *MemoryRepository) Update(_ context.Context, id bson.ObjectID, patch Patch) (UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return UpdateResult{}, nil
	}

	before := stored
	patch.Apply(&stored)
	r.users[id] = stored

	res := UpdateResult{Matched: 1}
	if !sameUser(before, stored) {
		res.Modified = 1
	}
	return res, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id bson.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)

	return 1, nil
}

// Len returns the number of stored users.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func sameUser(a, b User) bool {
	return equalPtr(a.FirstName, b.FirstName) &&
		equalPtr(a.LastName, b.LastName) &&
		equalPtr(a.Email, b.Email) &&
		equalPtr(a.Password, b.Password) &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
