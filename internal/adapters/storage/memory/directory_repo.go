package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"vet-care-reminders/internal/domain/directory"
)

type directoryRepo struct {
	mu       sync.RWMutex
	owners   map[string]directory.Owner
	accounts map[string]directory.Account
}

func NewDirectoryRepo() directory.Repository {
	return &directoryRepo{
		owners:   make(map[string]directory.Owner),
		accounts: make(map[string]directory.Account),
	}
}

func (r *directoryRepo) PutOwner(ctx context.Context, o directory.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("owner id required")
	}
	r.owners[o.ID] = o
	return nil
}

func (r *directoryRepo) GetOwner(ctx context.Context, id string) (directory.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.owners[id]
	if !ok {
		return directory.Owner{}, fmt.Errorf("%w: owner %s", directory.ErrNotFound, id)
	}
	return o, nil
}

func (r *directoryRepo) PutAccount(ctx context.Context, a directory.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("account id required")
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *directoryRepo) GetAccount(ctx context.Context, id string) (directory.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return directory.Account{}, fmt.Errorf("%w: account %s", directory.ErrNotFound, id)
	}
	return a, nil
}
