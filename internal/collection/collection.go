// Package collection is the list state behind the CRUD pages.
package collection

import (
	"context"
	"errors"
	"sync"

	"hostel-admin/internal/pagestate"
)

// ErrNotConfirmed is returned by Delete when the confirmation callback declines.
var ErrNotConfirmed = errors.New("deletion not confirmed")

// Source binds a list to one REST resource.
type Source[T, In any] struct {
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, in In) (*T, error)
	Update func(ctx context.Context, id int64, in In) (*T, error)
	Delete func(ctx context.Context, id int64) error
	ID     func(T) int64
}

// List holds the last server-confirmed copy of a resource. Local state only
// changes after the server has accepted a call.
type List[T, In any] struct {
	pagestate.State
	action pagestate.Action
	src    Source[T, In]

	mu    sync.Mutex
	items []T
	gen   uint64
}

func New[T, In any](src Source[T, In]) *List[T, In] {
	return &List[T, In]{src: src}
}

// Items returns a copy of the current list.
func (l *List[T, In]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

// Busy reports whether a create, update or delete is in flight.
func (l *List[T, In]) Busy() bool {
	return l.action.Busy()
}

// Load fetches the whole list. On failure the previous items stay in place.
// A load overtaken by a newer one writes nothing. A cancelled load keeps the
// items but still leaves the loading phase unless a newer load owns it.
func (l *List[T, In]) Load(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	l.Begin()
	items, err := l.src.List(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if gen == l.gen {
			l.Settle()
		}
		return ctxErr
	}
	if gen != l.gen {
		return nil
	}
	if err != nil {
		l.Fail(err)
		return err
	}
	l.items = items
	l.Settle()
	return nil
}

func (l *List[T, In]) Create(ctx context.Context, in In) (*T, error) {
	done, err := l.action.Start()
	if err != nil {
		return nil, err
	}
	defer done()

	created, err := l.src.Create(ctx, in)
	if err != nil {
		l.fail(ctx, err)
		return nil, err
	}
	l.mu.Lock()
	l.items = append(l.items, *created)
	l.mu.Unlock()
	l.Succeed("Created", "The record was created.")
	return created, nil
}

func (l *List[T, In]) Update(ctx context.Context, id int64, in In) (*T, error) {
	done, err := l.action.Start()
	if err != nil {
		return nil, err
	}
	defer done()

	updated, err := l.src.Update(ctx, id, in)
	if err != nil {
		l.fail(ctx, err)
		return nil, err
	}
	l.replace(id, *updated)
	l.Succeed("Updated", "The record was updated.")
	return updated, nil
}

// Mutate runs a resource-specific action on one record, such as marking a fee
// paid, and replaces the record with the server's copy on success.
func (l *List[T, In]) Mutate(ctx context.Context, id int64, call func(context.Context) (*T, error), title, message string) (*T, error) {
	done, err := l.action.Start()
	if err != nil {
		return nil, err
	}
	defer done()

	updated, err := call(ctx)
	if err != nil {
		l.fail(ctx, err)
		return nil, err
	}
	l.replace(id, *updated)
	l.Succeed(title, message)
	return updated, nil
}

func (l *List[T, In]) replace(id int64, v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.src.ID(l.items[i]) == id {
			l.items[i] = v
		}
	}
}

// Delete asks confirm first; a nil confirm deletes without asking.
func (l *List[T, In]) Delete(ctx context.Context, id int64, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return ErrNotConfirmed
	}
	done, err := l.action.Start()
	if err != nil {
		return err
	}
	defer done()

	if err := l.src.Delete(ctx, id); err != nil {
		l.fail(ctx, err)
		return err
	}
	l.mu.Lock()
	kept := l.items[:0]
	for _, it := range l.items {
		if l.src.ID(it) != id {
			kept = append(kept, it)
		}
	}
	l.items = kept
	l.mu.Unlock()
	l.Succeed("Deleted", "The record was deleted.")
	return nil
}

// fail records err unless the caller abandoned the request.
func (l *List[T, In]) fail(ctx context.Context, err error) {
	if ctx.Err() == nil {
		l.Fail(err)
	}
}
