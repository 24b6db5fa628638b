package pages

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/collection"
	"hostel-admin/internal/model"
)

// StudentsAPI is implemented by *apiclient.Client.
type StudentsAPI interface {
	ListStudents(ctx context.Context) ([]model.Student, error)
	CreateStudent(ctx context.Context, in apiclient.StudentInput) (*model.Student, error)
	UpdateStudent(ctx context.Context, id int64, in apiclient.StudentInput) (*model.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	AllocationsByStudent(ctx context.Context, studentID int64) ([]model.Allocation, error)
}

// StudentsPage lists students with a text search and per-student allocation lookup.
type StudentsPage struct {
	*collection.List[model.Student, apiclient.StudentInput]
	api StudentsAPI

	mu     sync.Mutex
	housed map[int64]model.Allocation
}

func NewStudentsPage(api StudentsAPI) *StudentsPage {
	return &StudentsPage{
		List: collection.New(collection.Source[model.Student, apiclient.StudentInput]{
			List:   api.ListStudents,
			Create: api.CreateStudent,
			Update: api.UpdateStudent,
			Delete: api.DeleteStudent,
			ID:     func(s model.Student) int64 { return s.ID },
		}),
		api: api,
	}
}

// Search matches name, email or roll number, case-insensitively. An empty query matches all.
func (p *StudentsPage) Search(query string) []model.Student {
	return SearchStudents(p.Items(), query)
}

// SearchStudents is the filter behind Search.
func SearchStudents(students []model.Student, query string) []model.Student {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.Student
	for _, st := range students {
		if q == "" ||
			strings.Contains(strings.ToLower(st.User.Name), q) ||
			strings.Contains(strings.ToLower(st.User.Email), q) ||
			strings.Contains(strings.ToLower(st.RollNumber), q) {
			out = append(out, st)
		}
	}
	return out
}

// AllocationOf returns the student's active allocation, or nil when unhoused.
func (p *StudentsPage) AllocationOf(ctx context.Context, studentID int64) (*model.Allocation, error) {
	allocs, err := p.api.AllocationsByStudent(ctx, studentID)
	if err != nil {
		if ctx.Err() == nil {
			p.Fail(err)
		}
		return nil, err
	}
	for _, a := range allocs {
		if a.Active {
			return &a, nil
		}
	}
	return nil, nil
}

// LoadAllocations looks up every listed student's allocation in one bounded wave.
func (p *StudentsPage) LoadAllocations(ctx context.Context) error {
	students := p.Items()
	results := make([]*model.Allocation, len(students))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(waveLimit)
	for i, st := range students {
		i, st := i, st
		g.Go(func() error {
			allocs, err := p.api.AllocationsByStudent(gctx, st.ID)
			if err != nil {
				return err
			}
			for _, a := range allocs {
				if a.Active {
					results[i] = &a
					break
				}
			}
			return nil
		})
	}
	err := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		p.Fail(err)
		return err
	}

	housed := make(map[int64]model.Allocation)
	for i, st := range students {
		if results[i] != nil {
			housed[st.ID] = *results[i]
		}
	}
	p.mu.Lock()
	p.housed = housed
	p.mu.Unlock()
	return nil
}

// Housing returns the allocation found by the last LoadAllocations.
func (p *StudentsPage) Housing(studentID int64) (model.Allocation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.housed[studentID]
	return a, ok
}
