package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"projector-backend/internal/model"
	"projector-backend/pkg/apierror"
)

type fakeProgramRepo struct {
	mu       sync.Mutex
	nextID   int64
	programs map[int64]model.Program
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: map[int64]model.Program{}}
}

func (r *fakeProgramRepo) FindByID(_ context.Context, id int64) (model.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[id]
	if !ok {
		return model.Program{}, model.ErrProgramNotFound
	}
	return p, nil
}

func (r *fakeProgramRepo) List(_ context.Context, _ model.ProgramsFilter, offset int, limit int, _ string, _ string) ([]model.Program, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]model.Program, 0, len(r.programs))
	for _, p := range r.programs {
		all = append(all, p)
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *fakeProgramRepo) Create(_ context.Context, p model.Program) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ProgramID = r.nextID
	r.programs[r.nextID] = p
	return r.nextID, nil
}

func (r *fakeProgramRepo) Update(_ context.Context, p model.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[p.ProgramID]; !ok {
		return model.ErrProgramNotFound
	}
	r.programs[p.ProgramID] = p
	return nil
}

func (r *fakeProgramRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[id]; !ok {
		return model.ErrProgramNotFound
	}
	delete(r.programs, id)
	return nil
}

func validCreateProgramRequest() model.CreateProgramRequest {
	return model.CreateProgramRequest{
		WorkYear:          2026,
		RequiredQuarter:   "Q3/26",
		Title:             "Network hardware renewal",
		RequesterWorkerID: 7,
		DepartmentID:      1,
		DomainID:          1,
		EngagementTypeID:  1,
		PlanningSource:    model.PlanningSourceAnnual,
		ComplexityLevel:   2,
		StatusKey:         "draft",
	}
}

func requireBadRequest(t *testing.T, err error) {
	t.Helper()
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "BAD_REQUEST", apiErr.Code)
}

func TestProgramServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("valid request round-trips", func(t *testing.T) {
		svc := NewProgramService(newFakeProgramRepo())

		program, err := svc.Create(context.Background(), validCreateProgramRequest())
		require.NoError(t, err)
		require.NotZero(t, program.ProgramID)
		require.Equal(t, "Network hardware renewal", program.Title)
		require.Equal(t, "Q3/26", program.RequiredQuarter)
	})

	t.Run("blank title", func(t *testing.T) {
		svc := NewProgramService(newFakeProgramRepo())
		req := validCreateProgramRequest()
		req.Title = "   "
		_, err := svc.Create(context.Background(), req)
		requireBadRequest(t, err)
	})

	t.Run("quarter format", func(t *testing.T) {
		svc := NewProgramService(newFakeProgramRepo())
		for _, quarter := range []string{"Q5/26", "q1/26", "Q1-26", "Q1/2026", "3Q/26", ""} {
			req := validCreateProgramRequest()
			req.RequiredQuarter = quarter
			_, err := svc.Create(context.Background(), req)
			requireBadRequest(t, err)
		}
		for _, quarter := range []string{"Q1/24", "Q4/99"} {
			req := validCreateProgramRequest()
			req.RequiredQuarter = quarter
			_, err := svc.Create(context.Background(), req)
			require.NoError(t, err, "quarter=%q", quarter)
		}
	})

	t.Run("planning source", func(t *testing.T) {
		svc := NewProgramService(newFakeProgramRepo())
		req := validCreateProgramRequest()
		req.PlanningSource = "AdHoc"
		_, err := svc.Create(context.Background(), req)
		requireBadRequest(t, err)
	})

	t.Run("complexity bounds", func(t *testing.T) {
		svc := NewProgramService(newFakeProgramRepo())
		for _, level := range []int{0, 4, -1} {
			req := validCreateProgramRequest()
			req.ComplexityLevel = level
			_, err := svc.Create(context.Background(), req)
			requireBadRequest(t, err)
		}
	})

	t.Run("start month bounds", func(t *testing.T) {
		svc := NewProgramService(newFakeProgramRepo())
		for _, month := range []int{0, 13} {
			m := month
			req := validCreateProgramRequest()
			req.StartRequiredMonth = &m
			_, err := svc.Create(context.Background(), req)
			requireBadRequest(t, err)
		}

		m := 12
		req := validCreateProgramRequest()
		req.StartRequiredMonth = &m
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("missing references", func(t *testing.T) {
		svc := NewProgramService(newFakeProgramRepo())
		req := validCreateProgramRequest()
		req.DomainID = 0
		_, err := svc.Create(context.Background(), req)
		requireBadRequest(t, err)
	})
}

func TestProgramServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		repo := newFakeProgramRepo()
		svc := NewProgramService(repo)

		created, err := svc.Create(context.Background(), validCreateProgramRequest())
		require.NoError(t, err)

		title := "Network hardware renewal, phase two"
		updated, err := svc.Update(context.Background(), created.ProgramID, model.UpdateProgramRequest{Title: &title})
		require.NoError(t, err)
		require.Equal(t, title, updated.Title)
		require.Equal(t, created.RequiredQuarter, updated.RequiredQuarter)
		require.Equal(t, created.PlanningSource, updated.PlanningSource)
	})

	t.Run("update re-validates the merged record", func(t *testing.T) {
		repo := newFakeProgramRepo()
		svc := NewProgramService(repo)

		created, err := svc.Create(context.Background(), validCreateProgramRequest())
		require.NoError(t, err)

		bad := "Q7/26"
		_, err = svc.Update(context.Background(), created.ProgramID, model.UpdateProgramRequest{RequiredQuarter: &bad})
		requireBadRequest(t, err)

		// The stored record is untouched after a rejected update.
		current, err := svc.GetByID(context.Background(), created.ProgramID)
		require.NoError(t, err)
		require.Equal(t, "Q3/26", current.RequiredQuarter)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := NewProgramService(newFakeProgramRepo())
		title := "whatever"
		_, err := svc.Update(context.Background(), 404, model.UpdateProgramRequest{Title: &title})
		require.ErrorIs(t, err, model.ErrProgramNotFound)
	})
}

func TestProgramServiceDelete(t *testing.T) {
	t.Parallel()

	repo := newFakeProgramRepo()
	svc := NewProgramService(repo)

	created, err := svc.Create(context.Background(), validCreateProgramRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ProgramID))
	require.ErrorIs(t, svc.Delete(context.Background(), created.ProgramID), model.ErrProgramNotFound)

	_, err = svc.GetByID(context.Background(), created.ProgramID)
	require.ErrorIs(t, err, model.ErrProgramNotFound)
}

func TestProgramServiceList(t *testing.T) {
	t.Parallel()

	repo := newFakeProgramRepo()
	svc := NewProgramService(repo)

	for i := 0; i < 25; i++ {
		_, err := svc.Create(context.Background(), validCreateProgramRequest())
		require.NoError(t, err)
	}

	programs, meta, err := svc.List(context.Background(), model.ProgramsFilter{}, 2, 10, "", "")
	require.NoError(t, err)
	require.Len(t, programs, 10)
	require.Equal(t, 25, meta.Total)
	require.Equal(t, 3, meta.TotalPages)
	require.True(t, meta.HasNext)
	require.True(t, meta.HasPrev)

	// Out-of-range inputs are clamped rather than rejected.
	_, meta, err = svc.List(context.Background(), model.ProgramsFilter{}, 0, 500, "", "")
	require.NoError(t, err)
	require.Equal(t, 1, meta.Page)
	require.Equal(t, 100, meta.Limit)
}
