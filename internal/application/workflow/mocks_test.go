package workflow

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/domain/workflow"
	"github.com/stretchr/testify/mock"
)

type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*workflow.Status, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Status), args.Error(1)
}

func (m *MockStatusRepository) FindByKind(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind) ([]workflow.Status, error) {
	args := m.Called(ctx, tenantID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.Status), args.Error(1)
}

func (m *MockStatusRepository) FindDefault(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind) (*workflow.Status, error) {
	args := m.Called(ctx, tenantID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Status), args.Error(1)
}

func (m *MockStatusRepository) Create(ctx context.Context, status *workflow.Status) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockStatusRepository) Update(ctx context.Context, status *workflow.Status) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockStatusRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockStatusRepository) CountReferences(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatusRepository) SetDefault(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, kind, id)
	return args.Error(0)
}

func (m *MockStatusRepository) InsertMissing(ctx context.Context, tenantID uuid.UUID, statuses []workflow.Status) (int, error) {
	args := m.Called(ctx, tenantID, statuses)
	return args.Int(0), args.Error(1)
}

func (m *MockStatusRepository) UpdateOrder(ctx context.Context, tenantID uuid.UUID, kind workflow.Kind, ids []uuid.UUID) error {
	args := m.Called(ctx, tenantID, kind, ids)
	return args.Error(0)
}

type MockTransitionStore struct {
	mock.Mock
}

func (m *MockTransitionStore) SaveTransition(ctx context.Context, target workflow.Transitionable) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) StatusTransitioned(ctx context.Context, kind, statusCode string) {
	m.Called(ctx, kind, statusCode)
}

func (m *MockMetrics) BaselineSeeded(ctx context.Context, inserted int) {
	m.Called(ctx, inserted)
}

// memoryStatusRepository mirrors the unique indexes of the statuses table:
// (tenant, kind, code), (tenant, kind, name_key) and one default per kind.
type memoryStatusRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]workflow.Status
	refs map[uuid.UUID]int64
}

func newMemoryStatusRepository() *memoryStatusRepository {
	return &memoryStatusRepository{
		rows: make(map[uuid.UUID]workflow.Status),
		refs: make(map[uuid.UUID]int64),
	}
}

func (r *memoryStatusRepository) FindByID(_ context.Context, tenantID, id uuid.UUID) (*workflow.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok || s.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *memoryStatusRepository) FindByKind(_ context.Context, tenantID uuid.UUID, kind workflow.Kind) ([]workflow.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []workflow.Status{}
	for _, s := range r.rows {
		if s.TenantID == tenantID && s.Kind == kind {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memoryStatusRepository) FindDefault(_ context.Context, tenantID uuid.UUID, kind workflow.Kind) (*workflow.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.TenantID == tenantID && s.Kind == kind && s.IsDefault {
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryStatusRepository) conflictLocked(s workflow.Status) bool {
	for _, other := range r.rows {
		if s.Conflicts(&other) {
			return true
		}
	}
	return false
}

func (r *memoryStatusRepository) Create(_ context.Context, status *workflow.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *status
	if r.conflictLocked(row) {
		return shared.ErrValidationConflict
	}
	if row.IsDefault {
		r.clearDefaultLocked(row.TenantID, row.Kind)
	}
	r.rows[row.ID] = row
	return nil
}

func (r *memoryStatusRepository) Update(_ context.Context, status *workflow.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[status.ID]
	if !ok || cur.TenantID != status.TenantID {
		return shared.ErrNotFound
	}
	if r.conflictLocked(*status) {
		return shared.ErrValidationConflict
	}
	cur.Code, cur.Name, cur.IsFinal, cur.Order = status.Code, status.Name, status.IsFinal, status.Order
	r.rows[status.ID] = cur
	return nil
}

func (r *memoryStatusRepository) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok || s.TenantID != tenantID {
		return shared.ErrNotFound
	}
	if r.refs[id] > 0 {
		return shared.ErrReferentialIntegrity
	}
	if s.IsDefault {
		return workflow.ErrDefaultStatusDelete
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryStatusRepository) CountReferences(_ context.Context, _, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refs[id], nil
}

func (r *memoryStatusRepository) SetDefault(_ context.Context, tenantID uuid.UUID, kind workflow.Kind, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.rows[id]
	if !ok || target.TenantID != tenantID || target.Kind != kind {
		return shared.ErrNotFound
	}
	r.clearDefaultLocked(tenantID, kind)
	target.IsDefault = true
	r.rows[id] = target
	return nil
}

func (r *memoryStatusRepository) clearDefaultLocked(tenantID uuid.UUID, kind workflow.Kind) {
	for rid, s := range r.rows {
		if s.TenantID == tenantID && s.Kind == kind && s.IsDefault {
			s.IsDefault = false
			r.rows[rid] = s
		}
	}
}

func (r *memoryStatusRepository) InsertMissing(_ context.Context, tenantID uuid.UUID, statuses []workflow.Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hasDefault := map[workflow.Kind]bool{}
	for _, s := range r.rows {
		if s.TenantID == tenantID && s.IsDefault {
			hasDefault[s.Kind] = true
		}
	}
	inserted := 0
	for _, s := range statuses {
		if r.conflictLocked(s) {
			continue
		}
		if s.IsDefault && hasDefault[s.Kind] {
			s.IsDefault = false
		}
		if s.IsDefault {
			hasDefault[s.Kind] = true
		}
		r.rows[s.ID] = s
		inserted++
	}
	return inserted, nil
}

func (r *memoryStatusRepository) UpdateOrder(_ context.Context, tenantID uuid.UUID, kind workflow.Kind, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range ids {
		s, ok := r.rows[id]
		if !ok || s.TenantID != tenantID || s.Kind != kind {
			return shared.ErrNotFound
		}
		s.Order = i + 1
		r.rows[id] = s
	}
	return nil
}

func (r *memoryStatusRepository) defaults(tenantID uuid.UUID, kind workflow.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.rows {
		if s.TenantID == tenantID && s.Kind == kind && s.IsDefault {
			n++
		}
	}
	return n
}
