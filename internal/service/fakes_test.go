package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/model"
	"github.com/iliyamo/qshe-portal/internal/queue"
	"github.com/iliyamo/qshe-portal/internal/repository"
)

var baseTime = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

// memDB is an in-memory stand-in for the MySQL stores. Each insert
// advances the clock by one second so ordering is deterministic.
type memDB struct {
	mu      sync.Mutex
	clock   time.Time
	nextID  uint64
	users   map[string]model.User
	safety  map[uint64]model.SafetyMetric
	medical map[uint64]model.MedicalReport
	visitor map[uint64]model.VisitorRequest
	failAll error
}

func newMemDB() *memDB {
	return &memDB{
		clock:   baseTime,
		users:   map[string]model.User{},
		safety:  map[uint64]model.SafetyMetric{},
		medical: map[uint64]model.MedicalReport{},
		visitor: map[uint64]model.VisitorRequest{},
	}
}

func (m *memDB) tick() (uint64, time.Time) {
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	return m.nextID, m.clock
}

type memUsers struct{ *memDB }

func (s memUsers) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Email]; ok {
		return repository.ErrEmailExists
	}
	u.ID, u.CreatedAt = s.tick()
	u.UpdatedAt = u.CreatedAt
	u.IsActive = true
	s.users[u.Email] = *u
	return nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[repository.NormalizeEmail(email)]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

type memSafety struct{ *memDB }

func (s memSafety) Create(_ context.Context, v *model.SafetyMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return s.failAll
	}
	v.ID, v.CreatedAt = s.tick()
	v.UpdatedAt = v.CreatedAt
	v.Status = model.SafetyOpen
	s.safety[v.ID] = *v
	return nil
}

func (s memSafety) List(context.Context) ([]model.SafetyMetric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SafetyMetric, 0, len(s.safety))
	for _, v := range s.safety {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memSafety) UpdateStatus(_ context.Context, id uint64, st model.SafetyStatus) (model.SafetyMetric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.safety[id]
	if !ok {
		return model.SafetyMetric{}, repository.ErrNotFound
	}
	v.Status = st
	s.safety[id] = v
	return v, nil
}

type memMedical struct{ *memDB }

func (s memMedical) Create(_ context.Context, v *model.MedicalReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID, v.CreatedAt = s.tick()
	v.UpdatedAt = v.CreatedAt
	v.ApprovalStatus = model.ApprovalPending
	s.medical[v.ID] = *v
	return nil
}

func (s memMedical) List(context.Context) ([]model.MedicalReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.MedicalReport, 0, len(s.medical))
	for _, v := range s.medical {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memMedical) Review(_ context.Context, id uint64, st model.ApprovalStatus, notes *string, reviewer uint64) (model.MedicalReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.medical[id]
	if !ok {
		return model.MedicalReport{}, repository.ErrNotFound
	}
	v.ApprovalStatus, v.ApprovalNotes, v.ReviewedBy = st, notes, &reviewer
	s.medical[id] = v
	return v, nil
}

type memVisitor struct{ *memDB }

func (s memVisitor) Create(_ context.Context, v *model.VisitorRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID, v.CreatedAt = s.tick()
	v.UpdatedAt = v.CreatedAt
	v.Status = model.VisitorPending
	s.visitor[v.ID] = *v
	return nil
}

func (s memVisitor) List(context.Context) ([]model.VisitorRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.VisitorRequest, 0, len(s.visitor))
	for _, v := range s.visitor {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memVisitor) Review(_ context.Context, id uint64, st model.VisitorStatus, notes *string, approver uint64) (model.VisitorRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitor[id]
	if !ok {
		return model.VisitorRequest{}, repository.ErrNotFound
	}
	v.Status, v.ApprovalNotes, v.ApprovedBy = st, notes, &approver
	s.visitor[id] = v
	return v, nil
}

// recordingPublisher captures review events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.RecordReviewedEvent
	err    error
}

func (p *recordingPublisher) PublishRecordReviewed(_ context.Context, ev queue.RecordReviewedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

var errBoom = errors.New("boom")

var (
	admin   = model.Identity{UserID: 1, Email: "admin@x.com", Role: model.RoleAdmin}
	visitor = model.Identity{UserID: 2, Email: "bob@x.com", Role: model.RoleVisitor}
)

func nopLogger() *zap.Logger { return zap.NewNop() }
