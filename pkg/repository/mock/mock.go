package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/garnizeh/offerdesk/pkg/models"
	"github.com/garnizeh/offerdesk/pkg/repository"
)

var _ repository.OfferRepo = (*OfferRepo)(nil)
var _ repository.RoleRepo = (*RoleRepo)(nil)
var _ repository.OperatorRepo = (*OperatorRepo)(nil)
var _ repository.NotificationRepo = (*NotificationRepo)(nil)

// Test helpers and mocks
type Mocks struct {
	Offers        *OfferRepo
	Roles         *RoleRepo
	Operators     *OperatorRepo
	Notifications *NotificationRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Offers:        &OfferRepo{stored: map[string]*models.Offer{}},
		Roles:         NewRoleRepo(DefaultRoles()...),
		Operators:     &OperatorRepo{stored: map[string]*models.Operator{}},
		Notifications: &NotificationRepo{},
	}
}

// DefaultRoles is a small catalog used across tests.
func DefaultRoles() []models.Role {
	return []models.Role{
		{Name: "Full Stack Developer", OnboardingDocs: []string{"tech_stack.pdf", "coding_standards.pdf"}},
		{Name: "Data Scientist", OnboardingDocs: []string{"ml_pipelines.pdf"}},
	}
}

// OfferRepo keeps offers in memory. SaveErr, when set, is returned by SaveOffer.
type OfferRepo struct {
	mu      sync.Mutex
	stored  map[string]*models.Offer
	Saves   int
	SaveErr error
}

func (m *OfferRepo) SaveOffer(ctx context.Context, o *models.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.stored == nil {
		m.stored = map[string]*models.Offer{}
	}
	now := time.Now().UTC()
	if prev, ok := m.stored[o.ID]; ok {
		o.CreatedAt = prev.CreatedAt
	} else {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	m.stored[o.ID] = o.Clone()
	m.Saves++
	return nil
}

func (m *OfferRepo) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.stored[id]; ok {
		return o.Clone(), nil
	}
	return nil, nil
}

func (m *OfferRepo) ListOffers(ctx context.Context, limit, offset int) ([]models.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Offer, 0, len(m.stored))
	for _, o := range m.stored {
		out = append(out, *o.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if offset >= len(out) {
		return []models.Offer{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type RoleRepo struct {
	mu     sync.Mutex
	stored map[string]models.Role
}

func NewRoleRepo(roles ...models.Role) *RoleRepo {
	r := &RoleRepo{stored: map[string]models.Role{}}
	for _, role := range roles {
		r.stored[role.Name] = role
	}
	return r
}

func (m *RoleRepo) GetRole(ctx context.Context, name string) (*models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.stored[name]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *RoleRepo) UpsertRole(ctx context.Context, r *models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored[r.Name] = *r
	return nil
}

func (m *RoleRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Role, 0, len(m.stored))
	for _, r := range m.stored {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type OperatorRepo struct {
	mu     sync.Mutex
	stored map[string]*models.Operator
}

func (m *OperatorRepo) GetOperator(ctx context.Context, username string) (*models.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if op, ok := m.stored[username]; ok {
		c := *op
		return &c, nil
	}
	return nil, nil
}

func (m *OperatorRepo) UpsertOperator(ctx context.Context, op *models.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *op
	if c.ID == 0 {
		c.ID = int64(len(m.stored) + 1)
	}
	m.stored[op.Username] = &c
	return nil
}

type NotificationRepo struct {
	mu     sync.Mutex
	Stored []models.Notification
}

func (m *NotificationRepo) RecordNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stored = append(m.Stored, *n)
	return nil
}

func (m *NotificationRepo) ListNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notification, 0, len(m.Stored))
	for i := len(m.Stored) - 1; i >= 0; i-- {
		out = append(out, m.Stored[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
