package crud

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/shared"
)

type widget struct {
	Base
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
	OwnerID uuid.UUID `json:"ownerId"`
}

func (w *widget) GetSlug() string  { return w.Slug }
func (w *widget) SetSlug(s string) { w.Slug = s }

func cloneWidget(w *widget) *widget {
	out := *w
	out.Base = w.Base.CopyBase()
	return &out
}

type widgetInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

func (i widgetInput) SlugSource() string { return i.Name }

type widgetPatch struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
}

type widgetSearch struct {
	ListParams
	Q string `json:"q" validate:"max=20"`
}

func (s widgetSearch) ToQuery() Query {
	q := s.ListParams.ToQuery()
	q.Search = s.Q
	return q
}

const (
	permCreate      authz.Permission = "widget.create"
	permView        authz.Permission = "widget.view"
	permList        authz.Permission = "widget.list"
	permSearch      authz.Permission = "widget.search"
	permCount       authz.Permission = "widget.count"
	permUpdate      authz.Permission = "widget.update"
	permUpdateOwn   authz.Permission = "widget.update.own"
	permDelete      authz.Permission = "widget.delete"
	permRestore     authz.Permission = "widget.restore"
	permHardDelete  authz.Permission = "widget.hard_delete"
	permViewDeleted authz.Permission = "widget.view_deleted"
)

func widgetPolicy() Policy {
	return Policy{
		OpCreate:      permCreate,
		OpView:        permView,
		OpList:        permList,
		OpSearch:      permSearch,
		OpCount:       permCount,
		OpUpdate:      permUpdate,
		OpDelete:      permDelete,
		OpRestore:     permRestore,
		OpHardDelete:  permHardDelete,
		OpViewDeleted: permViewDeleted,
	}
}

// spyModel wraps a MemoryModel, counting calls and optionally failing them.
type spyModel struct {
	inner   *MemoryModel[*widget]
	calls   int
	fail    error
	panicky bool
	// slugHits makes SlugExists report true for the first n calls.
	slugHits int
}

func newSpyModel() *spyModel {
	return &spyModel{inner: NewMemoryModel(cloneWidget,
		WithMatch(func(w *widget, q Query) bool { return ContainsFold(q.Search, w.Name) }),
		WithSortKey("name", func(a, b *widget) bool { return a.Name < b.Name }),
	)}
}

func (m *spyModel) enter() error {
	m.calls++
	if m.panicky {
		panic("storage exploded")
	}
	return m.fail
}

func (m *spyModel) FindByID(ctx context.Context, id uuid.UUID) (*widget, error) {
	if err := m.enter(); err != nil {
		return nil, err
	}
	return m.inner.FindByID(ctx, id)
}

func (m *spyModel) FindAll(ctx context.Context, q Query) (shared.Page[*widget], error) {
	if err := m.enter(); err != nil {
		return shared.Page[*widget]{}, err
	}
	return m.inner.FindAll(ctx, q)
}

func (m *spyModel) Count(ctx context.Context, q Query) (int, error) {
	if err := m.enter(); err != nil {
		return 0, err
	}
	return m.inner.Count(ctx, q)
}

func (m *spyModel) Create(ctx context.Context, w *widget) (*widget, error) {
	if err := m.enter(); err != nil {
		return nil, err
	}
	return m.inner.Create(ctx, w)
}

func (m *spyModel) Update(ctx context.Context, w *widget) (*widget, error) {
	if err := m.enter(); err != nil {
		return nil, err
	}
	return m.inner.Update(ctx, w)
}

func (m *spyModel) HardDelete(ctx context.Context, id uuid.UUID) error {
	if err := m.enter(); err != nil {
		return err
	}
	return m.inner.HardDelete(ctx, id)
}

func (m *spyModel) SlugExists(ctx context.Context, value string) (bool, error) {
	if err := m.enter(); err != nil {
		return false, err
	}
	if m.slugHits > 0 {
		m.slugHits--
		return true, nil
	}
	return m.inner.SlugExists(ctx, value)
}

// seed stores w directly, bypassing the service and the call counter.
func (m *spyModel) seed(w *widget) *widget {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	created, err := m.inner.Create(context.Background(), w)
	if err != nil {
		panic(err)
	}
	return created
}

type recordedOp struct {
	method string
	code   shared.ErrorCode
}

type fakeRecorder struct {
	ops []recordedOp
}

func (r *fakeRecorder) ObserveOperation(_, method string, code shared.ErrorCode, _ time.Duration) {
	r.ops = append(r.ops, recordedOp{method: method, code: code})
}

type widgetService = Service[*widget, widgetInput, widgetPatch, widgetSearch]

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newWidgetService(model Model[*widget], opts ...func(*Config[*widget, widgetInput, widgetPatch])) *widgetService {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	cfg := Config[*widget, widgetInput, widgetPatch]{
		Entity: "widget",
		Model:  model,
		Policy: widgetPolicy(),
		New: func(actor *authz.Actor, in widgetInput) *widget {
			return &widget{Name: in.Name, OwnerID: actor.ID}
		},
		Apply: func(w *widget, p widgetPatch) {
			if p.Name != nil {
				w.Name = *p.Name
			}
		},
		Clock: clock.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewService[*widget, widgetInput, widgetPatch, widgetSearch](cfg)
}

func userWith(perms ...authz.Permission) *authz.Actor {
	return authz.NewActor(uuid.New(), authz.RoleUser, perms...)
}

func admin() *authz.Actor {
	return authz.NewActor(uuid.New(), authz.RoleAdmin)
}

func deletedAt(t time.Time) *time.Time {
	return &t
}
