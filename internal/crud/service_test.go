package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/shared"
)

func strPtr(s string) *string { return &s }

// everyOperation runs each standard operation once and returns the error codes.
func everyOperation(ctx context.Context, svc *widgetService, actor *authz.Actor, id uuid.UUID) map[string]shared.ErrorCode {
	return map[string]shared.ErrorCode{
		"create":     svc.Create(ctx, actor, widgetInput{Name: "Lagoon"}).Code(),
		"findById":   svc.FindByID(ctx, actor, id).Code(),
		"list":       svc.List(ctx, actor, ListParams{}).Code(),
		"search":     svc.Search(ctx, actor, widgetSearch{Q: "lag"}).Code(),
		"count":      svc.Count(ctx, actor, widgetSearch{}).Code(),
		"update":     svc.Update(ctx, actor, id, widgetPatch{Name: strPtr("Reef")}).Code(),
		"softDelete": svc.SoftDelete(ctx, actor, id).Code(),
		"restore":    svc.Restore(ctx, actor, id).Code(),
		"hardDelete": svc.HardDelete(ctx, actor, id).Code(),
	}
}

func TestOperationsWithoutCapabilityAreForbiddenBeforeIO(t *testing.T) {
	ctx := context.Background()
	actors := map[string]*authz.Actor{
		"no permissions":        userWith(),
		"unrelated permissions": userWith("post.create", "widget.update.own"),
		"nil actor":             nil,
		"actor without id":      authz.NewActor(uuid.Nil, authz.RoleAdmin),
		"editor":                authz.NewActor(uuid.New(), authz.RoleEditor),
	}
	for name, actor := range actors {
		t.Run(name, func(t *testing.T) {
			model := newSpyModel()
			existing := model.seed(&widget{Name: "Existing", Slug: "existing"})
			svc := newWidgetService(model)

			for op, code := range everyOperation(ctx, svc, actor, existing.ID) {
				require.Equal(t, shared.CodeForbidden, code, op)
			}
			require.Zero(t, model.calls)
		})
	}
}

func TestAdminTierBypassesExplicitPermissions(t *testing.T) {
	ctx := context.Background()
	for _, role := range []authz.Role{authz.RoleAdmin, authz.RoleSuperAdmin} {
		model := newSpyModel()
		svc := newWidgetService(model)
		actor := authz.NewActor(uuid.New(), role)

		created := svc.Create(ctx, actor, widgetInput{Name: "Lagoon"})
		require.True(t, created.Success, role)
		id := created.Data.ID

		for op, code := range everyOperation(ctx, svc, actor, id) {
			require.Empty(t, code, "%s %s", role, op)
		}
	}
}

func TestCreateScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("user without permissions", func(t *testing.T) {
		svc := newWidgetService(newSpyModel())
		res := svc.Create(ctx, authz.NewActor(uuid.New(), authz.RoleUser), widgetInput{Name: "Test"})

		body, err := json.Marshal(res)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(body, &decoded))
		require.Equal(t, false, decoded["success"])
		require.Equal(t, "FORBIDDEN", decoded["error"].(map[string]any)["code"])
		require.NotContains(t, decoded, "data")
	})

	t.Run("admin gets slug from name", func(t *testing.T) {
		model := newSpyModel()
		svc := newWidgetService(model)
		actor := admin()

		res := svc.Create(ctx, actor, widgetInput{Name: "Test Attraction"})
		require.True(t, res.Success)
		require.Equal(t, "test-attraction", res.Data.Slug)
		require.Equal(t, actor.ID, res.Data.CreatedByID)
		require.Equal(t, actor.ID, res.Data.UpdatedByID)
		require.False(t, res.Data.CreatedAt.IsZero())
		require.Nil(t, res.Data.DeletedAt)
		require.NotEqual(t, uuid.Nil, res.Data.ID)
	})

	t.Run("second create with same name gets suffix", func(t *testing.T) {
		model := newSpyModel()
		svc := newWidgetService(model)
		actor := admin()

		first := svc.Create(ctx, actor, widgetInput{Name: "Test Attraction"})
		require.True(t, first.Success)

		model.slugHits = 1
		second := svc.Create(ctx, actor, widgetInput{Name: "Test Attraction"})
		require.True(t, second.Success)
		require.Regexp(t, regexp.MustCompile(`^test-attraction-\d+$`), second.Data.Slug)
		require.NotEqual(t, first.Data.Slug, second.Data.Slug)
	})

	t.Run("invalid input never reaches the model", func(t *testing.T) {
		model := newSpyModel()
		svc := newWidgetService(model)

		res := svc.Create(ctx, admin(), widgetInput{})
		require.Equal(t, shared.CodeValidation, res.Code())
		require.Equal(t, "name", res.Error.Issues()[0].Path)
		require.Zero(t, model.calls)
	})

	t.Run("name without slug characters", func(t *testing.T) {
		svc := newWidgetService(newSpyModel())
		res := svc.Create(ctx, admin(), widgetInput{Name: "!!!"})
		require.Equal(t, shared.CodeValidation, res.Code())
	})

	t.Run("unique violation at insert is a conflict", func(t *testing.T) {
		model := newSpyModel()
		model.seed(&widget{Name: "Taken", Slug: "taken"})
		svc := newWidgetService(&racingModel{spyModel: model})

		res := svc.Create(ctx, admin(), widgetInput{Name: "Taken"})
		require.Equal(t, shared.CodeConflict, res.Code())
	})
}

// racingModel reports every slug as free, so the insert hits the unique check.
type racingModel struct {
	*spyModel
}

func (m *racingModel) SlugExists(context.Context, string) (bool, error) {
	return false, nil
}

func TestSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	svc := newWidgetService(model)
	editor := userWith(permView, permDelete, permRestore)

	created := svc.Create(ctx, admin(), widgetInput{Name: "Cove"})
	require.True(t, created.Success)
	id := created.Data.ID

	deleted := svc.SoftDelete(ctx, editor, id)
	require.True(t, deleted.Success)
	require.NotNil(t, deleted.Data.DeletedAt)
	require.Equal(t, editor.ID, *deleted.Data.DeletedByID)
	require.Equal(t, editor.ID, deleted.Data.UpdatedByID)

	again := svc.SoftDelete(ctx, editor, id)
	require.True(t, again.Success)
	require.Equal(t, *deleted.Data.DeletedAt, *again.Data.DeletedAt)

	hidden := svc.FindByID(ctx, editor, id)
	require.Equal(t, shared.CodeNotFound, hidden.Code())

	viewer := userWith(permView, permViewDeleted)
	require.True(t, svc.FindByID(ctx, viewer, id).Success)
	require.True(t, svc.FindByID(ctx, admin(), id).Success)

	restored := svc.Restore(ctx, editor, id)
	require.True(t, restored.Success)
	require.Nil(t, restored.Data.DeletedAt)
	require.Nil(t, restored.Data.DeletedByID)
	require.True(t, svc.FindByID(ctx, editor, id).Success)

	before := model.calls
	noop := svc.Restore(ctx, editor, id)
	require.True(t, noop.Success)
	require.Nil(t, noop.Data.DeletedAt)
	require.Equal(t, before+1, model.calls, "restore of an active entity only loads it")
}

func TestRestoreAndDeleteNeedTheirOwnTokens(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	w := model.seed(&widget{Name: "Gone", Slug: "gone", Base: Base{DeletedAt: deletedAt(time.Now())}})
	svc := newWidgetService(model)

	updater := userWith(permUpdate, permDelete)
	require.Equal(t, shared.CodeForbidden, svc.Restore(ctx, updater, w.ID).Code())
	require.Equal(t, shared.CodeForbidden, svc.HardDelete(ctx, updater, w.ID).Code())
}

func TestHardDelete(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	svc := newWidgetService(model)
	purger := userWith(permHardDelete)

	w := model.seed(&widget{Name: "Dune", Slug: "dune"})
	res := svc.HardDelete(ctx, purger, w.ID)
	require.True(t, res.Success)
	require.Equal(t, w.ID, res.Data.ID)
	require.Zero(t, model.inner.Len())

	require.Equal(t, shared.CodeNotFound, svc.HardDelete(ctx, purger, w.ID).Code())
	require.Equal(t, shared.CodeNotFound, svc.HardDelete(ctx, purger, uuid.New()).Code())
	require.Equal(t, shared.CodeNotFound, svc.Restore(ctx, userWith(permRestore), w.ID).Code())
	require.Equal(t, shared.CodeNotFound, svc.FindByID(ctx, admin(), w.ID).Code())

	// Authorization comes first, so unauthorized callers cannot probe ids.
	require.Equal(t, shared.CodeForbidden, svc.HardDelete(ctx, userWith(), uuid.New()).Code())

	softDeleted := model.seed(&widget{Name: "Mesa", Slug: "mesa", Base: Base{DeletedAt: deletedAt(time.Now())}})
	require.True(t, svc.HardDelete(ctx, purger, softDeleted.ID).Success)
}

func TestListAndSearchVisibility(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	svc := newWidgetService(model)
	model.seed(&widget{Name: "Alpha Bay", Slug: "alpha-bay"})
	model.seed(&widget{Name: "Beta Bay", Slug: "beta-bay"})
	model.seed(&widget{Name: "Gamma Bay", Slug: "gamma-bay", Base: Base{DeletedAt: deletedAt(time.Now())}})

	reader := userWith(permList, permSearch, permCount)
	page := svc.List(ctx, reader, ListParams{})
	require.True(t, page.Success)
	require.Len(t, page.Data.Items, 2)
	require.Equal(t, 2, page.Data.Total)
	for _, item := range page.Data.Items {
		require.Nil(t, item.DeletedAt)
	}

	searched := svc.Search(ctx, reader, widgetSearch{Q: "gamma"})
	require.True(t, searched.Success)
	require.Empty(t, searched.Data.Items)
	require.NotNil(t, searched.Data.Items)

	require.Equal(t, 2, svc.Count(ctx, reader, widgetSearch{}).Data)

	withDeleted := svc.List(ctx, reader, ListParams{IncludeDeleted: true})
	require.Equal(t, shared.CodeForbidden, withDeleted.Code())

	trusted := userWith(permList, permSearch, permCount, permViewDeleted)
	all := svc.List(ctx, trusted, ListParams{IncludeDeleted: true})
	require.True(t, all.Success)
	require.Equal(t, 3, all.Data.Total)

	onlyDeleted := svc.Search(ctx, trusted, widgetSearch{ListParams: ListParams{OnlyDeleted: true}})
	require.True(t, onlyDeleted.Success)
	require.Len(t, onlyDeleted.Data.Items, 1)
	require.Equal(t, "Gamma Bay", onlyDeleted.Data.Items[0].Name)

	require.Equal(t, 3, svc.Count(ctx, trusted, widgetSearch{ListParams: ListParams{IncludeDeleted: true}}).Data)
}

func TestListPaginationAndSorting(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	svc := newWidgetService(model)
	for _, name := range []string{"Charlie", "Alpha", "Echo", "Bravo", "Delta"} {
		model.seed(&widget{Name: name, Slug: name})
	}

	res := svc.List(ctx, admin(), ListParams{Page: 2, PageSize: 2, SortBy: "name", SortDir: "desc"})
	require.True(t, res.Success)
	require.Equal(t, 5, res.Data.Total)
	require.Equal(t, 3, res.Data.TotalPages)
	require.Equal(t, 2, res.Data.Page)
	require.Equal(t, []string{"Charlie", "Bravo"}, []string{res.Data.Items[0].Name, res.Data.Items[1].Name})

	invalid := svc.List(ctx, admin(), ListParams{PageSize: 1000})
	require.Equal(t, shared.CodeValidation, invalid.Code())
	require.Equal(t, "pageSize", invalid.Error.Issues()[0].Path)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	svc := newWidgetService(model)
	w := model.seed(&widget{Name: "Old", Slug: "old"})

	editor := userWith(permUpdate, permView)
	res := svc.Update(ctx, editor, w.ID, widgetPatch{Name: strPtr("New")})
	require.True(t, res.Success)
	require.Equal(t, "New", res.Data.Name)
	require.Equal(t, "old", res.Data.Slug)
	require.Equal(t, editor.ID, res.Data.UpdatedByID)

	invalid := svc.Update(ctx, editor, w.ID, widgetPatch{Name: strPtr("")})
	require.Equal(t, shared.CodeValidation, invalid.Code())

	require.Equal(t, shared.CodeNotFound, svc.Update(ctx, editor, uuid.New(), widgetPatch{}).Code())

	gone := model.seed(&widget{Name: "Gone", Slug: "gone", Base: Base{DeletedAt: deletedAt(time.Now())}})
	require.Equal(t, shared.CodeNotFound, svc.Update(ctx, editor, gone.ID, widgetPatch{}).Code())
	require.Equal(t, shared.CodeConflict, svc.Update(ctx, admin(), gone.ID, widgetPatch{}).Code())
}

func TestPrepareRunsBeforePersist(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	var seen []string
	svc := newWidgetService(model, func(cfg *Config[*widget, widgetInput, widgetPatch]) {
		cfg.Prepare = func(_ context.Context, _ *authz.Actor, w *widget) error {
			seen = append(seen, w.Name)
			if w.Name == "Forbidden Cove" {
				return shared.Validation("name is reserved", shared.Issue{Path: "name", Rule: "reserved", Message: "name is reserved"})
			}
			return nil
		}
	})

	created := svc.Create(ctx, admin(), widgetInput{Name: "Open Cove"})
	require.True(t, created.Success)

	rejected := svc.Create(ctx, admin(), widgetInput{Name: "Forbidden Cove"})
	require.Equal(t, shared.CodeValidation, rejected.Code())
	require.Equal(t, 1, model.inner.Len())

	patched := svc.Update(ctx, admin(), created.Data.ID, widgetPatch{Name: strPtr("Forbidden Cove")})
	require.Equal(t, shared.CodeValidation, patched.Code())
	require.Equal(t, []string{"Open Cove", "Forbidden Cove", "Forbidden Cove"}, seen)

	stored, err := model.inner.FindByID(ctx, created.Data.ID)
	require.NoError(t, err)
	require.Equal(t, "Open Cove", stored.Name)
}

func TestOwnerAuthorizer(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	svc := newWidgetService(model, func(cfg *Config[*widget, widgetInput, widgetPatch]) {
		cfg.Authorizer = OwnerAuthorizer[*widget]{
			Policy: widgetPolicy(),
			Rules: []OwnerRule[*widget]{
				{Op: OpUpdate, Own: permUpdateOwn, Owner: func(w *widget) uuid.UUID { return w.OwnerID }},
			},
		}
	})

	host := userWith(permUpdateOwn)
	mine := model.seed(&widget{Name: "Mine", Slug: "mine", OwnerID: host.ID})
	theirs := model.seed(&widget{Name: "Theirs", Slug: "theirs", OwnerID: uuid.New()})

	require.True(t, svc.Update(ctx, host, mine.ID, widgetPatch{Name: strPtr("Still mine")}).Success)
	require.Equal(t, shared.CodeForbidden, svc.Update(ctx, host, theirs.ID, widgetPatch{}).Code())
	require.True(t, svc.Update(ctx, userWith(permUpdate), theirs.ID, widgetPatch{}).Success)

	before := model.calls
	require.Equal(t, shared.CodeForbidden, svc.Update(ctx, userWith(), mine.ID, widgetPatch{}).Code())
	require.Equal(t, before, model.calls)
}

func TestOperationMissingFromPolicyIsNotImplemented(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	svc := newWidgetService(model, func(cfg *Config[*widget, widgetInput, widgetPatch]) {
		delete(cfg.Policy, OpCount)
		cfg.Apply = nil
	})

	require.Equal(t, shared.CodeNotImplemented, svc.Count(ctx, admin(), widgetSearch{}).Code())
	require.Equal(t, shared.CodeNotImplemented, svc.Update(ctx, admin(), uuid.New(), widgetPatch{}).Code())
	require.Zero(t, model.calls)
}

func TestModelFailureBecomesInternalError(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	w := model.seed(&widget{Name: "Seeded", Slug: "seeded"})
	model.fail = errors.New("connection reset by peer")
	svc := newWidgetService(model)

	for op, code := range everyOperation(ctx, svc, admin(), w.ID) {
		require.Equal(t, shared.CodeInternal, code, op)
	}

	res := svc.FindByID(ctx, admin(), w.ID)
	require.Equal(t, "an unexpected error occurred", res.Error.Message)
	require.NotContains(t, res.Error.Error(), "connection reset")
	body, err := json.Marshal(res)
	require.NoError(t, err)
	require.NotContains(t, string(body), "connection reset")
}

func TestModelPanicBecomesInternalError(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	w := model.seed(&widget{Name: "Seeded", Slug: "seeded"})
	model.panicky = true
	svc := newWidgetService(model)

	require.NotPanics(t, func() {
		for op, code := range everyOperation(ctx, svc, admin(), w.ID) {
			require.Equal(t, shared.CodeInternal, code, op)
		}
	})
}

func TestPurgeSoftDeleted(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	svc := newWidgetService(model)
	cutoff := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	old := model.seed(&widget{Name: "Old", Slug: "old", Base: Base{DeletedAt: deletedAt(cutoff.Add(-time.Hour))}})
	recent := model.seed(&widget{Name: "Recent", Slug: "recent", Base: Base{DeletedAt: deletedAt(cutoff.Add(time.Hour))}})
	active := model.seed(&widget{Name: "Active", Slug: "active"})

	require.Equal(t, shared.CodeForbidden, svc.PurgeSoftDeleted(ctx, userWith(), cutoff, 10).Code())

	res := svc.PurgeSoftDeleted(ctx, authz.System(), cutoff, 10)
	require.True(t, res.Success)
	require.Equal(t, 1, res.Data)

	_, err := model.inner.FindByID(ctx, old.ID)
	require.ErrorIs(t, err, ErrNoRecord)
	_, err = model.inner.FindByID(ctx, recent.ID)
	require.NoError(t, err)
	_, err = model.inner.FindByID(ctx, active.ID)
	require.NoError(t, err)
}

func TestOperationsAreRecorded(t *testing.T) {
	ctx := context.Background()
	recorder := &fakeRecorder{}
	svc := newWidgetService(newSpyModel(), func(cfg *Config[*widget, widgetInput, widgetPatch]) {
		cfg.Metrics = recorder
	})

	svc.Create(ctx, admin(), widgetInput{Name: "Kelp"})
	svc.FindByID(ctx, userWith(), uuid.New())

	require.Equal(t, []recordedOp{
		{method: "create", code: ""},
		{method: "findById", code: shared.CodeForbidden},
	}, recorder.ops)
}

func TestMissingCapabilityChecksPermissionFirst(t *testing.T) {
	ctx := context.Background()
	model := newSpyModel()
	svc := newWidgetService(model, func(cfg *Config[*widget, widgetInput, widgetPatch]) {
		cfg.New = nil
		cfg.Apply = nil
	})

	require.Equal(t, shared.CodeForbidden, svc.Create(ctx, userWith(), widgetInput{Name: "Kelp"}).Code())
	require.Equal(t, shared.CodeForbidden, svc.Update(ctx, userWith(), uuid.New(), widgetPatch{}).Code())
	require.Equal(t, shared.CodeForbidden, svc.Create(ctx, nil, widgetInput{Name: "Kelp"}).Code())

	require.Equal(t, shared.CodeNotImplemented, svc.Create(ctx, userWith(permCreate), widgetInput{Name: "Kelp"}).Code())
	require.Equal(t, shared.CodeNotImplemented, svc.Update(ctx, userWith(permUpdate), uuid.New(), widgetPatch{}).Code())
	require.Zero(t, model.calls)
}

func TestUpdateLogsTargetID(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	model := newSpyModel()
	w := model.seed(&widget{Name: "Seeded", Slug: "seeded"})
	svc := newWidgetService(model, func(cfg *Config[*widget, widgetInput, widgetPatch]) {
		cfg.Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})

	require.True(t, svc.Update(ctx, admin(), w.ID, widgetPatch{Name: strPtr("Reef")}).Success)

	lines := decodeLines(t, &buf)
	require.Equal(t, "widget.update:start", lines[0]["msg"])
	input, ok := lines[0]["input"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, w.ID.String(), input["id"])
	require.Equal(t, map[string]any{"name": "Reef"}, input["input"])
}

// vanishingModel reports every hard delete as a missing row.
type vanishingModel struct {
	*spyModel
}

func (vanishingModel) HardDelete(context.Context, uuid.UUID) error {
	return ErrNoRecord
}

func TestPurgeLogsSkippedRows(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	cutoff := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	model := vanishingModel{spyModel: newSpyModel()}
	gone := model.seed(&widget{Name: "Gone", Slug: "gone", Base: Base{DeletedAt: deletedAt(cutoff.Add(-time.Hour))}})
	svc := newWidgetService(model, func(cfg *Config[*widget, widgetInput, widgetPatch]) {
		cfg.Logger = slog.New(slog.NewJSONHandler(&buf, nil))
	})

	res := svc.PurgeSoftDeleted(ctx, authz.System(), cutoff, 10)
	require.True(t, res.Success)
	require.Zero(t, res.Data)

	var skipped []map[string]any
	for _, line := range decodeLines(t, &buf) {
		if line["msg"] == "widget.purge:skipped" {
			skipped = append(skipped, line)
		}
	}
	require.Len(t, skipped, 1)
	require.Equal(t, "WARN", skipped[0]["level"])
	require.Equal(t, gone.ID.String(), skipped[0]["id"])
	require.Equal(t, "missing", skipped[0]["reason"])
}
