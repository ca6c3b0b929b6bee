package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiohaven/cms-api/internal/models"
)

type fakeProjectRepo struct {
	projects map[string]models.Project
}

func newFakeProjectRepo(projects ...models.Project) *fakeProjectRepo {
	f := &fakeProjectRepo{projects: make(map[string]models.Project)}
	for _, p := range projects {
		f.projects[p.ID] = p
	}
	return f
}

func (f *fakeProjectRepo) Create(project models.Project) (models.Project, error) {
	project.ID = fmt.Sprintf("p-%d", len(f.projects)+1)
	f.projects[project.ID] = project
	return project, nil
}

func (f *fakeProjectRepo) GetByID(projectID string) (models.Project, error) {
	p, ok := f.projects[projectID]
	if !ok {
		return models.Project{}, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeProjectRepo) List(page, size int) ([]models.Project, int64, error) {
	out := make([]models.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProjectRepo) ListBySlot(slot models.ProjectSlot) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.projects {
		if p.Slot == slot {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) CountBySlot(slot models.ProjectSlot, excludeID string) (int, error) {
	count := 0
	for _, p := range f.projects {
		if p.Slot == slot && p.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeProjectRepo) Update(project models.Project) (models.Project, error) {
	existing, ok := f.projects[project.ID]
	if !ok {
		return models.Project{}, sql.ErrNoRows
	}
	project.Slot = existing.Slot
	f.projects[project.ID] = project
	return project, nil
}

func (f *fakeProjectRepo) UpdateSlot(projectID string, slot models.ProjectSlot) error {
	p, ok := f.projects[projectID]
	if !ok {
		return sql.ErrNoRows
	}
	p.Slot = slot
	f.projects[projectID] = p
	return nil
}

func (f *fakeProjectRepo) Delete(projectID string) error {
	if _, ok := f.projects[projectID]; !ok {
		return sql.ErrNoRows
	}
	delete(f.projects, projectID)
	return nil
}

type noopBlobStore struct{}

func (noopBlobStore) Upload(_ context.Context, filename string, _ io.Reader, _ int64, _ string) (string, error) {
	return "https://blobs.test/studio-cms/" + filename, nil
}

func (noopBlobStore) Delete(_ context.Context, _ string) error { return nil }

func basicProject(id string) models.Project {
	return models.Project{ID: id, Name: "Project " + id, Category: models.CategoryDrama, Slot: models.SlotBasic}
}

func slottedProject(id string, slot models.ProjectSlot) models.Project {
	p := basicProject(id)
	p.Slot = slot
	return p
}

func updateSlot(t *testing.T, h *ProjectHandler, projectID string, slot models.ProjectSlot) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]models.ProjectSlot{"slot": slot})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/projects/"+projectID+"/slot", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"projectID": projectID})
	rec := httptest.NewRecorder()
	h.UpdateSlot(rec, req)
	return rec
}

func TestUpdateSlotFullTopConflicts(t *testing.T) {
	repo := newFakeProjectRepo(
		slottedProject("t1", models.SlotTop),
		slottedProject("t2", models.SlotTop),
		slottedProject("t3", models.SlotTop),
		slottedProject("t4", models.SlotTop),
		slottedProject("t5", models.SlotTop),
		basicProject("b1"),
	)
	h := NewProjectHandler(repo, noopBlobStore{}, zerolog.Nop())

	rec := updateSlot(t, h, "b1", models.SlotTop)
	assert.Equal(t, http.StatusConflict, rec.Code)

	got, err := repo.GetByID("b1")
	require.NoError(t, err)
	assert.Equal(t, models.SlotBasic, got.Slot)
}

func TestUpdateSlotFullMainConflicts(t *testing.T) {
	repo := newFakeProjectRepo(
		slottedProject("m1", models.SlotMain),
		basicProject("b1"),
	)
	h := NewProjectHandler(repo, noopBlobStore{}, zerolog.Nop())

	rec := updateSlot(t, h, "b1", models.SlotMain)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateSlotBasicIsUncapped(t *testing.T) {
	projects := []models.Project{slottedProject("m1", models.SlotMain)}
	for i := 0; i < 20; i++ {
		projects = append(projects, basicProject(fmt.Sprintf("b%d", i)))
	}
	repo := newFakeProjectRepo(projects...)
	h := NewProjectHandler(repo, noopBlobStore{}, zerolog.Nop())

	rec := updateSlot(t, h, "m1", models.SlotBasic)
	assert.Equal(t, http.StatusOK, rec.Code)

	got, err := repo.GetByID("m1")
	require.NoError(t, err)
	assert.Equal(t, models.SlotBasic, got.Slot)
}

func TestUpdateSlotBelowCapacitySucceeds(t *testing.T) {
	repo := newFakeProjectRepo(
		slottedProject("t1", models.SlotTop),
		basicProject("b1"),
	)
	h := NewProjectHandler(repo, noopBlobStore{}, zerolog.Nop())

	rec := updateSlot(t, h, "b1", models.SlotTop)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateSlotReassignSameSlotIsNotConflict(t *testing.T) {
	// A project already occupying the only MAIN spot may be assigned
	// MAIN again; it must not count against its own capacity.
	repo := newFakeProjectRepo(slottedProject("m1", models.SlotMain))
	h := NewProjectHandler(repo, noopBlobStore{}, zerolog.Nop())

	rec := updateSlot(t, h, "m1", models.SlotMain)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Same for a full TOP carousel.
	repo = newFakeProjectRepo(
		slottedProject("t1", models.SlotTop),
		slottedProject("t2", models.SlotTop),
		slottedProject("t3", models.SlotTop),
		slottedProject("t4", models.SlotTop),
		slottedProject("t5", models.SlotTop),
	)
	h = NewProjectHandler(repo, noopBlobStore{}, zerolog.Nop())
	rec = updateSlot(t, h, "t3", models.SlotTop)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateSlotUnknownSlotRejected(t *testing.T) {
	repo := newFakeProjectRepo(basicProject("b1"))
	h := NewProjectHandler(repo, noopBlobStore{}, zerolog.Nop())

	rec := updateSlot(t, h, "b1", models.ProjectSlot("FEATURED"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSlotUnknownProject(t *testing.T) {
	repo := newFakeProjectRepo()
	h := NewProjectHandler(repo, noopBlobStore{}, zerolog.Nop())

	rec := updateSlot(t, h, "missing", models.SlotBasic)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
