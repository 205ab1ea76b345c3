package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CourageAllien/studioportal/internal/lifecycle"
	"github.com/CourageAllien/studioportal/internal/models"
	"github.com/CourageAllien/studioportal/internal/queue"
	"github.com/CourageAllien/studioportal/internal/repository"
)

func setupWorkspaceService(t *testing.T) (*WorkspaceService, *repository.MemoryRequestRepository, *queue.JobQueue) {
	t.Helper()

	workspaces := repository.NewMemoryWorkspaceRepository()
	requests := repository.NewMemoryRequestRepository()
	jq := queue.NewJobQueue(10)
	t.Cleanup(jq.Close)

	return NewWorkspaceService(workspaces, requests, NewNotifier(jq)), requests, jq
}

// drainJob pops one pending email job, or nil when none is queued.
func drainJob(jq *queue.JobQueue) *queue.EmailJob {
	select {
	case job := <-jq.Jobs():
		return job
	default:
		return nil
	}
}

func TestWorkspaceCreate(t *testing.T) {
	svc, _, jq := setupWorkspaceService(t)

	workspace, err := svc.Create(context.Background(), &models.CreateWorkspaceRequest{
		CompanyName: "Acme Corp",
		ClientName:  "Jordan",
		ClientEmail: "jordan@acme.test",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, workspace.Id)
	assert.True(t, workspace.Active)
	assert.Len(t, workspace.AccessCode, 8)
	for _, r := range workspace.AccessCode {
		assert.Containsf(t, codeAlphabet, string(r), "access code contains ambiguous character %q", r)
	}

	job := drainJob(jq)
	require.NotNil(t, job, "workspace creation should enqueue an access code email")
	assert.Equal(t, "jordan@acme.test", job.To)
	assert.Contains(t, job.Body, workspace.AccessCode)
}

func TestWorkspaceAccessCodesDiffer(t *testing.T) {
	svc, _, _ := setupWorkspaceService(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		workspace, err := svc.Create(context.Background(), &models.CreateWorkspaceRequest{
			CompanyName: "Acme Corp",
			ClientName:  "Jordan",
			ClientEmail: "jordan@acme.test",
		})
		require.NoError(t, err)
		assert.Falsef(t, seen[workspace.AccessCode], "access code %s repeated", workspace.AccessCode)
		seen[workspace.AccessCode] = true
	}
}

func TestWorkspaceCreateSurvivesFullQueue(t *testing.T) {
	workspaces := repository.NewMemoryWorkspaceRepository()
	requests := repository.NewMemoryRequestRepository()
	jq := queue.NewJobQueue(1)
	t.Cleanup(jq.Close)

	svc := NewWorkspaceService(workspaces, requests, NewNotifier(jq))

	// No worker drains the queue, so every email past the first is
	// dropped. Creation must still succeed each time.
	for i := 0; i < 5; i++ {
		workspace, err := svc.Create(context.Background(), &models.CreateWorkspaceRequest{
			CompanyName: "Acme Corp",
			ClientName:  "Jordan",
			ClientEmail: "jordan@acme.test",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, workspace.Id)
	}

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 5)
}

func TestWorkspaceGetByAccessCode(t *testing.T) {
	svc, _, _ := setupWorkspaceService(t)

	created, err := svc.Create(context.Background(), &models.CreateWorkspaceRequest{
		CompanyName: "Acme Corp",
		ClientName:  "Jordan",
		ClientEmail: "jordan@acme.test",
	})
	require.NoError(t, err)

	found, err := svc.GetByAccessCode(context.Background(), created.AccessCode)
	require.NoError(t, err)
	assert.Equal(t, created.Id, found.Id)

	_, err = svc.GetByAccessCode(context.Background(), "NOPE1234")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWorkspaceSetActive(t *testing.T) {
	svc, _, _ := setupWorkspaceService(t)

	created, err := svc.Create(context.Background(), &models.CreateWorkspaceRequest{
		CompanyName: "Acme Corp",
		ClientName:  "Jordan",
		ClientEmail: "jordan@acme.test",
	})
	require.NoError(t, err)

	updated, err := svc.SetActive(context.Background(), created.Id, false)
	require.NoError(t, err)
	assert.False(t, updated.Active)

	updated, err = svc.SetActive(context.Background(), created.Id, true)
	require.NoError(t, err)
	assert.True(t, updated.Active)

	_, err = svc.SetActive(context.Background(), "missing", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWorkspaceDeleteCascades(t *testing.T) {
	svc, requests, _ := setupWorkspaceService(t)
	engine := lifecycle.NewEngine(nil, false)

	created, err := svc.Create(context.Background(), &models.CreateWorkspaceRequest{
		CompanyName: "Acme Corp",
		ClientName:  "Jordan",
		ClientEmail: "jordan@acme.test",
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		request := engine.Create(created.Id, models.ComplexitySimple, "landing page", "")
		require.NoError(t, requests.Create(context.Background(), request))
	}
	orphan := engine.Create("other-workspace", models.ComplexitySimple, "unrelated", "")
	require.NoError(t, requests.Create(context.Background(), orphan))

	require.NoError(t, svc.Delete(context.Background(), created.Id))

	_, err = svc.Get(context.Background(), created.Id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	remaining, err := requests.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "other-workspace", remaining[0].WorkspaceId)

	assert.ErrorIs(t, svc.Delete(context.Background(), created.Id), repository.ErrNotFound)
}

func TestWorkspaceListSorted(t *testing.T) {
	svc, _, _ := setupWorkspaceService(t)

	names := []string{"First", "Second", "Third"}
	for _, name := range names {
		_, err := svc.Create(context.Background(), &models.CreateWorkspaceRequest{
			CompanyName: name,
			ClientName:  "Jordan",
			ClientEmail: strings.ToLower(name) + "@acme.test",
		})
		require.NoError(t, err)
	}

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for i := 1; i < len(listed); i++ {
		assert.False(t, listed[i-1].CreatedAt.Before(listed[i].CreatedAt),
			"workspaces should be sorted newest first")
	}
}
