package service

import (
	"testing"

	"podlab_backend/internal/model"
	"podlab_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPodAttempt(t *testing.T, repos *testRepos, userID string) *model.PodAttempt {
	t.Helper()
	_, pod, stage := seedHierarchy(t, repos)

	progressSvc := newProgressService(repos)
	_, err := progressSvc.StartStage(userID, pod.ID, stage.ID)
	require.NoError(t, err)

	attempt, err := repos.attempt.FindActivePodAttempt(userID, pod.ID)
	require.NoError(t, err)
	require.NotNil(t, attempt)
	return attempt
}

func TestArtefactLifecycle(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	attempt := seedPodAttempt(t, repos, "user-1")
	svc := NewArtefactService(repos.artefact, repos.attempt)

	artefact, err := svc.Create("user-1", attempt.ID, ArtefactInput{
		Type:    model.ArtefactMarkdown,
		Content: "# Findings",
	})
	require.NoError(t, err)

	listed, err := svc.List("user-1", attempt.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, artefact.ID, listed[0].ID)

	updated, err := svc.Update("user-1", artefact.ID, ArtefactInput{
		Type: model.ArtefactURL,
		URL:  "https://example.com/report",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ArtefactURL, updated.Type)
	assert.Equal(t, "https://example.com/report", updated.URL)

	require.NoError(t, svc.Delete("user-1", artefact.ID))

	listed, err = svc.List("user-1", attempt.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestArtefactOwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	attempt := seedPodAttempt(t, repos, "user-1")
	svc := NewArtefactService(repos.artefact, repos.attempt)

	artefact, err := svc.Create("user-1", attempt.ID, ArtefactInput{
		Type:    model.ArtefactMarkdown,
		Content: "mine",
	})
	require.NoError(t, err)

	_, err = svc.List("user-2", attempt.ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	_, err = svc.Update("user-2", artefact.ID, ArtefactInput{Type: model.ArtefactMarkdown})
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	err = svc.Delete("user-2", artefact.ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestArtefactInvalidType(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	attempt := seedPodAttempt(t, repos, "user-1")
	svc := NewArtefactService(repos.artefact, repos.attempt)

	_, err := svc.Create("user-1", attempt.ID, ArtefactInput{Type: "zip"})
	assert.ErrorIs(t, err, ErrInvalidArtefactType)
}
