package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"podlab_backend/internal/model"
	"podlab_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStageService(repos *testRepos, content *ContentService) *StageService {
	return NewStageService(repos.stage, repos.pod, repos.progress, content)
}

func TestListForUserOrdersStages(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, stage := seedHierarchy(t, repos)

	second := &model.PodStage{
		PodID: pod.ID,
		Title: "Wrap up",
		Order: 2,
		Type:  model.StageDocumentation,
	}
	require.NoError(t, repos.stage.Create(second))

	progressSvc := newProgressService(repos)
	_, err := progressSvc.StartStage("user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	svc := newStageService(repos, nil)
	view, err := svc.ListForUser("user-1", pod.ID)
	require.NoError(t, err)

	assert.Equal(t, pod.ID, view.Pod.ID)
	require.Len(t, view.Stages, 2)
	assert.Equal(t, stage.ID, view.Stages[0].ID)
	assert.Equal(t, second.ID, view.Stages[1].ID)

	require.NotNil(t, view.Stages[0].Progress)
	assert.Equal(t, model.StageInProgress, view.Stages[0].Progress.Status)
	assert.Nil(t, view.Stages[1].Progress, "stages never started carry no progress")
}

func TestListForUserUnknownPod(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := newStageService(repos, nil)

	_, err := svc.ListForUser("user-1", "missing")
	assert.ErrorIs(t, err, util.ErrPodNotFound)
}

func TestGetForUserOverlaysExternalContent(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, _ := seedHierarchy(t, repos)

	content, dir := newLocalContentService(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "content", "stages"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "content", "stages", "cache-intro.md"),
		[]byte("external body"), 0644))

	stage := &model.PodStage{
		PodID:    pod.ID,
		Title:    "Keyed stage",
		Order:    5,
		Type:     model.StageIntroduction,
		StageKey: "cache-intro",
	}
	require.NoError(t, repos.stage.Create(stage))

	svc := newStageService(repos, content)
	view, err := svc.GetForUser(context.Background(), "user-1", pod.ID, stage.ID)
	require.NoError(t, err)

	assert.Equal(t, "external body", view.ExternalContent)
	assert.Nil(t, view.Progress)
}

func TestGetForUserMissingOverlayDegrades(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, _ := seedHierarchy(t, repos)

	content, _ := newLocalContentService(t)

	stage := &model.PodStage{
		PodID:    pod.ID,
		Title:    "Keyed stage without file",
		Order:    5,
		Type:     model.StageIntroduction,
		StageKey: "nowhere",
	}
	require.NoError(t, repos.stage.Create(stage))

	svc := newStageService(repos, content)
	view, err := svc.GetForUser(context.Background(), "user-1", pod.ID, stage.ID)
	require.NoError(t, err, "missing overlay must not fail the request")
	assert.Empty(t, view.ExternalContent)
}

func TestPodContentPrefersExternalFile(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	problem, _, _ := seedHierarchy(t, repos)

	content, dir := newLocalContentService(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "content", "pods"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "content", "pods", "research.md"),
		[]byte("from file"), 0644))

	pod := &model.Pod{
		ProblemID:       problem.ID,
		Title:           "With file",
		Phase:           model.PhaseDesign,
		Order:           2,
		DescriptionMD:   "from column",
		ContentFilePath: "content/pods/research.md",
	}
	require.NoError(t, repos.pod.Create(pod))

	svc := newStageService(repos, content)
	body, err := svc.PodContent(context.Background(), pod.ID)
	require.NoError(t, err)
	assert.Equal(t, "from file", body)
}

func TestPodContentFallsBackToDescription(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	problem, _, _ := seedHierarchy(t, repos)

	content, _ := newLocalContentService(t)

	pod := &model.Pod{
		ProblemID:       problem.ID,
		Title:           "No file",
		Phase:           model.PhaseDesign,
		Order:           2,
		DescriptionMD:   "from column",
		ContentFilePath: "content/pods/gone.md",
	}
	require.NoError(t, repos.pod.Create(pod))

	svc := newStageService(repos, content)
	body, err := svc.PodContent(context.Background(), pod.ID)
	require.NoError(t, err)
	assert.Equal(t, "from column", body)
}

func TestStageMarkdownFallsBackToContentMD(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	_, pod, _ := seedHierarchy(t, repos)

	stage := &model.PodStage{
		PodID:   pod.ID,
		Title:   "Inline body",
		Order:   6,
		Type:    model.StageDocumentation,
		Content: model.StageContent{ContentMD: "inline markdown"},
	}
	require.NoError(t, repos.stage.Create(stage))

	svc := newStageService(repos, nil)
	body, stageContent, err := svc.StageMarkdown(context.Background(), pod.ID, stage.ID)
	require.NoError(t, err)
	assert.Equal(t, "inline markdown", body)
	require.NotNil(t, stageContent)
	assert.Equal(t, "inline markdown", stageContent.ContentMD)
}
