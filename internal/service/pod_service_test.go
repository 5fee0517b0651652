package service

import (
	"testing"

	"podlab_backend/internal/model"
	"podlab_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPodService(repos *testRepos) *PodService {
	return NewPodService(repos.pod, repos.problem, repos.stage, nil)
}

func TestCreatePodAppendsParentRef(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	problem, _, _ := seedHierarchy(t, repos)
	svc := newPodService(repos)

	pod, err := svc.Create(PodInput{
		ProblemID: problem.ID,
		Title:     "Design the data model",
		Phase:     model.PhaseDesign,
		Order:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, model.MultiStage, pod.Mode)
	assert.Equal(t, 60, pod.EstimatedMinutes)

	parent, err := repos.problem.FindByID(problem.ID)
	require.NoError(t, err)

	var found bool
	for _, ref := range parent.Pods {
		if ref.PodID == pod.ID {
			found = true
			assert.Equal(t, 2, ref.Order)
			assert.Equal(t, float64(1), ref.Weight)
		}
	}
	assert.True(t, found, "parent problem must reference the new pod")
}

func TestCreatePodUnknownProblem(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := newPodService(repos)

	_, err := svc.Create(PodInput{
		ProblemID: "missing",
		Title:     "Orphan",
		Phase:     model.PhaseResearch,
	})
	assert.ErrorIs(t, err, util.ErrProblemNotFound)
}

func TestCreatePodInvalidPhase(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	problem, _, _ := seedHierarchy(t, repos)
	svc := newPodService(repos)

	_, err := svc.Create(PodInput{
		ProblemID: problem.ID,
		Title:     "Bad phase",
		Phase:     "brainstorming",
	})
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestDeletePodCascades(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	problem, _, _ := seedHierarchy(t, repos)
	svc := newPodService(repos)

	pod, err := svc.Create(PodInput{
		ProblemID: problem.ID,
		Title:     "Implementation",
		Phase:     model.PhaseImplementation,
		Order:     2,
	})
	require.NoError(t, err)

	stage := &model.PodStage{
		PodID: pod.ID,
		Title: "Write the first version",
		Order: 1,
		Type:  model.StageDocumentation,
	}
	require.NoError(t, repos.stage.Create(stage))

	require.NoError(t, svc.Delete(pod.ID))

	stages, err := repos.stage.FindByPodID(pod.ID)
	require.NoError(t, err)
	assert.Empty(t, stages, "pod delete must remove its stages")

	parent, err := repos.problem.FindByID(problem.ID)
	require.NoError(t, err)
	for _, ref := range parent.Pods {
		assert.NotEqual(t, pod.ID, ref.PodID, "pod delete must pull the parent's back-reference")
	}

	err = svc.Delete(pod.ID)
	assert.ErrorIs(t, err, util.ErrPodNotFound)
}
