package service

import (
	"fmt"
	"strings"
	"testing"

	"podlab_backend/internal/model"
	"podlab_backend/internal/repository"
	"podlab_backend/pkg/database"
	"podlab_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB 每个测试用独立的内存 sqlite 库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// 单连接串行化，避免并发查询触发 sqlite 的表锁
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type testRepos struct {
	problem  *repository.ProblemRepository
	pod      *repository.PodRepository
	stage    *repository.StageRepository
	attempt  *repository.AttemptRepository
	progress *repository.StageProgressRepository
	profile  *repository.UserProfileRepository
	artefact *repository.ArtefactRepository
}

func newTestRepos(db *gorm.DB) *testRepos {
	return &testRepos{
		problem:  repository.NewProblemRepository(db),
		pod:      repository.NewPodRepository(db),
		stage:    repository.NewStageRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		progress: repository.NewStageProgressRepository(db),
		profile:  repository.NewUserProfileRepository(db),
		artefact: repository.NewArtefactRepository(db),
	}
}

// seedHierarchy 建一条 Problem → Pod → Stage 的内容链
func seedHierarchy(t *testing.T, repos *testRepos) (*model.Problem, *model.Pod, *model.PodStage) {
	t.Helper()

	problem := &model.Problem{
		Slug:           "build-a-cache",
		Title:          "Build a Cache",
		Difficulty:     model.Intermediate,
		EstimatedHours: 8,
		IsPublic:       true,
	}
	require.NoError(t, repos.problem.Create(problem))

	pod := &model.Pod{
		ProblemID: problem.ID,
		Title:     "Research the problem space",
		Phase:     model.PhaseResearch,
		Order:     1,
	}
	require.NoError(t, repos.pod.Create(pod))

	stage := &model.PodStage{
		PodID:      pod.ID,
		Title:      "Practice the fundamentals",
		Order:      1,
		Type:       model.StagePractice,
		IsRequired: true,
		Content: model.StageContent{
			PracticeProblems: []model.PracticeProblem{
				{ID: "pp-1", Title: "Answer of everything", Solution: "42"},
			},
			MCQs: []model.MCQQuestion{
				{
					ID:       "q-1",
					Question: "Which eviction policy keeps the most recently used entries?",
					Options: []model.MCQOption{
						{ID: "opt-a", Text: "FIFO", IsCorrect: false},
						{ID: "opt-b", Text: "LRU", IsCorrect: true},
					},
					Explanation: "LRU evicts the least recently used entry first.",
				},
			},
		},
	}
	require.NoError(t, repos.stage.Create(stage))

	return problem, pod, stage
}

func newProgressService(repos *testRepos) *ProgressService {
	return NewProgressService(repos.stage, repos.pod, repos.attempt, repos.progress)
}
