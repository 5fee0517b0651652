// 手动灌入示例内容脚本
//
// 建一条 Problem → Pod → Stage 的演示内容链，用于首次部署后验证
// 内容交付和进度接口。已有同 slug 的 Problem 时直接退出，不会重复写入。
//
// 用法: go run scripts/seed_content.go

package main

import (
	"log"

	"podlab_backend/internal/config"
	"podlab_backend/internal/model"
	"podlab_backend/internal/repository"
	"podlab_backend/pkg/database"
	"podlab_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("连接数据库失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("迁移失败: %v", err)
	}

	problemRepo := repository.NewProblemRepository(db)
	podRepo := repository.NewPodRepository(db)
	stageRepo := repository.NewStageRepository(db)

	const slug = "build-a-url-shortener"
	if existing, err := problemRepo.FindPublicBySlug(slug); err == nil && existing != nil {
		log.Printf("示例 Problem %q 已存在，跳过", slug)
		return
	}

	problem := &model.Problem{
		Slug:           slug,
		Title:          "Build a URL Shortener",
		Description:    "Design and build a production-grade URL shortening service.",
		Difficulty:     model.Intermediate,
		EstimatedHours: 12,
		IsPublic:       true,
	}
	if err := problemRepo.Create(problem); err != nil {
		log.Fatalf("创建 Problem 失败: %v", err)
	}

	pod := &model.Pod{
		ProblemID:        problem.ID,
		Title:            "Research existing shorteners",
		Phase:            model.PhaseResearch,
		Order:            1,
		DescriptionMD:    "# Research\n\nStudy how bit.ly and tinyurl handle key generation and redirects.",
		Mode:             model.MultiStage,
		EstimatedMinutes: 90,
	}
	if err := podRepo.Create(pod); err != nil {
		log.Fatalf("创建 Pod 失败: %v", err)
	}
	if err := problemRepo.AppendPodRef(problem, model.PodRef{PodID: pod.ID, Order: 1, Weight: 1}); err != nil {
		log.Fatalf("追加 Pod 引用失败: %v", err)
	}

	stages := []*model.PodStage{
		{
			PodID:            pod.ID,
			Title:            "Key generation strategies",
			Order:            1,
			Type:             model.StageIntroduction,
			IsRequired:       true,
			EstimatedMinutes: 20,
			Content: model.StageContent{
				ContentMD: "## Key generation\n\nCompare counters, hashes and random keys.",
			},
		},
		{
			PodID:            pod.ID,
			Title:            "Check your understanding",
			Order:            2,
			Type:             model.StageAssessment,
			IsRequired:       true,
			EstimatedMinutes: 15,
			Content: model.StageContent{
				MCQs: []model.MCQQuestion{
					{
						ID:       "seed-q-1",
						Question: "Which approach guarantees collision-free short keys without coordination?",
						Options: []model.MCQOption{
							{ID: "seed-opt-a", Text: "Random 6-character strings", IsCorrect: false},
							{ID: "seed-opt-b", Text: "A pre-allocated counter range per node", IsCorrect: true},
						},
						Explanation: "Counter ranges are handed out centrally once, then used without coordination.",
					},
				},
			},
		},
	}
	for _, stage := range stages {
		if err := stageRepo.Create(stage); err != nil {
			log.Fatalf("创建 Stage 失败: %v", err)
		}
	}

	log.Printf("示例内容已写入: problem=%s pod=%s stages=%d", problem.ID, pod.ID, len(stages))
}
