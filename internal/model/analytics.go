package model

// 仪表盘聚合查询的只读视图，不对应任何表

type UserAnalytics struct {
	TotalUsers       int64            `json:"totalUsers"`
	ActiveUsers      ActiveUserCounts `json:"activeUsers"`
	UserGrowth       []MonthlyCount   `json:"userGrowth"`
	TierDistribution map[string]int64 `json:"tierDistribution"`
}

type ActiveUserCounts struct {
	Last7Days  int64 `json:"last7Days"`
	Last30Days int64 `json:"last30Days"`
}

type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

type ProblemAnalytics struct {
	TotalProblems          int64                   `json:"totalProblems"`
	PublicProblems         int64                   `json:"publicProblems"`
	PrivateProblems        int64                   `json:"privateProblems"`
	DifficultyDistribution map[string]int64        `json:"difficultyDistribution"`
	CompletionRates        []ProblemCompletionStat `json:"completionRates"`
}

type ProblemCompletionStat struct {
	ProblemID         string  `json:"problemId"`
	ProblemSlug       string  `json:"problemSlug"`
	ProblemTitle      string  `json:"problemTitle"`
	TotalAttempts     int64   `json:"totalAttempts"`
	CompletedAttempts int64   `json:"completedAttempts"`
	CompletionRate    float64 `json:"completionRate"`
}

type PodAnalytics struct {
	TotalPods         int64             `json:"totalPods"`
	PhaseDistribution map[string]int64  `json:"phaseDistribution"`
	CompletionRates   []PodAttemptStat  `json:"completionRates"`
	AvgTimeSpent      float64           `json:"avgTimeSpent"` // 分钟
}

type PodAttemptStat struct {
	PodID             string  `json:"podId"`
	PodTitle          string  `json:"podTitle"`
	PodPhase          string  `json:"podPhase"`
	TotalAttempts     int64   `json:"totalAttempts"`
	CompletedAttempts int64   `json:"completedAttempts"`
	CompletionRate    float64 `json:"completionRate"`
	AvgTimeSpent      float64 `json:"avgTimeSpent"`
}

type StageAnalytics struct {
	TotalStages      int64            `json:"totalStages"`
	TypeDistribution map[string]int64 `json:"typeDistribution"`
	AssessmentScores []StageStat      `json:"assessmentScores"`
}

type StageStat struct {
	StageID            string  `json:"stageId"`
	StageTitle         string  `json:"stageTitle"`
	StageType          string  `json:"stageType"`
	TotalAttempts      int64   `json:"totalAttempts"`
	CompletedAttempts  int64   `json:"completedAttempts"`
	CompletionRate     float64 `json:"completionRate"`
	AvgAssessmentScore float64 `json:"avgAssessmentScore"`
	AvgTimeSpent       float64 `json:"avgTimeSpent"`
}

type ProgressAnalytics struct {
	CompletionRate    float64 `json:"completionRate"`
	AbandonmentRate   float64 `json:"abandonmentRate"`
	AvgCompletionTime float64 `json:"avgCompletionTime"` // 小时
	ActiveAttempts    int64   `json:"activeAttempts"`
	AbandonedAttempts int64   `json:"abandonedAttempts"`
}
