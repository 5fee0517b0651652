package model

import "gorm.io/datatypes"

type StageType string

const (
	StageIntroduction  StageType = "introduction"
	StageCaseStudies   StageType = "case_studies"
	StageResources     StageType = "resources"
	StagePractice      StageType = "practice"
	StageAssessment    StageType = "assessment"
	StageDocumentation StageType = "documentation"
)

func (t StageType) Valid() bool {
	switch t {
	case StageIntroduction, StageCaseStudies, StageResources, StagePractice, StageAssessment, StageDocumentation:
		return true
	}
	return false
}

// MCQOption 单选题选项
type MCQOption struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation,omitempty"`
}

// MCQQuestion 嵌入在 Stage 内容中的选择题
type MCQQuestion struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"` // direct | scenario
	Question    string      `json:"question"`
	Scenario    string      `json:"scenario,omitempty"`
	Options     []MCQOption `json:"options"`
	Explanation string      `json:"explanation"`
	Difficulty  string      `json:"difficulty"` // easy | medium | hard
}

// PracticeProblem 嵌入在 Stage 内容中的练习题
type PracticeProblem struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ProblemStatement string   `json:"problemStatement"`
	Hints            []string `json:"hints,omitempty"`
	Solution         string   `json:"solution,omitempty"`
	Difficulty       string   `json:"difficulty"`
}

type StageResource struct {
	Type        string `json:"type"` // video | pdf | link
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Content     string `json:"content,omitempty"`
	Description string `json:"description,omitempty"`
}

type CaseStudy struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Questions   []string `json:"questions,omitempty"`
}

// StageContent Stage 的内容包，整体作为一个 json 列存储
type StageContent struct {
	Introduction        string            `json:"introduction,omitempty"`
	LearningObjectives  []string          `json:"learningObjectives,omitempty"`
	CaseStudies         []CaseStudy       `json:"caseStudies,omitempty"`
	Resources           []StageResource   `json:"resources,omitempty"`
	PracticeProblems    []PracticeProblem `json:"practiceProblems,omitempty"`
	AssessmentQuestions []MCQQuestion     `json:"assessmentQuestions,omitempty"`
	ContentMD           string            `json:"contentMd,omitempty"`
	MCQs                []MCQQuestion     `json:"mcqs,omitempty"`
}

// UnlockCondition 解锁条件，仅作为数据保存，后端不做判定
type UnlockCondition struct {
	Type        string         `json:"type"` // previous_stage_completion | time_spent | practice_problem_completion | resource_view
	Value       datatypes.JSON `json:"value"`
	Description string         `json:"description"`
}

// swagger:model PodStage
type PodStage struct {
	UUIDBase
	PodID            string            `gorm:"type:varchar(36);index;not null;uniqueIndex:idx_stages_pod_order" json:"podId"`
	Title            string            `gorm:"size:255;not null" json:"title"`
	Description      string            `gorm:"type:text;not null" json:"description"`
	Order            int               `gorm:"column:display_order;not null;uniqueIndex:idx_stages_pod_order" json:"order"`
	Type             StageType         `gorm:"size:20;not null" json:"type"`
	Content          StageContent      `gorm:"serializer:json" json:"content"`
	UnlockConditions []UnlockCondition `gorm:"serializer:json" json:"unlockConditions"`
	EstimatedMinutes int               `gorm:"default:30" json:"estimatedMinutes"`
	// 不能给 default:true，否则创建可选 Stage 时 false 会被列默认值覆盖
	IsRequired       bool              `json:"isRequired"`
	StageKey         string            `gorm:"size:100" json:"stageKey,omitempty"` // 外部内容文件的查找键
}

func (PodStage) TableName() string {
	return "pod_stages"
}

// FindPracticeProblem 在内容包中查找练习题
func (s *PodStage) FindPracticeProblem(problemID string) *PracticeProblem {
	for i := range s.Content.PracticeProblems {
		if s.Content.PracticeProblems[i].ID == problemID {
			return &s.Content.PracticeProblems[i]
		}
	}
	return nil
}

// FindMCQ 在内容包中查找选择题
func (s *PodStage) FindMCQ(questionID string) *MCQQuestion {
	for i := range s.Content.MCQs {
		if s.Content.MCQs[i].ID == questionID {
			return &s.Content.MCQs[i]
		}
	}
	return nil
}

// FindOption 查找指定选项
func (q *MCQQuestion) FindOption(optionID string) *MCQOption {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}

// CorrectOption 返回正确选项
func (q *MCQQuestion) CorrectOption() *MCQOption {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
