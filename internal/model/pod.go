package model

type PodPhase string

const (
	PhaseResearch       PodPhase = "research"
	PhaseDesign         PodPhase = "design"
	PhaseImplementation PodPhase = "implementation"
	PhaseReflection     PodPhase = "reflection"
)

func (p PodPhase) Valid() bool {
	switch p {
	case PhaseResearch, PhaseDesign, PhaseImplementation, PhaseReflection:
		return true
	}
	return false
}

type PodMode string

const (
	SingleStage PodMode = "single_stage"
	MultiStage  PodMode = "multi_stage"
)

// PodResource Pod 级别的外部资源引用
type PodResource struct {
	Type    string `json:"type"` // video | pdf | link | mcq
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Content string `json:"content,omitempty"`
}

// swagger:model Pod
type Pod struct {
	UUIDBase
	ProblemID        string        `gorm:"type:varchar(36);index;not null;uniqueIndex:idx_pods_problem_order" json:"problemId"`
	Title            string        `gorm:"size:255;not null" json:"title"`
	Phase            PodPhase      `gorm:"size:20;not null" json:"phase"`
	Order            int           `gorm:"column:display_order;not null;uniqueIndex:idx_pods_problem_order" json:"order"`
	Resources        []PodResource `gorm:"serializer:json" json:"resources"`
	ExpectedOutputs  []string      `gorm:"serializer:json" json:"expectedOutputs"`
	DescriptionMD    string        `gorm:"type:text" json:"descriptionMd"`
	ContentFilePath  string        `gorm:"size:512" json:"contentFilePath"`
	Mode             PodMode       `gorm:"size:20;default:'multi_stage'" json:"mode"`
	EstimatedMinutes int           `gorm:"default:60" json:"estimatedMinutes"`
}

func (Pod) TableName() string {
	return "pods"
}
