package model

type ArtefactType string

const (
	ArtefactMarkdown   ArtefactType = "markdown"
	ArtefactURL        ArtefactType = "url"
	ArtefactFile       ArtefactType = "file"
	ArtefactGithubRepo ArtefactType = "github_repo"
)

func (t ArtefactType) Valid() bool {
	switch t {
	case ArtefactMarkdown, ArtefactURL, ArtefactFile, ArtefactGithubRepo:
		return true
	}
	return false
}

// Artefact Pod attempt 的提交产物
// swagger:model Artefact
type Artefact struct {
	UUIDBase
	PodAttemptID string       `gorm:"type:varchar(36);index;not null" json:"podAttemptId"`
	Type         ArtefactType `gorm:"size:20;not null" json:"type"`
	Content      string       `gorm:"type:text" json:"content,omitempty"`
	URL          string       `gorm:"size:1024" json:"url,omitempty"`
	FileID       string       `gorm:"size:255" json:"fileId,omitempty"`
}

func (Artefact) TableName() string {
	return "artefacts"
}
