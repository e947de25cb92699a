package models

// ProjectCodeSequence names the high-water mark of allocated project codes.
const ProjectCodeSequence = "project_code"

// Sequence records the highest number ever allocated for a named counter, so
// numbers freed by deletes are not handed out again.
type Sequence struct {
	Name  string `json:"name" gorm:"column:name;type:text;primaryKey"`
	Value int    `json:"value" gorm:"column:value;not null"`
}

func (Sequence) TableName() string {
	return "sequences"
}
