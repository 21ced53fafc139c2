package project

import (
	"time"

	"github.com/HuonT/Writers-Tome/internal/progress"
)

// Project is one writing project: the unit of persistence. The embedded
// progress document is read and written with the project as a whole
// (whole-document overwrite, last write wins).
type Project struct {
	ID           string                  `json:"id"`
	UserID       string                  `json:"user_id"`
	Name         string                  `json:"name"`
	CreatedAt    time.Time               `json:"created_at"`
	LastModified time.Time               `json:"last_modified"`
	Progress     progress.CourseProgress `json:"progress"`
}
