package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/file-analyzer/constants"
)

// AnalysisResult represents one completed analysis for data transfer between layers.
type AnalysisResult struct {
	ID         uuid.UUID              `json:"id"`
	Kind       constants.AnalysisKind `json:"kind"`
	SourcePath string                 `json:"source_path"`
	Summary    string                 `json:"summary"`
	CreatedAt  time.Time              `json:"created_at"`
}
