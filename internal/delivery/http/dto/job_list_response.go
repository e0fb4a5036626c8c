package dto

import "github.com/google/uuid"

type JobResponse struct {
	JobID          uuid.UUID `json:"job_id"`
	Title          string    `json:"title"`
	Industry       string    `json:"industry"`
	SourceIndustry string    `json:"source_industry,omitempty"`
	Skills         []string  `json:"skills"`
	MatchScore     float64   `json:"match_score,omitempty"`
	EntryLevelWage float64   `json:"entry_level_wage,omitempty"`
	AverageWage    float64   `json:"average_wage,omitempty"`
}

type IndustryResponse struct {
	Industry string `json:"industry"`
	Jobs     int    `json:"jobs"`
}

type IndustrySkillsResponse struct {
	Industry string   `json:"industry"`
	Skills   []string `json:"skills"`
}
