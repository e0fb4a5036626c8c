package dto

import "github.com/google/uuid"

type RecommendationRequest struct {
	Skills          []string `json:"skills" validate:"required,dive,max=120"`
	GroupByIndustry bool     `json:"group_by_industry"`
	Mode            string   `json:"mode,omitempty" validate:"omitempty,oneof=count ratio"`
	Threshold       *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0"`
}

type ExperienceResponse struct {
	Name   string `json:"name"`
	Layout string `json:"layout"`
	Level  string `json:"level"`
}

type RecommendedJobResponse struct {
	JobID       uuid.UUID            `json:"job_id"`
	Title       string               `json:"title"`
	Industry    string               `json:"industry"`
	Score       float64              `json:"score"`
	Overlap     int                  `json:"overlap"`
	Matched     []string             `json:"matched_skills"`
	Missing     []string             `json:"missing_skills"`
	Experiences []ExperienceResponse `json:"experiences"`
}

type IndustryGroupResponse struct {
	Industry  string                   `json:"industry"`
	BestScore float64                  `json:"best_score"`
	Jobs      []RecommendedJobResponse `json:"jobs"`
}

type RecommendationResponse struct {
	Selected        []string                 `json:"selected"`
	Mode            string                   `json:"mode"`
	Threshold       float64                  `json:"threshold"`
	Level           string                   `json:"level"`
	Recommendations []RecommendedJobResponse `json:"recommendations"`
	Groups          []IndustryGroupResponse  `json:"groups,omitempty"`
}
