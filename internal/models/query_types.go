// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeCareerPaths       QueryType = "career_paths"
	QueryTypeLatestAssessment  QueryType = "latest_assessment"
	QueryTypeAssessmentHistory QueryType = "assessment_history"
	QueryTypeUserProfile       QueryType = "user_profile"
	QueryTypeColleges          QueryType = "colleges"
	QueryTypeCompanies         QueryType = "companies"
	QueryTypeChatHistory       QueryType = "chat_history"
)

type SearchIndex string

const (
	IndexCareerPaths SearchIndex = "career_paths"
	IndexColleges    SearchIndex = "colleges"
	IndexCompanies   SearchIndex = "companies"
)
