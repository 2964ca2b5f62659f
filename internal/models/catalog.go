// internal/models/catalog.go
package models

type CollegeType string

const (
	CollegeGovernment CollegeType = "government"
	CollegePrivate    CollegeType = "private"
	CollegeDeemed     CollegeType = "deemed"
)

type CompanySize string

const (
	CompanyStartup CompanySize = "startup"
	CompanySmall   CompanySize = "small"
	CompanyMedium  CompanySize = "medium"
	CompanyLarge   CompanySize = "large"
	CompanyMNC     CompanySize = "mnc"
)

type College struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	City            string      `json:"city"`
	State           string      `json:"state,omitempty"`
	Area            string      `json:"area,omitempty"`
	Address         string      `json:"address,omitempty"`
	Type            CollegeType `json:"type,omitempty"`
	Website         string      `json:"website,omitempty"`
	Email           string      `json:"email,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	EstablishedYear *int        `json:"establishedYear,omitempty"`
	Description     string      `json:"description,omitempty"`
}

type Company struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Industry    string      `json:"industry"`
	City        string      `json:"city"`
	State       string      `json:"state,omitempty"`
	Address     string      `json:"address,omitempty"`
	Size        CompanySize `json:"companySize,omitempty"`
	Website     string      `json:"website,omitempty"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	FoundedYear *int        `json:"foundedYear,omitempty"`
	Description string      `json:"description,omitempty"`
}

// CatalogFilter narrows a catalog listing. Query is matched case-insensitively
// against the entity's name-like fields; Category, Type and Industry are exact.
type CatalogFilter struct {
	Query    string `json:"query,omitempty"`
	City     string `json:"city,omitempty"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	Industry string `json:"industry,omitempty"`
}
