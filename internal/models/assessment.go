// internal/models/assessment.go
package models

type StudentLevel string

const (
	LevelSchool10 StudentLevel = "school_10"
	LevelSchool11 StudentLevel = "school_11"
	LevelSchool12 StudentLevel = "school_12"
	LevelUG       StudentLevel = "ug"
	LevelPG       StudentLevel = "pg"
)

var StudentLevels = []StudentLevel{LevelSchool10, LevelSchool11, LevelSchool12, LevelUG, LevelPG}

func (l StudentLevel) Valid() bool {
	for _, v := range StudentLevels {
		if l == v {
			return true
		}
	}
	return false
}

// RequiresStream reports whether a stream choice exists at this level
// (11th grade and above).
func (l StudentLevel) RequiresStream() bool {
	return l.Valid() && l != LevelSchool10
}

type Stream string

const (
	StreamScience         Stream = "science"
	StreamComputerScience Stream = "computer_science"
	StreamCommerce        Stream = "commerce"
	StreamArts            Stream = "arts"
	StreamEngineering     Stream = "engineering"
	StreamMedical         Stream = "medical"
	StreamManagement      Stream = "management"
	StreamLaw             Stream = "law"
	StreamOther           Stream = "other"
)

var Streams = []Stream{
	StreamScience, StreamComputerScience, StreamCommerce, StreamArts, StreamEngineering,
	StreamMedical, StreamManagement, StreamLaw, StreamOther,
}

func (s Stream) Valid() bool {
	for _, v := range Streams {
		if s == v {
			return true
		}
	}
	return false
}

const (
	MaxSkills    = 8
	MaxInterests = 5
	MinMarks     = 30
	MaxMarks     = 100
	DefaultMarks = 75
)

// Option lists offered by the assessment form.
var SkillOptions = []string{
	"Mathematics", "Physics", "Chemistry", "Biology", "Computer Science", "Programming",
	"Data Analysis", "Communication", "Leadership", "Problem Solving", "Design", "Writing",
	"Accounting", "Marketing", "Research",
}

var InterestOptions = []string{
	"Technology & Computers", "Medicine & Healthcare", "Business & Entrepreneurship",
	"Arts & Design", "Teaching & Education", "Law & Justice", "Engineering & Construction",
	"Finance & Banking", "Media & Journalism", "Sports & Fitness",
}

// AssessmentInput is the profile assembled by the collector before it is stored.
type AssessmentInput struct {
	StudentLevel    StudentLevel `json:"studentLevel"`
	Stream          Stream       `json:"stream,omitempty"`
	MarksPercentage int          `json:"marksPercentage"`
	Skills          []string     `json:"skills"`
	Interests       []string     `json:"interests"`
	PreferredCity   string       `json:"preferredCity,omitempty"`
}

// AssessmentProfile is a stored assessment. It is never updated; a retake
// produces a new record.
type AssessmentProfile struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	StudentLevel    StudentLevel `json:"studentLevel"`
	Stream          Stream       `json:"stream,omitempty"`
	MarksPercentage int          `json:"marksPercentage"`
	Skills          []string     `json:"skills"`
	Interests       []string     `json:"interests"`
	PreferredCity   string       `json:"preferredCity,omitempty"`
	CreatedAt       string       `json:"createdAt"`
}

func (p AssessmentProfile) Input() AssessmentInput {
	return AssessmentInput{
		StudentLevel:    p.StudentLevel,
		Stream:          p.Stream,
		MarksPercentage: p.MarksPercentage,
		Skills:          p.Skills,
		Interests:       p.Interests,
		PreferredCity:   p.PreferredCity,
	}
}

type UserProfile struct {
	UserID       string       `json:"userId"`
	FullName     string       `json:"fullName"`
	Email        string       `json:"email"`
	City         string       `json:"city,omitempty"`
	StudentLevel StudentLevel `json:"studentLevel,omitempty"`
}
