package models

// Difficulty levels
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// contains all valid question difficulties (in lowercase)
var ValidDifficulties = map[string]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// session statuses
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

var ValidStatuses = map[string]bool{
	StatusNotStarted: true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// supported resume file types
const (
	ResumeTypePDF  = "pdf"
	ResumeTypeDOCX = "docx"
)

// candidate table sort keys and orders
const (
	SortByScore = "score"
	SortByDate  = "date"
	SortByName  = "name"

	SortAsc  = "asc"
	SortDesc = "desc"
)

var ValidSortKeys = map[string]bool{
	SortByScore: true,
	SortByDate:  true,
	SortByName:  true,
}

func DifficultiesList() []string {
	return []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
}
