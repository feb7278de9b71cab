package dto

// GradebookResponse is the full gradebook for one class.
type GradebookResponse struct {
	Assignments []GradebookAssignment `json:"assignments"`
	Students    []GradebookStudent    `json:"students"`
}

// GradebookAssignment is one column of the gradebook.
type GradebookAssignment struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	DueDate string  `json:"dueDate"`
	Points  float64 `json:"points"`
}

// GradebookStudent is one row of the gradebook. Average is weighted by
// points across graded assignments; 0 when no graded work exists.
type GradebookStudent struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	StudentID string           `json:"studentId"`
	Average   float64          `json:"average"`
	Grades    []GradebookGrade `json:"grades"`
}

// GradebookGrade is one cell of the gradebook.
type GradebookGrade struct {
	AssignmentID    string  `json:"assignmentId"`
	AssignmentTitle string  `json:"assignmentTitle"`
	Score           float64 `json:"score"`
	MaxPoints       float64 `json:"maxPoints"`
	Percentage      float64 `json:"percentage"`
}
