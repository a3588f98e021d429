package directory

// The directory is the authoritative source for students, classes, teachers
// and grades. This service only ever reads it; records are managed elsewhere
// and treated here as opaque reference data.

type Grade struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Class struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GradeID string `json:"grade_id"`
}

type Teacher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Student struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ClassID       string `json:"class_id"`
	GuardianEmail string `json:"guardian_email"`
}
