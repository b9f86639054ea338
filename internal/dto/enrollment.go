package dto

// EnrollmentRequest pairs a student with a course code.
type EnrollmentRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	CourseCode string `json:"course_code" validate:"required"`
}

// GradeRequest records one grade for a student.
type GradeRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Grade     string `json:"grade" validate:"required,oneof=S A B C D E F"`
}
