package report

type Filter struct {
	CollegeID int
	Type      string
}

type EventStats struct {
	EventID        int     `bun:"event_id" json:"event_id"`
	Title          string  `bun:"title" json:"title"`
	Type           string  `bun:"type" json:"type"`
	CollegeID      int     `bun:"college_id" json:"college_id"`
	Registrations  int     `bun:"registrations" json:"registrations"`
	Attendance     int     `bun:"attendance" json:"attendance"`
	AverageRating  float64 `bun:"average_rating" json:"average_rating"`
	AttendanceRate float64 `bun:"-" json:"attendance_rate"`
}

type Summary struct {
	TotalEvents        int     `json:"total_events"`
	TotalRegistrations int     `json:"total_registrations"`
	TotalAttendance    int     `json:"total_attendance"`
	AttendanceRate     float64 `json:"attendance_rate"`
	AverageRating      float64 `json:"average_rating"`
}

// EventReport lists events by registration count, most popular first
type EventReport struct {
	Summary          Summary        `json:"summary"`
	TypeDistribution map[string]int `json:"type_distribution"`
	Events           []EventStats   `json:"events"`
}

type StudentStats struct {
	StudentID     int    `bun:"student_id" json:"student_id"`
	FullName      string `bun:"full_name" json:"full_name"`
	Email         string `bun:"email" json:"email"`
	Registrations int    `bun:"registrations" json:"registrations"`
	Attendance    int    `bun:"attendance" json:"attendance"`
}
