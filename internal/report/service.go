package report

import (
	"context"
	"math"

	"event-service/internal/auth"
	"event-service/internal/feedback"
	"event-service/internal/user"
)

const (
	DefaultTopStudents = 10
	MaxTopStudents     = 100
)

type Service interface {
	Events(ctx context.Context, caller auth.Identity, filter Filter) (*EventReport, error)
	TopStudents(ctx context.Context, caller auth.Identity, limit int) ([]StudentStats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Events(ctx context.Context, caller auth.Identity, filter Filter) (*EventReport, error) {
	if err := auth.RequireRole(caller, user.RoleAdmin); err != nil {
		return nil, err
	}

	stats, err := s.repo.EventStats(ctx, filter)
	if err != nil {
		return nil, err
	}
	return buildReport(stats), nil
}

func (s *service) TopStudents(ctx context.Context, caller auth.Identity, limit int) ([]StudentStats, error) {
	if err := auth.RequireRole(caller, user.RoleAdmin); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxTopStudents {
		limit = DefaultTopStudents
	}
	return s.repo.TopStudents(ctx, limit)
}

func buildReport(stats []EventStats) *EventReport {
	report := &EventReport{
		TypeDistribution: map[string]int{},
		Events:           stats,
	}

	var ratingSum float64
	for i := range stats {
		st := &stats[i]
		st.AverageRating = feedback.RoundRating(st.AverageRating)
		st.AttendanceRate = rate(st.Attendance, st.Registrations)

		report.Summary.TotalRegistrations += st.Registrations
		report.Summary.TotalAttendance += st.Attendance
		report.TypeDistribution[st.Type]++
		ratingSum += st.AverageRating
	}

	report.Summary.TotalEvents = len(stats)
	report.Summary.AttendanceRate = rate(report.Summary.TotalAttendance, report.Summary.TotalRegistrations)
	if len(stats) > 0 {
		report.Summary.AverageRating = feedback.RoundRating(ratingSum / float64(len(stats)))
	}
	return report
}

// rate is part/whole as a percentage with one decimal, 0 when whole is 0
func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
