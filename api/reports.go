package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/viant/learnsphere"
)

// Reports wraps reporting endpoints
type Reports struct {
	sender Sender
}

// CourseProgress returns per-learner progress for a course
func (r *Reports) CourseProgress(ctx context.Context, params url.Values) (*learnsphere.CourseProgress, error) {
	ret := &learnsphere.CourseProgress{}
	if err := r.sender.Do(ctx, http.MethodGet, learnsphere.PathReportsProgress, params, nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Learners returns learner summaries
func (r *Reports) Learners(ctx context.Context, params url.Values) ([]learnsphere.LearnerDetail, error) {
	var ret []learnsphere.LearnerDetail
	if err := r.sender.Do(ctx, http.MethodGet, learnsphere.PathReportsLearners, params, nil, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Reviews returns reviews across courses
func (r *Reports) Reviews(ctx context.Context) ([]learnsphere.Review, error) {
	var ret []learnsphere.Review
	if err := r.sender.Do(ctx, http.MethodGet, learnsphere.PathReportsReviews, nil, nil, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// DashboardStats returns headline numbers
func (r *Reports) DashboardStats(ctx context.Context) (*learnsphere.DashboardStats, error) {
	ret := &learnsphere.DashboardStats{}
	if err := r.sender.Do(ctx, http.MethodGet, learnsphere.PathReportsDashboard, nil, nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
