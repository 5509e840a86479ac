package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/viant/learnsphere"
)

// Users wraps profile endpoints
type Users struct {
	sender Sender
}

// UpdateProfile patches the current user's profile
func (u *Users) UpdateProfile(ctx context.Context, update *learnsphere.ProfileUpdate) (*learnsphere.User, error) {
	ret := &learnsphere.User{}
	if err := u.sender.Do(ctx, http.MethodPatch, learnsphere.PathUsersMe, nil, update, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// ChangePassword changes the current user's password
func (u *Users) ChangePassword(ctx context.Context, change *learnsphere.PasswordChange) (*learnsphere.Message, error) {
	ret := &learnsphere.Message{}
	if err := u.sender.Do(ctx, http.MethodPatch, learnsphere.PathUsersMePassword, nil, change, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Instructors wraps instructor directory endpoints
type Instructors struct {
	sender Sender
}

// List returns a page of instructors
func (i *Instructors) List(ctx context.Context, params url.Values) (*learnsphere.Page[learnsphere.User], error) {
	ret := &learnsphere.Page[learnsphere.User]{}
	if err := i.sender.Do(ctx, http.MethodGet, learnsphere.PathInstructors, params, nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Get returns instructor details
func (i *Instructors) Get(ctx context.Context, id string) (*learnsphere.InstructorDetail, error) {
	ret := &learnsphere.InstructorDetail{}
	if err := i.sender.Do(ctx, http.MethodGet, resource(learnsphere.PathInstructors, id), nil, nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
