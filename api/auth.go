package api

import (
	"context"
	"net/http"

	"github.com/viant/learnsphere"
)

// Auth wraps authentication endpoints
type Auth struct {
	sender Sender
}

// Login exchanges email and password for an access credential and the user profile
func (a *Auth) Login(ctx context.Context, email, password string) (*learnsphere.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	ret := &learnsphere.LoginResult{}
	if err := a.sender.Do(ctx, http.MethodPost, learnsphere.PathLogin, nil, body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Me returns the authenticated user
func (a *Auth) Me(ctx context.Context) (*learnsphere.User, error) {
	ret := &learnsphere.User{}
	if err := a.sender.Do(ctx, http.MethodGet, learnsphere.PathMe, nil, nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Logout revokes the renewal credential server side
func (a *Auth) Logout(ctx context.Context) error {
	return a.sender.Do(ctx, http.MethodPost, learnsphere.PathLogout, nil, nil, nil)
}

// ForgotPassword starts a password reset for email
func (a *Auth) ForgotPassword(ctx context.Context, email string) (*learnsphere.Message, error) {
	body := map[string]string{"email": email, "appType": learnsphere.AppType}
	ret := &learnsphere.Message{}
	if err := a.sender.Do(ctx, http.MethodPost, learnsphere.PathForgotPassword, nil, body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// ResetPassword completes a password reset
func (a *Auth) ResetPassword(ctx context.Context, token, newPassword string) (*learnsphere.Message, error) {
	body := map[string]string{"token": token, "newPassword": newPassword}
	ret := &learnsphere.Message{}
	if err := a.sender.Do(ctx, http.MethodPost, learnsphere.PathResetPassword, nil, body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Refresh renews the access credential from the refresh cookie
func (a *Auth) Refresh(ctx context.Context) (string, error) {
	ret := struct {
		AccessToken string `json:"accessToken"`
	}{}
	if err := a.sender.Do(ctx, http.MethodPost, learnsphere.PathRefresh, nil, nil, &ret); err != nil {
		return "", err
	}
	return ret.AccessToken, nil
}
