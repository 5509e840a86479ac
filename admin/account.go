package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/upload"
	"github.com/viant/scy/cred/secret"
)

// Login authenticates with email and password. The credential is stored
// before the user so that the session becomes authenticated with a known token.
func (s *Service) Login(ctx context.Context, email, password string) (*learnsphere.User, error) {
	result, err := s.api.Auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.store.SetToken(result.AccessToken)
	s.store.SetUser(result.User)
	if result.User != nil {
		s.cache.Set(MeKey(), result.User)
	}
	return result.User, nil
}

// LoginWithSecret logs in with credentials held in a scy secret resource, e.g. "~/.secret/lms.json|blowfish://default".
func (s *Service) LoginWithSecret(ctx context.Context, resource string) (*learnsphere.User, error) {
	secrets := secret.New()
	cred, err := secrets.GetCredentials(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials %v: %w", resource, err)
	}
	return s.Login(ctx, cred.SSH.Username, cred.SSH.Password)
}

// UpdateProfile patches the current user and publishes it to the session
func (s *Service) UpdateProfile(ctx context.Context, update *learnsphere.ProfileUpdate) (*learnsphere.User, error) {
	ret, err := s.api.Users.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	s.store.SetUser(ret)
	s.invalidate(MeKey())
	return ret, nil
}

// ChangePassword changes the current user's password
func (s *Service) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*learnsphere.Message, error) {
	return s.api.Users.ChangePassword(ctx, &learnsphere.PasswordChange{CurrentPassword: currentPassword, NewPassword: newPassword})
}

// ForgotPassword starts a password reset
func (s *Service) ForgotPassword(ctx context.Context, email string) (*learnsphere.Message, error) {
	return s.api.Auth.ForgotPassword(ctx, email)
}

// ResetPassword completes a password reset
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (*learnsphere.Message, error) {
	return s.api.Auth.ResetPassword(ctx, token, newPassword)
}

// Upload transfers reader through the two-phase upload protocol
func (s *Service) Upload(ctx context.Context, name, mimeType string, size int64, reader io.Reader, progress upload.Progress) (*learnsphere.FileMetadata, error) {
	return s.uploader.Upload(ctx, name, mimeType, size, reader, progress)
}

// UploadURL uploads a local or remote file
func (s *Service) UploadURL(ctx context.Context, sourceURL string, progress upload.Progress) (*learnsphere.FileMetadata, error) {
	return s.uploader.UploadURL(ctx, sourceURL, progress)
}
