// auth/service.go
package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/revguard/api/dao"
	apperrors "github.com/revguard/api/errors"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
)

// Service authenticates credentials and issues tokens.
type Service struct {
	userDAO *dao.UserDAO
}

func NewService(userDAO *dao.UserDAO) *Service {
	return &Service{userDAO: userDAO}
}

// AuthenticateUser validates an email/password pair. Unknown email, inactive
// account and wrong password all return the same ErrUnauthorized so the
// response never reveals which part failed.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userDAO.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		logger.Error("Failed to load user for authentication", zap.Error(err))
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

// IssueToken signs a bearer token for an authenticated user.
func (s *Service) IssueToken(user *model.User) (string, error) {
	return GenerateToken(user)
}
