package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

var (
	ErrInvalidCredentials = apperr.Unauthorized("invalid credentials")
	ErrAccountDisabled    = apperr.Unauthorized("user account is disabled")
)

// dummyPasswordHash is compared against when the username is unknown, so a
// miss costs the same bcrypt work as a wrong password.
var dummyPasswordHash = sync.OnceValue(func() string {
	h, _ := helpers.HashPassword("shamba-unknown-user")
	return h
})

type RegisterInput struct {
	Username        string `json:"username" binding:"required,notblank,max=150,username"`
	Email           string `json:"email" binding:"required,email,max=254"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
	Phone           string `json:"phone" binding:"max=15"`
	Address         string `json:"address"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned by Register and Login. Farmer is set for farmer accounts.
type AuthResult struct {
	User      *entity.User
	Farmer    *entity.FarmerProfile
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	Store    repository.Store
	Sessions repository.SessionRepository
	JWT      *helpers.JWTManager
	Logger   *logrus.Logger
}

func NewAuthService(store repository.Store, sessions repository.SessionRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Store: store, Sessions: sessions, JWT: jwt, Logger: logger}
}

// Register creates a farmer account with an empty profile and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, client ClientInfo) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	fields := map[string]string{}
	if err := mergeFields(fields, validate(in)); err != nil {
		return nil, err
	}
	if _, bad := fields["password"]; !bad {
		if err := mergeFields(fields, checkNewPassword(in.Username, in.Password, in.ConfirmPassword, true)); err != nil {
			return nil, err
		}
	}
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Username:  in.Username,
		Email:     strings.TrimSpace(in.Email),
		Password:  hash,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   in.Address,
		Role:      entity.RoleFarmer,
		IsActive:  true,
	}
	var profile *entity.FarmerProfile
	err = s.Store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		profile = &entity.FarmerProfile{UserID: u.ID}
		return tx.Farmers().Create(ctx, profile)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("a user with that username already exists: %w", apperr.ErrConflict)
		}
		return nil, err
	}

	token, exp, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, err
	}
	recordAudit(ctx, s.Store.Audit(), s.Logger, &entity.AuditLog{
		UserID: u.ID, Username: u.Username, Action: entity.AuditRegister,
		IP: client.IP, UserAgent: client.UserAgent,
	})
	profile.User = u
	return &AuthResult{User: u, Farmer: profile, Token: token, ExpiresAt: exp}, nil
}

// Login verifies credentials and returns the live credential, issuing one when needed.
func (s *AuthService) Login(ctx context.Context, in LoginInput, client ClientInfo) (*AuthResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	u, err := s.Store.Users().GetByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if u == nil {
		helpers.CompareHashAndPassword(dummyPasswordHash(), in.Password)
		s.loginFailed(ctx, in.Username, "invalid_credentials", client)
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, in.Password) {
		s.loginFailed(ctx, in.Username, "invalid_credentials", client)
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		s.loginFailed(ctx, in.Username, "inactive", client)
		return nil, ErrAccountDisabled
	}

	token, exp, err := s.reuseSession(ctx, u)
	if err != nil {
		return nil, err
	}
	res := &AuthResult{User: u, Token: token, ExpiresAt: exp}
	if u.IsFarmer() {
		f, err := s.Store.Farmers().GetByUserID(ctx, u.ID)
		switch {
		case err == nil:
			res.Farmer = f
		case !errors.Is(err, apperr.ErrNotFound):
			return nil, err
		}
	}
	recordAudit(ctx, s.Store.Audit(), s.Logger, &entity.AuditLog{
		UserID: u.ID, Username: u.Username, Action: entity.AuditLogin,
		IP: client.IP, UserAgent: client.UserAgent,
	})
	return res, nil
}

// Logout removes the session named by sessionID. A session that is already
// gone, or was replaced by a newer one, is left alone.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID string, client ClientInfo) error {
	sess, err := s.Sessions.Get(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if sess.SessionID != sessionID {
		return nil
	}
	if err := s.Sessions.Delete(ctx, userID); err != nil {
		return err
	}
	recordAudit(ctx, s.Store.Audit(), s.Logger, &entity.AuditLog{
		UserID: userID, Username: sess.Username, Action: entity.AuditLogout,
		IP: client.IP, UserAgent: client.UserAgent,
	})
	return nil
}

func (s *AuthService) reuseSession(ctx context.Context, u *entity.User) (string, time.Time, error) {
	sess, err := s.Sessions.Get(ctx, u.ID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return "", time.Time{}, err
	}
	if sess != nil && sess.Token != "" {
		claims, perr := s.JWT.ParseAccessToken(sess.Token)
		if perr == nil && claims.SessionID == sess.SessionID && claims.UserID == u.ID && claims.ExpiresAt != nil {
			return sess.Token, claims.ExpiresAt.Time, nil
		}
	}
	return s.issueSession(ctx, u)
}

// issueSession signs a token for a fresh session id and replaces the user's session.
func (s *AuthService) issueSession(ctx context.Context, u *entity.User) (string, time.Time, error) {
	sid := uuid.NewString()
	token, exp, err := s.JWT.GenerateAccessToken(u.ID, string(u.Role), sid)
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return "", time.Time{}, err
	}
	sess := &entity.Session{
		UserID:    u.ID,
		SessionID: sid,
		Username:  u.Username,
		Role:      u.Role,
		Token:     token,
		ExpiresAt: exp,
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		helpers.LogError(s.Logger, "save session failed", err, logrus.Fields{"user_id": u.ID})
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func (s *AuthService) loginFailed(ctx context.Context, username, reason string, client ClientInfo) {
	recordAudit(ctx, s.Store.Audit(), s.Logger, &entity.AuditLog{
		Username: username, Action: entity.AuditLoginFailed,
		IP: client.IP, UserAgent: client.UserAgent,
		Metadata: map[string]any{"reason": reason},
	})
}
