package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/sentinel-mod/sentinel-api/internal/domain/trust"
	"github.com/sentinel-mod/sentinel-api/internal/domain/user"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/jwt"
	"github.com/sentinel-mod/sentinel-api/internal/pkg/password"
)

// PendingGate records a gated signup for manual review. Satisfied by
// the trust service.
type PendingGate interface {
	AddPending(ctx context.Context, req *trust.AddPendingRequest) error
}

// Service handles authentication business logic
type Service struct {
	userRepo     user.Repository
	jwtService   *jwt.Service
	gate         PendingGate
	gatedReasons []string
}

// NewService creates auth service. gatedReasons lists the signup
// reasons that route a new account through manual review; nil gate
// disables gating.
func NewService(userRepo user.Repository, jwtService *jwt.Service, gate PendingGate, gatedReasons []string) *Service {
	return &Service{
		userRepo:     userRepo,
		jwtService:   jwtService,
		gate:         gate,
		gatedReasons: gatedReasons,
	}
}

func (s *Service) reasonIsGated(reason string) bool {
	if s.gate == nil || reason == "" {
		return false
	}
	for _, gated := range s.gatedReasons {
		if strings.EqualFold(strings.TrimSpace(reason), gated) {
			return true
		}
	}
	return false
}

// Register creates new user account. Gated signup reasons create the
// account in pending status with a review record; approval flips it
// to active.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	gated := s.reasonIsGated(req.SignupReason)

	status := user.StatusActive
	if gated {
		status = user.StatusPending
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.RoleMember,
		Status:       status,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	if gated {
		if err := s.gate.AddPending(ctx, &trust.AddPendingRequest{
			UserID: u.ID,
			Reason: req.SignupReason,
		}); err != nil {
			return nil, err
		}
	}

	token, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		UserID:      u.ID,
		Role:        string(u.Role),
	}, nil
}

// Login authenticates a user by email and password.
// Spammer-flagged accounts still authenticate; the restricted role
// limits what they can do, not whether they can sign in.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		UserID:      u.ID,
		Role:        string(u.Role),
	}, nil
}

// Me returns the current account
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*MeResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return &MeResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}, nil
}
