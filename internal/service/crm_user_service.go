package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/auth"
	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/mapper"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CrmUserService manages operator accounts. Every operation is admin only.
type CrmUserService struct {
	userRepo     *repository.CrmUserRepository
	authUserRepo *repository.AuthUserRepository
	logger       *zap.Logger
}

func NewCrmUserService(userRepo *repository.CrmUserRepository, authUserRepo *repository.AuthUserRepository, logger *zap.Logger) *CrmUserService {
	return &CrmUserService{
		userRepo:     userRepo,
		authUserRepo: authUserRepo,
		logger:       logger,
	}
}

func requireAdmin(ctx context.Context) (*auth.UserContext, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.IsAdmin() {
		return nil, ErrForbidden
	}
	return user, nil
}

func (s *CrmUserService) List(ctx context.Context, page, limit int) (*domain.CrmUserListResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	p := NewPagination(page, limit)

	users, total, err := s.userRepo.List(ctx, p.Offset(), p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list crm users: %w", err)
	}

	dtos := make([]domain.CrmUserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToCrmUserDTO(&users[i])
	}

	return &domain.CrmUserListResponse{
		Users:      dtos,
		Total:      total,
		Page:       p.Page,
		TotalPages: p.TotalPages(total),
	}, nil
}

func (s *CrmUserService) Get(ctx context.Context, id int64) (*domain.CrmUserDTO, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get crm user: %w", err)
	}

	dto := mapper.ToCrmUserDTO(user)
	return &dto, nil
}

// Create links an authentication identity to a new CRM profile
func (s *CrmUserService) Create(ctx context.Context, req *domain.CreateCrmUserRequest) (*domain.CrmUserDTO, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	if isBlank(req.AuthUserID) {
		return nil, ErrMissingAuthUserID
	}
	if isBlank(req.Email) {
		return nil, ErrMissingEmail
	}
	if isBlank(req.Name) {
		return nil, ErrMissingName
	}
	email := NormalizeEmail(req.Email)
	if !IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	role := domain.CrmRoleAgent
	if req.Role != "" {
		role = domain.CrmRole(req.Role)
		if !role.IsValid() {
			return nil, ErrInvalidRole
		}
	}
	authUserID := strings.TrimSpace(req.AuthUserID)

	if _, err := s.authUserRepo.GetByID(ctx, authUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthUserNotFound
		}
		return nil, fmt.Errorf("failed to get auth user: %w", err)
	}

	emailTaken, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailTaken {
		return nil, ErrEmailExists
	}

	linked, err := s.userRepo.AuthUserLinked(ctx, authUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check auth user link: %w", err)
	}
	if linked {
		return nil, ErrAuthUserLinked
	}

	user := &domain.CrmUser{
		AuthUserID: authUserID,
		Email:      email,
		Name:       strings.TrimSpace(req.Name),
		Role:       role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create crm user: %w", err)
	}

	s.logger.Info("crm user created", zap.Int64("crm_user_id", user.ID), zap.String("role", string(role)))

	dto := mapper.ToCrmUserDTO(user)
	return &dto, nil
}

// Update changes the name or role of a CRM user
func (s *CrmUserService) Update(ctx context.Context, id int64, req *domain.UpdateCrmUserRequest) (*domain.CrmUserDTO, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !req.Name.Set && !req.Role.Set {
		return nil, ErrNoUpdateFields
	}

	fields := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Role.Set {
		role := domain.CrmRole(req.Role.Value)
		if req.Role.Null || !role.IsValid() {
			return nil, ErrInvalidRole
		}
		fields["role"] = role
	}
	if req.Name.Set {
		if req.Name.Null || isBlank(req.Name.Value) {
			return nil, ErrInvalidName
		}
		fields["name"] = strings.TrimSpace(req.Name.Value)
	}

	exists, err := s.userRepo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check crm user: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update crm user: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload crm user: %w", err)
	}

	dto := mapper.ToCrmUserDTO(user)
	return &dto, nil
}

// Me describes the authenticated caller and its CRM profile, if linked
func (s *CrmUserService) Me(ctx context.Context) (*domain.MeDTO, error) {
	caller, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	me := &domain.MeDTO{
		AuthUserID: caller.AuthUserID,
		Email:      caller.Email,
		Name:       caller.Name,
		Role:       caller.Role,
		IsAdmin:    caller.IsAdmin(),
	}
	if caller.CrmUserID == nil {
		return me, nil
	}

	user, err := s.userRepo.GetByID(ctx, *caller.CrmUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return me, nil
		}
		return nil, fmt.Errorf("failed to get crm profile: %w", err)
	}
	dto := mapper.ToCrmUserDTO(user)
	me.CrmUser = &dto
	return me, nil
}
