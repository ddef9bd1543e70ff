package service

import (
	"context"
	"strings"

	"little-lemon/order-svc/internal/access"
	"little-lemon/order-svc/internal/domain"
)

type StaffService struct {
	users UserRepository
}

func NewStaffService(users UserRepository) *StaffService {
	return &StaffService{users: users}
}

func (s *StaffService) Members(ctx context.Context, group string) ([]domain.User, error) {
	return s.users.ListGroupMembers(ctx, group)
}

func (s *StaffService) Member(ctx context.Context, group string, userID int64) (*domain.User, error) {
	return s.users.GetGroupMember(ctx, group, userID)
}

func (s *StaffService) Add(ctx context.Context, group, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewValidationError("username", "This field is required.")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.users.AddToGroup(ctx, group, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *StaffService) Remove(ctx context.Context, group string, userID int64) (*domain.User, error) {
	user, err := s.users.GetGroupMember(ctx, group, userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.RemoveFromGroup(ctx, group, userID); err != nil {
		return nil, err
	}
	return user, nil
}

var _ StaffServiceInterface = (*StaffService)(nil)

// RoleResolver loads the caller's groups on every request.
type RoleResolver struct {
	users UserRepository
}

func NewRoleResolver(users UserRepository) *RoleResolver {
	return &RoleResolver{users: users}
}

func (r *RoleResolver) Resolve(ctx context.Context, userID int64) (access.Principal, error) {
	user, err := r.users.GetUser(ctx, userID)
	if err != nil {
		return access.Principal{}, err
	}
	groups, err := r.users.GetUserGroups(ctx, userID)
	if err != nil {
		return access.Principal{}, err
	}
	return access.NewPrincipal(*user, groups), nil
}

var _ RoleResolverInterface = (*RoleResolver)(nil)
