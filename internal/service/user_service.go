package service

import (
	"lawdesk/internal/domain/entity"
	"lawdesk/internal/domain/policy"
	"lawdesk/internal/utils"
	"lawdesk/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindAll() ([]*entity.User, error)
	FindAssignable() ([]*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
	ExistsByUsername(username string) (bool, error)
	Save(user *entity.User) error
	Delete(user *entity.User) error
}

// AssignmentChecker reports a user's open workload; deletion is refused
// while it is non-zero. Satisfied by the case repository.
type AssignmentChecker interface {
	CountActiveByAssignee(assignee string) (int64, error)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required,max=64"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,nospaces,min=2,max=80"`
	Password    string `json:"password" validate:"required,min=4,max=64"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=120"`
	Role        string `json:"role" validate:"required,oneof=owner lawyer intern"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=4,max=64"`
}

type UserResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	CreatedAt   string `json:"created_at"`
}

type UserService struct {
	UserRepo UserRepository
	Cases    AssignmentChecker
	Validate *validator.Validate
	Policy   *policy.UserPolicy
}

func NewUserService(userRepo UserRepository, cases AssignmentChecker, validate *validator.Validate, userPolicy *policy.UserPolicy) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Cases:    cases,
		Validate: validate,
		Policy:   userPolicy,
	}
}

// Login verifies the credentials and issues a session token. A missing
// account and a wrong password produce the same error on purpose.
func (u *UserService) Login(req *LoginRequest) (*LoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByUsername(req.Username)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", req.Username, err)
		return nil, apierror.InternalServerError
	}

	if user == nil || !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apierror.CredentialsMismatchError
	}

	token, err := utils.SignToken(user.Username)
	if err != nil {
		log.Errorf("failed to sign token for %s: %v", user.Username, err)
		return nil, apierror.InternalServerError
	}

	return &LoginResponse{
		Token:       token,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	}, nil
}

func (u *UserService) CreateUser(actor *entity.User, req *CreateUserRequest) (*UserResponse, apierror.ErrorResponse) {
	if perr := u.Policy.CanManageTeam(actor); perr != nil {
		return nil, perr
	}

	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByUsername(req.Username)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.UsernameTakenError
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash password for %s: %v", req.Username, err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         entity.Role(req.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to create user %s: %v", req.Username, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

func (u *UserService) ListUsers(actor *entity.User) ([]*UserResponse, apierror.ErrorResponse) {
	if perr := u.Policy.CanManageTeam(actor); perr != nil {
		return nil, perr
	}

	users, err := u.UserRepo.FindAll()
	if err != nil {
		log.Errorf("failed to list users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

// ListAssignable populates the delegation picker: every non-owner
// account.
func (u *UserService) ListAssignable(actor *entity.User) ([]*UserResponse, apierror.ErrorResponse) {
	if perr := u.Policy.CanManageTeam(actor); perr != nil {
		return nil, perr
	}

	users, err := u.UserRepo.FindAssignable()
	if err != nil {
		log.Errorf("failed to list assignable users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

// UpdatePassword overwrites the stored hash unconditionally. There is no
// current-password verification: this is an owner-initiated reset.
func (u *UserService) UpdatePassword(actor *entity.User, username string, req *UpdatePasswordRequest) apierror.ErrorResponse {
	if perr := u.Policy.CanManageTeam(actor); perr != nil {
		return perr
	}

	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	target, apierr := u.fetchByUsername(username)
	if apierr != nil {
		return apierr
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash new password for %s: %v", username, err)
		return apierror.InternalServerError
	}

	target.PasswordHash = hash
	target.UpdatedAt = utils.NowUTC()
	if err := u.UserRepo.Save(target); err != nil {
		log.Errorf("failed to update password for %s: %v", username, err)
		return apierror.InternalServerError
	}
	return nil
}

// DeleteUser removes an account. The bootstrap owner is protected, and
// deletion is refused while the user still has non-completed
// assignments, so no case is ever left pointing at a ghost.
func (u *UserService) DeleteUser(actor *entity.User, username string) apierror.ErrorResponse {
	target, apierr := u.fetchByUsername(username)
	if apierr != nil {
		return apierr
	}

	if perr := u.Policy.CanDeleteUser(actor, target); perr != nil {
		return perr
	}

	pending, err := u.Cases.CountActiveByAssignee(target.DisplayName)
	if err != nil {
		log.Errorf("failed to count assignments of %s: %v", username, err)
		return apierror.InternalServerError
	}

	if pending > 0 {
		return apierror.OutstandingAssignmentsError
	}

	if err := u.UserRepo.Delete(target); err != nil {
		log.Errorf("failed to delete user %s: %v", username, err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *UserService) fetchByUsername(username string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByUsername(username)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", username, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}
	return user, nil
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		CreatedAt:   utils.FormatEpoch(user.CreatedAt),
	}
}
