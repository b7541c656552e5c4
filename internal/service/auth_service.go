package service

import (
	"alifbe_backend/internal/config"
	"alifbe_backend/internal/model"
	"alifbe_backend/internal/util"
	"alifbe_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles guardian accounts and child onboarding. Children never
// log in themselves; their sessions ride on the guardian's token.
type AuthService struct {
	store Store
	jwt   config.JWTConfig
}

func NewAuthService(store Store, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{store: store, jwt: jwtCfg}
}

type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register creates a guardian account and returns a fresh token.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	existing, err := s.store.Users().FindByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrEmailRegistered
	}
	if input.Phone != "" {
		existing, err = s.store.Users().FindByPhone(input.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, util.ErrPhoneRegistered
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	email := input.Email
	user := &model.User{
		Email:     &email,
		Password:  string(hashed),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      model.Guardian,
		Level:     1,
	}
	if input.Phone != "" {
		phone := input.Phone
		user.Phone = &phone
	}

	if err := s.store.Users().Create(user); err != nil {
		return nil, err
	}
	logger.Log.Info("guardian registered", zap.Uint("userId", user.ID))

	token, err := util.GenerateJWT(user, s.jwt.Secret, s.jwt.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	user, err := s.store.Users().FindByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.jwt.Secret, s.jwt.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

type OnboardChildInput struct {
	FirstName   string                 `json:"firstName" binding:"required"`
	Nickname    string                 `json:"nickname"`
	Age         *int                   `json:"age" binding:"omitempty,min=3,max=12"`
	Locale      string                 `json:"locale"`
	Preferences map[string]interface{} `json:"preferences"`
}

// OnboardChild creates a student account under the guardian.
func (s *AuthService) OnboardChild(guardianID uint, input OnboardChildInput) (*model.User, error) {
	guardian, err := s.store.Users().FindByID(guardianID)
	if err != nil {
		return nil, err
	}
	if guardian == nil {
		return nil, util.ErrUserNotFound
	}
	if guardian.Role != model.Guardian && guardian.Role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	locale := input.Locale
	if locale == "" {
		locale = guardian.Locale
	}
	child := &model.User{
		FirstName:   input.FirstName,
		Nickname:    input.Nickname,
		Age:         input.Age,
		Locale:      locale,
		Role:        model.Student,
		GuardianID:  &guardianID,
		Level:       1,
		Preferences: input.Preferences,
	}
	if err := s.store.Users().Create(child); err != nil {
		return nil, err
	}
	logger.Log.Info("child onboarded",
		zap.Uint("guardianId", guardianID),
		zap.Uint("childId", child.ID))
	return child, nil
}

// ListChildren returns the guardian's learners.
func (s *AuthService) ListChildren(guardianID uint) ([]model.User, error) {
	return s.store.Users().ListChildren(guardianID)
}

// CanAccessLearner reports whether the requesting account may read the given
// learner's data: themselves, their guardian, or staff.
func (s *AuthService) CanAccessLearner(claims *util.Claims, learnerID uint) (bool, error) {
	if claims == nil {
		return false, nil
	}
	if claims.UserID == learnerID || claims.Role == model.Admin || claims.Role == model.Mentor {
		return true, nil
	}
	learner, err := s.store.Users().FindByID(learnerID)
	if err != nil {
		return false, err
	}
	if learner == nil {
		return false, util.ErrUserNotFound
	}
	return learner.GuardianID != nil && *learner.GuardianID == claims.UserID, nil
}
