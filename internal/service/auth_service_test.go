package service

import (
	"testing"
	"time"

	"alifbe_backend/internal/config"
	"alifbe_backend/internal/model"
	"alifbe_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testJWT = config.JWTConfig{
	Secret:     "test-secret-test-secret-test-secret",
	ExpireTime: time.Hour,
}

func TestRegisterAndLogin(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)

	registered, err := svc.Register(RegisterInput{
		Email:     "ona@example.uz",
		Password:  "juda-maxfiy",
		FirstName: "Malika",
	})
	require.NoError(t, err)
	require.NotNil(t, registered.User)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, model.Guardian, registered.User.Role)
	assert.Equal(t, 1, registered.User.Level)
	assert.NotEqual(t, "juda-maxfiy", registered.User.Password, "password must be hashed")

	claims, err := util.ParseJWT(registered.Token, testJWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, model.Guardian, claims.Role)

	logged, err := svc.Login(LoginInput{Email: "ona@example.uz", Password: "juda-maxfiy"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, logged.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)

	_, err := svc.Register(RegisterInput{Email: "ona@example.uz", Password: "juda-maxfiy", FirstName: "Malika"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Email: "ona@example.uz", Password: "boshqa-parol", FirstName: "Boshqa"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)

	_, err := svc.Register(RegisterInput{Email: "a@example.uz", Password: "juda-maxfiy", FirstName: "A", Phone: "+998901234567"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Email: "b@example.uz", Password: "juda-maxfiy", FirstName: "B", Phone: "+998901234567"})
	assert.ErrorIs(t, err, util.ErrPhoneRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)

	_, err := svc.Register(RegisterInput{Email: "ona@example.uz", Password: "juda-maxfiy", FirstName: "Malika"})
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Email: "ona@example.uz", Password: "notogri"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)

	_, err := svc.Login(LoginInput{Email: "yoq@example.uz", Password: "whatever"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestOnboardChild(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)
	guardian := st.addUser(model.User{FirstName: "Malika", Role: model.Guardian, Locale: "uz"})

	age := 6
	child, err := svc.OnboardChild(guardian.ID, OnboardChildInput{
		FirstName: "Ali",
		Nickname:  "Alisher",
		Age:       &age,
	})
	require.NoError(t, err)

	assert.Equal(t, model.Student, child.Role)
	require.NotNil(t, child.GuardianID)
	assert.Equal(t, guardian.ID, *child.GuardianID)
	assert.Equal(t, "uz", child.Locale, "locale inherits from the guardian when unset")
	assert.Equal(t, 1, child.Level)

	children, err := svc.ListChildren(guardian.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)
}

func TestOnboardChildRequiresGuardianRole(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)
	student := st.addUser(model.User{FirstName: "Ali", Role: model.Student})

	_, err := svc.OnboardChild(student.ID, OnboardChildInput{FirstName: "Vali"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestOnboardChildUnknownGuardian(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)

	_, err := svc.OnboardChild(999, OnboardChildInput{FirstName: "Vali"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestCanAccessLearner(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)

	guardian := st.addUser(model.User{FirstName: "Malika", Role: model.Guardian})
	child := st.addUser(model.User{FirstName: "Ali", Role: model.Student, GuardianID: &guardian.ID})
	stranger := st.addUser(model.User{FirstName: "Begona", Role: model.Guardian})

	cases := []struct {
		name   string
		claims *util.Claims
		want   bool
	}{
		{"self", &util.Claims{UserID: child.ID, Role: model.Student}, true},
		{"own guardian", &util.Claims{UserID: guardian.ID, Role: model.Guardian}, true},
		{"admin", &util.Claims{UserID: stranger.ID, Role: model.Admin}, true},
		{"mentor", &util.Claims{UserID: stranger.ID, Role: model.Mentor}, true},
		{"unrelated guardian", &util.Claims{UserID: stranger.ID, Role: model.Guardian}, false},
		{"nil claims", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := svc.CanAccessLearner(tc.claims, child.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestCanAccessLearnerUnknownLearner(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)
	guardian := st.addUser(model.User{FirstName: "Malika", Role: model.Guardian})

	_, err := svc.CanAccessLearner(&util.Claims{UserID: guardian.ID, Role: model.Guardian}, 999)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestBcryptCostIsDefault(t *testing.T) {
	st := newFakeStore()
	svc := NewAuthService(st, testJWT)

	registered, err := svc.Register(RegisterInput{Email: "ona@example.uz", Password: "juda-maxfiy", FirstName: "Malika"})
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(registered.User.Password))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
