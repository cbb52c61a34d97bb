package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	authHelper "qurban_backend/internals/features/users/auth/helper"
	authRepo "qurban_backend/internals/features/users/auth/repository"
	userModel "qurban_backend/internals/features/users/user/model"
)

const accessTTLDefault = 12 * time.Hour

var (
	ErrInvalidCredentials = errors.New("Email atau Password salah")
	ErrUserInactive       = errors.New("Akun Anda telah dinonaktifkan. Hubungi admin.")
	ErrMissingSecret      = errors.New("Missing JWT Secret")
)

// Authenticate memeriksa email + password (bcrypt).
func Authenticate(db *gorm.DB, email, password string) (*userModel.UserModel, error) {
	if err := authHelper.ValidateLoginInput(email, password); err != nil {
		return nil, err
	}
	user, err := authRepo.FindUserByEmail(db, authHelper.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if err := authHelper.CheckPasswordHash(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func buildAccessClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	claims := jwt.MapClaims{
		"typ":  "access",
		"sub":  user.ID.String(),
		"id":   user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTTLDefault).Unix(),
	}
	if user.Name != nil {
		claims["user_name"] = *user.Name
	}
	return claims
}

// IssueAccessToken menandatangani access token HS256.
func IssueAccessToken(user userModel.UserModel, secret string, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, ErrMissingSecret
	}
	claims := buildAccessClaims(user, now)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, now.Add(accessTTLDefault), nil
}

// LoginWithGoogle: verifikasi ID token lalu resolve user lewat jalur identitas
// yang sama dengan checkout (akun tertaut → email → buat baru).
func LoginWithGoogle(db *gorm.DB, verifier GoogleTokenVerifier, idToken string) (*IdentityResult, error) {
	g, err := verifier.Verify(idToken)
	if err != nil {
		return nil, err
	}
	var res *IdentityResult
	err = db.Transaction(func(tx *gorm.DB) error {
		r, err := ResolveIdentity(tx, g.Apply(IdentityInput{}))
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !res.User.IsActive {
		return nil, ErrUserInactive
	}
	return res, nil
}
