package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"kotubrief/book-api/model"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenClaims is the payload embedded in a session token.
type TokenClaims struct {
	UserID uint
	Email  string
	Plan   string
}

// MakeToken mints a signed HS256 session token for a user. Lifetime and
// signing secret come from the process-wide config fixed at startup.
func MakeToken(u *model.User) (string, error) {
	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", u.ID),
		"email": u.Email,
		"plan":  u.Plan,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(viper.GetInt("jwt.expires_min")) * time.Minute).Unix(),
	})

	return t.SignedString([]byte(viper.GetString("jwt.secret")))
}

// ParseToken validates a session token and returns its claims.
// Expired tokens are reported separately from any other failure so the
// caller can word the 401 accordingly.
func ParseToken(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}

	var userID uint
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil {
		return nil, ErrTokenInvalid
	}

	email, _ := claims["email"].(string)
	plan, _ := claims["plan"].(string)

	return &TokenClaims{
		UserID: userID,
		Email:  email,
		Plan:   plan,
	}, nil
}
