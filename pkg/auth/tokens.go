package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func createJWT(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(time.Hour * time.Duration(authConfig.ExpirationTime)).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authConfig.SecretKey))
}

func verifyJWT(tokenString string) (jwt.MapClaims, error) {
	if !Enabled() {
		return nil, ErrMissingSecret
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(authConfig.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// CreateToken issues a signed token for subject.
func CreateToken(subject string) (string, error) {
	if !Enabled() {
		return "", ErrMissingSecret
	}
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	return createJWT(subject)
}

func VerifyToken(token string) bool {
	_, err := verifyJWT(token)
	return err == nil
}

func GetSubjectFromToken(token string) (string, error) {
	claims, err := verifyJWT(token)
	if err != nil {
		return "", err
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub, nil
	}
	return "", fmt.Errorf("subject not found")
}
