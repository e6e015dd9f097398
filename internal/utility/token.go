package utility

import (
	"fmt"

	"mercado_local/internal/common"

	"github.com/dgrijalva/jwt-go"
)

// JwtToken chứa data được mã hóa trong JWT token.
type JwtToken struct {
	UserID string `json:"userId"`
	Time   string `json:"time"`
	jwt.StandardClaims
}

// CreateToken tạo JWT token (HS256) với claims cho trước
func CreateToken(secret string, claims *JwtToken) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken phân tích và xác thực JWT token, trả về claims nếu hợp lệ
func ParseToken(secret string, tokenString string) (*JwtToken, error) {
	claims := &JwtToken{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Chỉ chấp nhận HMAC
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
