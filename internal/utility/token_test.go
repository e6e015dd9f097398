// Test tạo và xác thực JWT token định danh người dùng.
package utility

import (
	"errors"
	"testing"
	"time"

	"mercado_local/internal/common"

	"github.com/dgrijalva/jwt-go"
)

func TestToken_RoundTrip(t *testing.T) {
	token, err := CreateToken("jwt-secret", &JwtToken{
		UserID: "user-123",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	if err != nil {
		t.Fatalf("CreateToken trả về lỗi: %v", err)
	}

	claims, err := ParseToken("jwt-secret", token)
	if err != nil {
		t.Fatalf("ParseToken trả về lỗi với token hợp lệ: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, muốn user-123", claims.UserID)
	}
}

func TestToken_WrongSecret(t *testing.T) {
	token, err := CreateToken("secret-a", &JwtToken{UserID: "u"})
	if err != nil {
		t.Fatalf("CreateToken trả về lỗi: %v", err)
	}

	if _, err := ParseToken("secret-b", token); !errors.Is(err, common.ErrTokenInvalid) {
		t.Errorf("Secret sai phải trả ErrTokenInvalid, nhận được: %v", err)
	}
}

func TestToken_Expired(t *testing.T) {
	token, err := CreateToken("jwt-secret", &JwtToken{
		UserID: "u",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	})
	if err != nil {
		t.Fatalf("CreateToken trả về lỗi: %v", err)
	}

	if _, err := ParseToken("jwt-secret", token); !errors.Is(err, common.ErrTokenExpired) {
		t.Errorf("Token hết hạn phải trả ErrTokenExpired, nhận được: %v", err)
	}
}
