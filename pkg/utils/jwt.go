package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
)

var jwtSecret = []byte("your_jwt_secret")

var tokenExpiry = 240 * time.Hour

// Claims 連線身份：token 驗證通過後，整個連線生命週期都使用這組身份，
// 不再從客戶端提供的欄位重新推導
type Claims struct {
	UserID      uint   `json:"user_id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	jwt.StandardClaims
}

// Init 從配置載入簽章密鑰與有效期
func Init(secret string, expireHours int) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if expireHours > 0 {
		tokenExpiry = time.Duration(expireHours) * time.Hour
	}
}

// GenerateToken 生成一個新的 JWT token
func GenerateToken(userID uint, role, displayName string) (string, error) {
	nowTime := time.Now()
	expireTime := nowTime.Add(tokenExpiry)

	claims := Claims{
		UserID:      userID,
		Role:        role,
		DisplayName: displayName,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expireTime.Unix(),
			IssuedAt:  nowTime.Unix(),
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenClaims.SignedString(jwtSecret)
}

// ParseToken 解析和驗證 JWT token
func ParseToken(token string) (*Claims, error) {
	tokenClaims, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if tokenClaims != nil {
		if claims, ok := tokenClaims.Claims.(*Claims); ok && tokenClaims.Valid {
			return claims, nil
		}
	}

	return nil, err
}
