// Package middleware gin 中间件：身份、请求 ID、访问日志、限流
package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/recommend-course/internal/service"
	"github.com/d60-Lab/recommend-course/pkg/response"
)

const callerKey = "caller"

// Claims 宿主平台签发的令牌，sub 为用户 id
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

var errBadSubject = errors.New("token subject is not a user id")

// Auth 校验 Bearer 令牌并把调用方身份放进上下文
// 密钥为空时拒绝所有请求
func Auth(secret, issuer string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) {
			response.Unauthorized(c, "authentication not configured")
		}
	}
	key := []byte(secret)
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		claims := &Claims{}
		if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return key, nil }); err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		caller, err := callerFromClaims(claims)
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}

		SetCaller(c, caller)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func callerFromClaims(claims *Claims) (service.Caller, error) {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return service.Caller{}, errBadSubject
	}
	return service.Caller{UserID: id, Roles: claims.Roles}, nil
}

func SetCaller(c *gin.Context, caller service.Caller) { c.Set(callerKey, caller) }

// CallerFrom 取出 Auth 写入的调用方
func CallerFrom(c *gin.Context) (service.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return service.Caller{}, false
	}
	caller, ok := v.(service.Caller)
	return caller, ok
}

// IssueToken 签发令牌，供压测工具和测试使用
func IssueToken(secret, issuer string, userID int64, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
