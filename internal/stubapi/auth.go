package stubapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const userIDKey = "stubapi_user_id"

// issueToken mints a signed bearer token for the user. The client treats it
// as an opaque string; only the stub reads it back.
func (s *Server) issueToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": strconv.FormatInt(userID, 10),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// requireAuth wraps a handler with bearer-token verification. Any failure is
// a plain 401, the universal session-invalid signal.
func (s *Server) requireAuth(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		tokenString := extractToken(ctx)
		if tokenString == "" || s.store.TokenRevoked(tokenString) {
			ctx.SetStatusCode(fasthttp.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(s.secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			s.logger.Debug("invalid bearer token", zap.Error(err))
			ctx.SetStatusCode(fasthttp.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			ctx.SetStatusCode(fasthttp.StatusUnauthorized)
			return
		}
		idStr, _ := claims["user_id"].(string)
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id == 0 {
			ctx.SetStatusCode(fasthttp.StatusUnauthorized)
			return
		}
		if _, exists := s.store.UserByID(id); !exists {
			ctx.SetStatusCode(fasthttp.StatusUnauthorized)
			return
		}

		ctx.SetUserValue(userIDKey, id)
		next(ctx)
	}
}

func authedUserID(ctx *fasthttp.RequestCtx) int64 {
	id, _ := ctx.UserValue(userIDKey).(int64)
	return id
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
