package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"careerpath_portal/models"
	"careerpath_portal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const sessionKey = "session"

var errMissingHeader = errors.New("Authorization header is required")

// TokenService signs the portal tokens. A token only carries the session
// id; the forum API token stays server side in the session store.
type TokenService struct {
	JWTSecret []byte
	TTL       time.Duration
	now       func() time.Time
}

func NewTokenService(jwtSecret []byte, ttl time.Duration) *TokenService {
	return &TokenService{JWTSecret: jwtSecret, TTL: ttl, now: time.Now}
}

// GenerateToken issues an access token for a session.
func (s *TokenService) GenerateToken(sessionID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.TTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken validates tokenString and returns its claims.
func (s *TokenService) ParseToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.JWTSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearer(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errMissingHeader
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("Authorization header must be in the format: Bearer {token}")
	}
	return parts[1], nil
}

// PageCache is told when a session id no longer resolves, so state held
// for it can be released.
type PageCache interface {
	Drop(key string)
}

func forget(pages PageCache, sid string) {
	if pages != nil {
		pages.Drop(sid)
	}
}

// AuthMiddleware rejects requests without a live portal session.
func AuthMiddleware(tokens *TokenService, sessions *session.Manager, pages PageCache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearer(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			logger.Debug("token validation failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		s, err := sessions.Load(c.Request.Context(), claims.SessionID)
		if errors.Is(err, session.ErrNotFound) {
			forget(pages, claims.SessionID)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired. Please login again."})
			c.Abort()
			return
		}
		if err != nil {
			logger.Error("error loading session", zap.String("session", claims.SessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			c.Abort()
			return
		}

		c.Set(sessionKey, s)
		c.Next()
	}
}

// OptionalAuth attaches the session when a valid token is presented and
// otherwise lets the request through as anonymous.
func OptionalAuth(tokens *TokenService, sessions *session.Manager, pages PageCache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearer(c)
		if err != nil {
			c.Next()
			return
		}
		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			c.Next()
			return
		}
		s, err := sessions.Load(c.Request.Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				forget(pages, claims.SessionID)
			} else {
				logger.Warn("error loading session", zap.String("session", claims.SessionID), zap.Error(err))
			}
			c.Next()
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// CurrentSession returns the session attached by the auth middleware.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok && s != nil
}

// SetSession replaces the attached session, e.g. after a profile refresh.
func SetSession(c *gin.Context, s *session.Session) {
	c.Set(sessionKey, s)
}
