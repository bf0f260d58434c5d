package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"genealogy-app-go/internal/config"
	userdomain "genealogy-app-go/internal/domain/user"
	"genealogy-app-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey int

const actorKey contextKey = iota

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID     int64
	Name       string
	Avatar     string
	SuperAdmin bool
}

type UserEnsurer interface {
	EnsureUser(ctx context.Context, id int64, nickname, avatar string) (*userdomain.User, error)
}

type tokenClaims struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth verifies HS256 bearer tokens whose subject is the numeric user id.
type JWTAuth struct {
	secret    []byte
	issuer    string
	users     UserEnsurer
	log       logger.Logger
	skipAuth  bool
	mockActor Actor
	now       func() time.Time
}

func NewJWTAuth(cfg config.AuthConfig, users UserEnsurer, log logger.Logger) *JWTAuth {
	return &JWTAuth{
		secret:   []byte(cfg.JWTSecret),
		issuer:   strings.TrimSpace(cfg.JWTIssuer),
		users:    users,
		log:      log,
		skipAuth: cfg.SkipAuth,
		mockActor: Actor{
			UserID:     cfg.MockUserID,
			Name:       strings.TrimSpace(cfg.MockUserName),
			Avatar:     strings.TrimSpace(cfg.MockUserAvatar),
			SuperAdmin: cfg.MockSuperAdmin,
		},
		now: time.Now,
	}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			actor := a.mockActor
			if actor.UserID <= 0 {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			actor, ok := a.resolve(w, r, actor)
			if !ok {
				return
			}
			if a.mockActor.SuperAdmin {
				actor.SuperAdmin = true
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
			return
		}

		if len(a.secret) == 0 {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		claims, err := a.parse(token)
		if err != nil {
			a.log.BusinessError("auth.middleware: rejected token", err)
			unauthorized(w)
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil || userID <= 0 {
			unauthorized(w)
			return
		}

		actor, ok := a.resolve(w, r, Actor{
			UserID: userID,
			Name:   strings.TrimSpace(claims.Name),
			Avatar: strings.TrimSpace(claims.Avatar),
		})
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func (a *JWTAuth) parse(token string) (*tokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &claims, nil
}

// resolve makes sure the user row exists and reads the global role from it.
// Disabled users are turned away.
func (a *JWTAuth) resolve(w http.ResponseWriter, r *http.Request, actor Actor) (Actor, bool) {
	if a.users == nil {
		return actor, true
	}
	user, err := a.users.EnsureUser(r.Context(), actor.UserID, actor.Name, actor.Avatar)
	if err != nil {
		a.log.InternalError("auth.middleware: ensure user failed", err, "user_id", actor.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return Actor{}, false
	}
	if user.Disabled {
		writeError(w, http.StatusForbidden, "user_disabled", "user is disabled")
		return Actor{}, false
	}
	actor.Name = user.Nickname
	actor.Avatar = user.Avatar
	actor.SuperAdmin = user.IsSuperAdmin()
	return actor, true
}

// RequireSuperAdmin rejects callers that are not platform super admins.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if !actor.SuperAdmin {
			writeError(w, http.StatusForbidden, "forbidden", "super admin required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok || actor.UserID <= 0 {
		return Actor{}, false
	}
	return actor, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
