// internal/httpserver/routes_admin.go
//
// Admin authentication and scheduler control.
//   - POST   /api/admin/login        → bcrypt check, issues admin JWT cookie
//   - GET    /api/scheduler-control  → scheduler status (open)
//   - POST   /api/scheduler-control  → start (admin)
//   - DELETE /api/scheduler-control  → stop (admin)
//
// There are no user accounts; the only principal is the operator, verified
// against a bcrypt hash from configuration.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// -----------------------------------------------------------------------------
// login

type adminLoginReq struct {
	Password string `json:"password"`
}

// handleAdminLogin verifies the operator password and sets the admin token
// cookie. 503 when no admin hash is configured.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AdminPasswordHash == "" {
		http.Error(w, `{"error":"admin disabled"}`, http.StatusServiceUnavailable)
		return
	}
	var body adminLoginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(body.Password)) != nil {
		http.Error(w, `{"error":"invalid password"}`, http.StatusUnauthorized)
		return
	}

	tok, exp, err := s.signAdminJWT()
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setAdminCookie(w, tok, exp)
	_ = json.NewEncoder(w).Encode(map[string]any{"token": tok, "expiresAt": exp.UTC()})
}

// -----------------------------------------------------------------------------
// scheduler control

func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.sched.Status())
}

func (s *Server) handleSchedulerStart(w http.ResponseWriter, r *http.Request) {
	if err := s.sched.Start(); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(s.sched.Status())
}

func (s *Server) handleSchedulerStop(w http.ResponseWriter, r *http.Request) {
	s.sched.Stop()
	_ = json.NewEncoder(w).Encode(s.sched.Status())
}

// ------------------------------ JWT & cookies ------------------------------

const adminTokenTTL = 12 * time.Hour

// signAdminJWT creates an HS256 token carrying the admin role.
func (s *Server) signAdminJWT() (string, time.Time, error) {
	exp := time.Now().Add(adminTokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// setAdminCookie writes the admin token cookie with appropriate security
// attributes.
func (s *Server) setAdminCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.AdminCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or the
// admin cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.AdminCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ---------------------------- admin middleware ------------------------------

// requireAdmin enforces a valid admin JWT on mutating operational routes.
func (s *Server) requireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := s.bearerOrCookie(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(s.cfg.JWTSecret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			if role, _ := claims["role"].(string); role != "admin" {
				http.Error(w, `{"error":"Forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
