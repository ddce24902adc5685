// Copyright 2025 DBAssist
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"dbassist/platform/gateway/consumption"
	"dbassist/platform/shared/logger"
)

// Server is the HTTP front door for the gateway. Every response carries
// the security headers from SecurityHeaders, and the /chat endpoint
// resolves the caller's usage tier from JWT claims when a secret is
// configured.
type Server struct {
	gw        *Gateway
	log       *logger.Logger
	jwtSecret []byte
	port      string
}

// NewServer wires a Gateway behind HTTP handlers using cfg for the
// listen port and JWT secret.
func NewServer(gw *Gateway, cfg *Config, log *logger.Logger) *Server {
	s := &Server{gw: gw, log: log, port: cfg.Port}
	if cfg.JWTSecret != "" {
		s.jwtSecret = []byte(cfg.JWTSecret)
	}
	return s
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Router builds the route table with CORS and security headers applied.
// Exposed separately from Run so tests can drive it with httptest.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(securityHeadersMiddleware)
	router.HandleFunc("/chat", s.handleChat).Methods("POST")
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/usage/{user}", s.handleUsage).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure for production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

// Run blocks serving HTTP until the listener fails.
func (s *Server) Run() error {
	s.log.Info("", "", fmt.Sprintf("Gateway listening on port %s", s.port), nil)
	return http.ListenAndServe(":"+s.port, s.Router())
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	userID := req.UserID
	if claims, err := s.claimsFromRequest(r); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	} else if claims != nil {
		if id := getClaimString(claims, "user_id"); id != "" {
			userID = id
		}
		if tierClaim := getClaimString(claims, "tier"); tierClaim != "" {
			if tier, err := consumption.ParseTier(tierClaim); err == nil {
				s.gw.AdjustLimits(tier)
			}
		}
	}
	if userID == "" {
		userID = "anonymous"
	}

	response, err := s.gw.Chat(r.Context(), userID, clientIP(r), req.Message)
	if err != nil {
		s.log.ErrorWithCode(userID, "", "Chat turn failed", http.StatusBadGateway, err, nil)
		writeError(w, http.StatusBadGateway, "assistant temporarily unavailable")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  response,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "dbassist-gateway",
		"state":     s.gw.State(r.Context()),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user"]
	usage, limits, err := s.gw.Usage(r.Context(), userID)
	if err != nil {
		s.log.ErrorWithCode(userID, "", "Usage lookup failed", http.StatusInternalServerError, err, nil)
		writeError(w, http.StatusInternalServerError, "usage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"usage":   usage,
		"limits":  limits,
	})
}

// claimsFromRequest parses the bearer token when one is presented and a
// secret is configured. A missing token is not an error; requests
// without one fall back to the body's user_id.
func (s *Server) claimsFromRequest(r *http.Request) (jwt.MapClaims, error) {
	if len(s.jwtSecret) == 0 {
		return nil, nil
	}
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return nil, nil
	}
	tokenString := strings.TrimPrefix(auth, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func getClaimString(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range SecurityHeaders() {
			w.Header().Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already written; an encode failure here cannot
	// be reported to the client.
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
