package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "github.com/yugant99/TaylorAI/internal/shared/auth"
	"github.com/yugant99/TaylorAI/internal/shared/server/respond"
	"github.com/yugant99/TaylorAI/internal/shared/telemetry"
	"github.com/yugant99/TaylorAI/internal/users"
)

const (
	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateTTL    = 10 * time.Minute
)

// GoogleService implements the Google login flow: redirect out, verify the
// callback, upsert the user row, issue a JWT.
type GoogleService struct {
	oauth         *oauth2.Config
	userRepo      users.Repo
	uiRedirectURL string

	mu     sync.Mutex
	states map[string]time.Time
}

// NewGoogleService builds the login service. Returns an error when the
// client credentials are not configured.
func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirectURL string, userRepo users.Repo) (*GoogleService, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("auth: google oauth is not configured")
	}

	return &GoogleService{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userRepo:      userRepo,
		uiRedirectURL: uiRedirectURL,
		states:        make(map[string]time.Time),
	}, nil
}

// Register mounts the login routes on the given group.
func (s *GoogleService) Register(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.Start)
	rg.GET("/auth/google/callback", s.Callback)
}

func (s *GoogleService) newState() string {
	state := uuid.NewString()
	now := time.Now()

	s.mu.Lock()
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(stateTTL)
	s.mu.Unlock()

	return state
}

func (s *GoogleService) consumeState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(exp)
}

// Start redirects the browser to Google's consent screen.
func (s *GoogleService) Start(c *gin.Context) {
	url := s.oauth.AuthCodeURL(s.newState(), oauth2.AccessTypeOnline)
	c.Redirect(http.StatusFound, url)
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Callback exchanges the auth code, upserts the user, and hands back a JWT.
func (s *GoogleService) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" || !s.consumeState(state) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid login callback", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		telemetry.Error("auth.exchange_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Login failed", nil)
		return
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		telemetry.Error("auth.userinfo_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Login failed", nil)
		return
	}

	userID := "google:" + info.ID
	if err := s.userRepo.Upsert(ctx, &users.User{
		ID:    userID,
		Email: info.Email,
		Name:  info.Name,
	}); err != nil {
		telemetry.Error("auth.upsert_failed", map[string]any{"user_id": userID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Login failed", nil)
		return
	}

	jwt, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:   userID,
		Email: info.Email,
		Name:  info.Name,
	})
	if err != nil {
		telemetry.Error("auth.sign_failed", map[string]any{"user_id": userID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Login failed", nil)
		return
	}

	if s.uiRedirectURL != "" {
		c.Redirect(http.StatusFound, s.uiRedirectURL+"#token="+url.QueryEscape(jwt))
		return
	}
	respond.OK(c, gin.H{"token": jwt})
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.oauth.Client(ctx, token)
	resp, err := client.Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("auth: userinfo returned %d: %s", resp.StatusCode, string(body))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("auth: decode userinfo: %w", err)
	}
	if info.ID == "" {
		return nil, errors.New("auth: userinfo missing id")
	}
	return &info, nil
}
