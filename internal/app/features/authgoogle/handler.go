// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	userstore "github.com/dalemusser/parishhub/internal/app/store/users"
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// stateCookie carries the OAuth state across the round trip to Google,
// signed so it cannot be forged.
const stateCookie = "parishhub-oauth-state"

// Handler handles Google OAuth authentication.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "https://parishhub.org/auth/google/callback"

	sc *securecookie.SecureCookie
}

// NewHandler creates a new Google OAuth handler. The state cookie is signed
// with the same key as the session store.
func NewHandler(db *mongo.Database, clientID, clientSecret, baseURL, signingKey string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        userstore.New(db),
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		sc:           securecookie.New([]byte(signingKey), nil),
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /auth/google: it stores a signed state cookie and
// redirects to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	encoded, err := h.sc.Encode(stateCookie, state)
	if err != nil {
		h.Log.Error("failed to sign OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    encoded,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback: it validates the state,
// exchanges the code, resolves the user, and signs them in.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" || !h.validState(r, state) {
		h.Log.Warn("invalid or missing OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}
	clearStateCookie(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	lookupCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	user, err := h.findUser(lookupCtx, googleUser)
	if err != nil {
		switch {
		case errors.Is(err, errUserNotFound):
			h.Log.Info("Google OAuth: no account for user",
				zap.String("email", googleUser.Email))
			http.Redirect(w, r, "/login?error=no_account", http.StatusSeeOther)
		case errors.Is(err, errUserDisabled):
			http.Redirect(w, r, "/login?error=account_disabled", http.StatusSeeOther)
		default:
			h.Log.Error("Google OAuth: user lookup failed", zap.Error(err))
			http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		}
		return
	}

	su := &auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}
	if err := auth.SignIn(w, r, su); err != nil {
		h.Log.Error("Google OAuth: session save failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	h.Log.Info("user signed in via google",
		zap.String("user_id", su.ID),
		zap.String("role", su.Role))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

var (
	errUserNotFound = errors.New("user not found")
	errUserDisabled = errors.New("user disabled")
)

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// findUser resolves a Google identity to a local user: first by the linked
// Google subject, then by email (linking on first success). Accounts are
// never auto-created; a bishop must register users first.
func (h *Handler) findUser(ctx context.Context, gu *googleUserInfo) (*models.User, error) {
	u, err := h.Users.GetByGoogleSub(ctx, gu.ID)
	if err == nil {
		if u.Status == "disabled" {
			return nil, errUserDisabled
		}
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	u, err = h.Users.GetByEmail(ctx, gu.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	if u.Status == "disabled" {
		return nil, errUserDisabled
	}

	if err := h.Users.LinkGoogle(ctx, u.ID, gu.ID); err != nil {
		h.Log.Warn("failed to link google account", zap.Error(err))
	}
	return u, nil
}

func (h *Handler) validState(r *http.Request, state string) bool {
	c, err := r.Cookie(stateCookie)
	if err != nil {
		return false
	}
	var stored string
	if err := h.sc.Decode(stateCookie, c.Value, &stored); err != nil {
		return false
	}
	return stored == state
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// generateState returns a cryptographically random URL-safe state value.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
