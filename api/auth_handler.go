package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/team-codebug/blogforge-app/config"
	"github.com/team-codebug/blogforge-app/database"
	"github.com/team-codebug/blogforge-app/models"
)

// oauthSettings carries the OAuth2 client plus the userinfo endpoint. The
// endpoints default to Google's but can be overridden through config, which
// also lets tests point the flow at a local server.
type oauthSettings struct {
	cfg         *oauth2.Config
	userinfoURL string
}

func newOAuthSettings(c map[string]string) oauthSettings {
	endpoint := google.Endpoint
	if authURL := config.GetString(c, "OAUTH_AUTH_URL", ""); authURL != "" {
		endpoint = oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: config.GetString(c, "OAUTH_TOKEN_URL", ""),
		}
	}

	return oauthSettings{
		cfg: &oauth2.Config{
			ClientID:     config.GetString(c, "GOOGLE_CLIENT_ID", ""),
			ClientSecret: config.GetString(c, "GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  config.GetString(c, "GOOGLE_REDIRECT_URI", "http://127.0.0.1:8080/auth/callback"),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		userinfoURL: config.GetString(c, "OAUTH_USERINFO_URL", "https://openidconnect.googleapis.com/v1/userinfo"),
	}
}

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	sessions  *sessionManager
	oauth     oauthSettings
}

func newAuthHandler(userRepo *database.UserRepo, sessions *sessionManager, oauth oauthSettings) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		sessions:  sessions,
		oauth:     oauth,
	}
}

// login starts the OAuth flow: random state cookie, then off to the provider.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := randomState()
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to generate OAuth state")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/",
			Expires:  time.Now().Add(10 * time.Minute),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, h.oauth.cfg.AuthCodeURL(state), http.StatusFound)
	}
}

// callback finishes the OAuth flow. Every failure path lands back on the
// home page without an error message; the provider's own screens have
// already told the user what went wrong.
func (h authHandler) callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateCookie, err := r.Cookie(stateCookieName)
		if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
			h.logger.Warn().Msg("OAuth callback with missing or mismatched state")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			h.logger.Warn().Str("error", r.URL.Query().Get("error")).Msg("OAuth callback without code")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		token, err := h.oauth.cfg.Exchange(r.Context(), code)
		if err != nil {
			h.logger.Warn().Err(err).Msg("OAuth code exchange failed")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		profile, err := h.fetchUserInfo(r.Context(), token)
		if err != nil || profile.Sub == "" {
			h.logger.Warn().Err(err).Msg("Could not fetch a usable OAuth profile")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		user, err := h.upsertUser(profile)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to upsert user from OAuth profile")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		if err := h.sessions.issue(w, user.ID); err != nil {
			h.logger.Error().Err(err).Msg("Failed to issue session")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.clear(w)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

type oauthProfile struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h authHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*oauthProfile, error) {
	client := h.oauth.cfg.Client(ctx, token)
	resp, err := client.Get(h.oauth.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	var profile oauthProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &profile, nil
}

// upsertUser finds the local user by provider subject id, creating one on
// first login and refreshing profile fields on every later one.
func (h authHandler) upsertUser(profile *oauthProfile) (*models.User, error) {
	user, err := h.userRepo.FindByGoogleSub(profile.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{
			GoogleSub: profile.Sub,
			Email:     profile.Email,
		}
		if profile.Name != "" {
			user.Name = &profile.Name
		}
		if profile.Picture != "" {
			user.AvatarURL = &profile.Picture
		}
		if err := h.userRepo.Add(user); err != nil {
			return nil, err
		}
		h.logger.Info().Str("email", user.Email).Msg("Created new user")
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	changed := false
	if profile.Email != "" && profile.Email != user.Email {
		user.Email = profile.Email
		changed = true
	}
	if profile.Name != "" && (user.Name == nil || *user.Name != profile.Name) {
		user.Name = &profile.Name
		changed = true
	}
	if profile.Picture != "" && (user.AvatarURL == nil || *user.AvatarURL != profile.Picture) {
		user.AvatarURL = &profile.Picture
		changed = true
	}
	if changed {
		if err := h.userRepo.Update(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
