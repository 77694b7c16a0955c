package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/cppla/blogapi/config"
	"github.com/cppla/blogapi/store"
	"github.com/cppla/blogapi/utils"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateTTL     = 10 * time.Minute
)

// GoogleController implements login with a Google account.
type GoogleController struct {
	oauth    *oauth2.Config
	states   *utils.StateStore
	users    UserStore
	tokens   *utils.TokenService
	redirect string

	fetchProfile func(ctx context.Context, client *http.Client) (store.GoogleProfile, error)
}

// NewGoogleController returns nil when Google credentials are not configured.
func NewGoogleController(cfg config.AppConfig, states *utils.StateStore, users UserStore, tokens *utils.TokenService) *GoogleController {
	if !cfg.GoogleEnabled() {
		return nil
	}
	return &GoogleController{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  fmt.Sprintf("%s/users/googleRedirect", cfg.OAuthRedirectBase),
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		states:       states,
		users:        users,
		tokens:       tokens,
		redirect:     cfg.LoginRedirectURL,
		fetchProfile: fetchGoogleProfile,
	}
}

// Login redirects to the Google consent page.
func (g *GoogleController) Login(ctx *gin.Context) {
	if g == nil {
		utils.Fail(ctx, utils.NewNotFoundError("Google login is not configured"))
		return
	}
	state := g.states.Issue(ctx.Request.Context(), oauthStateTTL)
	ctx.Redirect(http.StatusFound, g.oauth.AuthCodeURL(state))
}

// Callback exchanges the code, resolves the user and sends the browser back to the
// frontend with an access token.
func (g *GoogleController) Callback(ctx *gin.Context) {
	if g == nil {
		utils.Fail(ctx, utils.NewNotFoundError("Google login is not configured"))
		return
	}
	code, state := ctx.Query("code"), ctx.Query("state")
	if code == "" || state == "" {
		utils.Fail(ctx, utils.NewBadRequestError("Missing code or state"))
		return
	}
	if !g.states.Consume(ctx.Request.Context(), state) {
		utils.Fail(ctx, utils.NewBadRequestError("Invalid or expired state"))
		return
	}

	reqCtx := ctx.Request.Context()
	token, err := g.oauth.Exchange(reqCtx, code)
	if err != nil {
		utils.Fail(ctx, utils.NewUnauthorizedError("Google login failed").WithCause(err))
		return
	}
	profile, err := g.fetchProfile(reqCtx, g.oauth.Client(reqCtx, token))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	u, err := g.users.FindOrCreateGoogle(reqCtx, profile)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	access, err := g.tokens.Issue(utils.Identity{ID: u.ID.Hex(), Role: u.Role})
	if err != nil {
		utils.Fail(ctx, utils.NewInternalError(err))
		return
	}

	if g.redirect == "" {
		utils.Success(ctx, gin.H{"accessToken": access})
		return
	}
	ctx.Redirect(http.StatusFound, g.redirect+"?accessToken="+url.QueryEscape(access))
}

func fetchGoogleProfile(ctx context.Context, client *http.Client) (store.GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return store.GoogleProfile{}, errors.Wrap(err, "new userinfo request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return store.GoogleProfile{}, errors.Wrap(err, "request google userinfo")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return store.GoogleProfile{}, errors.Errorf("google user info request failed: %s", resp.Status)
	}

	var payload struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return store.GoogleProfile{}, errors.Wrap(err, "decode google userinfo")
	}
	return store.GoogleProfile{
		ID:         payload.ID,
		Email:      payload.Email,
		GivenName:  payload.GivenName,
		FamilyName: payload.FamilyName,
	}, nil
}
