package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/accounts"
	"github.com/laboissim/laboissim/internal/auth"
	"github.com/laboissim/laboissim/internal/models"
	"github.com/laboissim/laboissim/internal/oauth"
	"github.com/laboissim/laboissim/internal/types"
	"github.com/laboissim/laboissim/internal/utils"
	"gorm.io/gorm"
)

var googleClient *oauth.Client

func InitOAuth(client *oauth.Client) {
	googleClient = client
}

func frontendURL() string {
	if u := os.Getenv("FRONTEND_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	return "http://localhost:3000"
}

// GoogleLogin drives the whole bridge. Without a code it redirects the
// browser to Google (awaiting-code); with one it completes the exchange,
// provisions the account on first login and redirects back to the frontend
// with the identity and a token pair in the query string (token-issued).
// Failures redirect to the frontend error page carrying only the step tag;
// the underlying error is logged here.
func GoogleLogin(ctx *gin.Context) {
	redirectURI := callbackURL(ctx)

	code := ctx.Query("code")
	if code == "" {
		ctx.Redirect(http.StatusFound, googleClient.AuthURL(redirectURI))
		return
	}

	accessToken, err := googleClient.ExchangeCode(code, redirectURI)
	if err != nil {
		redirectOAuthError(ctx, err)
		return
	}

	info, err := googleClient.FetchUserInfo(accessToken)
	if err != nil {
		redirectOAuthError(ctx, err)
		return
	}

	user, err := resolveOAuthUser(info)
	if err != nil {
		redirectOAuthError(ctx, &oauth.StepError{Step: oauth.StepProvision, Err: err})
		return
	}

	pair, err := auth.IssueTokenPair(db.DB, user)
	if err != nil {
		redirectOAuthError(ctx, &oauth.StepError{Step: oauth.StepToken, Err: err})
		return
	}

	profile, err := accounts.GetProfile(db.DB, user.ID)
	if err != nil {
		redirectOAuthError(ctx, &oauth.StepError{Step: oauth.StepToken, Err: err})
		return
	}

	userJSON, err := json.Marshal(types.NewUserResponse(user, profile))
	if err != nil {
		redirectOAuthError(ctx, &oauth.StepError{Step: oauth.StepToken, Err: err})
		return
	}

	params := url.Values{}
	params.Set("user", string(userJSON))
	params.Set("access", pair.Access)
	params.Set("refresh", pair.Refresh)

	ctx.Redirect(http.StatusFound, frontendURL()+"/login/google-callback?"+params.Encode())
}

// GoogleJWT mints a fresh token pair for an already-authenticated caller.
func GoogleJWT(ctx *gin.Context) {
	user, exists := currentDBUser(ctx)
	if !exists {
		return
	}

	pair, err := auth.IssueTokenPair(db.DB, user)
	if err != nil {
		log.Printf("Failed to issue token pair: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"access": pair.Access, "refresh": pair.Refresh})
}

// resolveOAuthUser finds the account for a Google identity by email,
// provisioning one without a usable password on first login.
func resolveOAuthUser(info oauth.UserInfo) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(info.Email))

	var user models.User

	err := db.DB.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username := strings.SplitN(email, "@", 2)[0]

	for attempt := 0; ; attempt++ {
		candidate := username
		if attempt > 0 {
			candidate = fmt.Sprintf("%s%d", username, attempt)
		}

		created, err := accounts.Create(db.DB, accounts.CreateParams{
			Username:  candidate,
			Email:     email,
			FirstName: info.GivenName,
			LastName:  info.FamilyName,
		})
		if errors.Is(err, accounts.ErrUsernameTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return created, nil
	}
}

func redirectOAuthError(ctx *gin.Context, err error) {
	step := "unknown"

	var stepErr *oauth.StepError
	if errors.As(err, &stepErr) {
		step = stepErr.Step
	}

	log.Printf("Google OAuth failed at step %s: %v", step, err)
	ctx.Redirect(http.StatusFound, frontendURL()+"/login?error="+url.QueryEscape(step))
}

// callbackURL rebuilds the bridge endpoint's own address from the inbound
// request so the code comes back to the same host.
func callbackURL(ctx *gin.Context) string {
	scheme := "http"
	if ctx.Request.TLS != nil || ctx.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, ctx.Request.Host, ctx.Request.URL.Path)
}

// currentDBUser loads the full user row for the authenticated caller.
func currentDBUser(ctx *gin.Context) (*models.User, bool) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}

	return &user, true
}
