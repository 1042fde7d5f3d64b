// Package oauth implements the Google authorization-code bridge: redirect
// the browser to Google, exchange the returned code for an access token,
// fetch the user's profile, and hand the identity back to the caller.
package oauth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Bridge step names. A failed login redirects the browser with only the
// step tag; the wrapped error is logged server-side.
const (
	StepExchange  = "exchange"
	StepUserInfo  = "userinfo"
	StepProvision = "provision"
	StepToken     = "token"
)

const (
	authEndpoint     = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

	scope = "openid email profile"
)

// StepError tags an upstream failure with the bridge step that produced it.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("google oauth %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// UserInfo is the subset of the Google profile the bridge consumes.
type UserInfo struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// Client talks to Google's OAuth endpoints. Endpoints are overridable for
// tests.
type Client struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client

	TokenEndpoint    string
	UserInfoEndpoint string
}

func NewClientFromEnv() *Client {
	return &Client{
		clientID:         os.Getenv("GOOGLE_CLIENT_ID"),
		clientSecret:     os.Getenv("GOOGLE_CLIENT_SECRET"),
		httpClient:       &http.Client{Timeout: 10 * time.Second},
		TokenEndpoint:    tokenEndpoint,
		UserInfoEndpoint: userInfoEndpoint,
	}
}

// AuthURL builds the Google authorization URL the browser is redirected to
// in the awaiting-code state.
func (c *Client) AuthURL(redirectURI string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", scope)
	params.Set("access_type", "online")

	return authEndpoint + "?" + params.Encode()
}

// ExchangeCode trades the authorization code for an access token. First of
// the two outbound calls per login.
func (c *Client) ExchangeCode(code, redirectURI string) (string, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("redirect_uri", redirectURI)
	form.Set("grant_type", "authorization_code")

	resp, err := c.httpClient.Post(c.TokenEndpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &StepError{Step: StepExchange, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &StepError{Step: StepExchange, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StepError{Step: StepExchange, Err: fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", &StepError{Step: StepExchange, Err: err}
	}
	if payload.AccessToken == "" {
		return "", &StepError{Step: StepExchange, Err: fmt.Errorf("token endpoint returned no access token")}
	}

	return payload.AccessToken, nil
}

// FetchUserInfo retrieves the caller's profile with the exchanged access
// token. Second outbound call.
func (c *Client) FetchUserInfo(accessToken string) (UserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, c.UserInfoEndpoint, nil)
	if err != nil {
		return UserInfo{}, &StepError{Step: StepUserInfo, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UserInfo{}, &StepError{Step: StepUserInfo, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UserInfo{}, &StepError{Step: StepUserInfo, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return UserInfo{}, &StepError{Step: StepUserInfo, Err: fmt.Errorf("userinfo endpoint returned %d: %s", resp.StatusCode, body)}
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return UserInfo{}, &StepError{Step: StepUserInfo, Err: err}
	}
	if info.Email == "" {
		return UserInfo{}, &StepError{Step: StepUserInfo, Err: fmt.Errorf("userinfo response has no email")}
	}

	return info, nil
}
