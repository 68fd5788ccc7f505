// Package cas logs into the USTC passport through its CAS login form and
// keeps the resulting session cookies for later requests.
package cas

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"gradecheck/internal/components/assert"
	"gradecheck/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const (
	report_client_login = "client.login"
)

const (
	DefaultPassportUrl = "https://passport.ustc.edu.cn"
	// DefaultService is the url encoded service the ticket is issued for.
	DefaultService = "http%3A%2F%2Fyjs1.ustc.edu.cn%2Fgsapp%2Fsys%2Fyjsemaphome%2Fportal%2Findex.do%3FforceCas%3D1"
	DefaultTimeout = 30 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/99.0.4844.51 Safari/537.36"
)

// AuthError is returned when any step of the login fails. It never carries
// the password.
type AuthError struct {
	Username string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("cas: login failed for %s: %v", e.Username, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

type ClientOptions struct {
	// PassportUrl defaults to DefaultPassportUrl.
	PassportUrl string
	// Service is the url encoded service to log into, defaults to DefaultService.
	Service string
	// Timeout of every request, defaults to DefaultTimeout.
	Timeout          time.Duration
	CloudflareBypass bool
}

type Client struct {
	http        *resty.Client
	passportUrl string
	service     string
	tel         telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("cas", tel)

	if opts.PassportUrl == "" {
		opts.PassportUrl = DefaultPassportUrl
	}
	if opts.Service == "" {
		opts.Service = DefaultService
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", userAgent)
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	httpClient.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		http:        httpClient,
		passportUrl: strings.TrimRight(opts.PassportUrl, "/"),
		service:     opts.Service,
		tel:         tel,
	}, nil
}

// Http returns the underlying http client, after Login it carries the
// session cookies of the service.
func (c *Client) Http() *resty.Client {
	return c.http
}

func (c *Client) loginUrl() string {
	return c.passportUrl + "/login"
}

// Login performs the CAS handshake: fetch the login page for its token, post
// the credentials without following redirects to obtain the service ticket
// url, then visit the ticket url so the service sets its session cookies.
func (c *Client) Login(ctx context.Context, username, password string) error {
	loginError := func(err error) error {
		c.tel.ReportBroken(report_client_login, err, telemetry.KV{Key: "username", Value: username})
		return &AuthError{Username: username, Err: err}
	}

	c.tel.ReportDebug("get login page", username)

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.loginUrl() + "?service=" + c.service)
	if err != nil {
		return loginError(fmt.Errorf("login page request: %w", err))
	}
	if res.IsError() {
		return loginError(fmt.Errorf("login page request: unexpected status %s", res.Status()))
	}
	token, err := extractLoginToken(decodeLoginPage(res.Body()))
	if err != nil {
		return loginError(err)
	}

	service, err := url.PathUnescape(c.service)
	if err != nil {
		return loginError(fmt.Errorf("decode service: %w", err))
	}

	c.http.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	defer c.http.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	res, err = c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"model":    "uplogin.jsp",
			"service":  service,
			"warn":     "",
			"showCode": "",
			"username": username,
			"password": password,
			"button":   "",
			"CAS_LT":   token,
		}).
		Post(c.loginUrl())
	if err != nil {
		return loginError(fmt.Errorf("login request: %w", err))
	}
	ticket, err := res.RawResponse.Location()
	if err != nil {
		return loginError(fmt.Errorf("login request: no service ticket issued (status %s): %w", res.Status(), err))
	}

	// restore redirects, the ticket url redirects into the service
	c.http.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	res, err = c.http.R().
		SetContext(ctx).
		Get(ticket.String())
	if err != nil {
		return loginError(fmt.Errorf("service ticket request: %w", err))
	}
	c.tel.ReportDebug("service ticket redeemed", username, res.Status())

	return nil
}
