package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"golang.org/x/term"
	errs "twistory/pkg/errors"
	"twistory/pkg/logger"
)

// TokenExchanger performs the three legs of the OAuth 1.0a PIN flow.
// *oauth1.Config satisfies it.
type TokenExchanger interface {
	RequestToken() (requestToken, requestSecret string, err error)
	AuthorizationURL(requestToken string) (*url.URL, error)
	AccessToken(requestToken, requestSecret, verifier string) (accessToken, accessSecret string, err error)
}

// Authorizer makes sure credentials for a user exist, running the
// interactive PIN flow when they do not.
type Authorizer struct {
	store    CredentialStore
	exchange func(app Pair) TokenExchanger
	source   string

	in          io.Reader
	out         io.Writer
	interactive func() bool

	logger logger.Logger
}

// AuthorizerOption configures an Authorizer
type AuthorizerOption func(*Authorizer)

// WithExchanger replaces the OAuth endpoint client
func WithExchanger(fn func(app Pair) TokenExchanger) AuthorizerOption {
	return func(a *Authorizer) { a.exchange = fn }
}

// WithPrompt sets where the PIN is read from and where instructions go.
// interactive reports whether in is attached to a person.
func WithPrompt(in io.Reader, out io.Writer, interactive func() bool) AuthorizerOption {
	return func(a *Authorizer) {
		a.in = in
		a.out = out
		a.interactive = interactive
	}
}

// WithSource names the credential file in user-facing messages
func WithSource(name string) AuthorizerOption {
	return func(a *Authorizer) { a.source = name }
}

// NewAuthorizer creates an Authorizer talking to the OAuth endpoints under
// oauthURL
func NewAuthorizer(store CredentialStore, oauthURL string, log logger.Logger, opts ...AuthorizerOption) *Authorizer {
	if log == nil {
		log = logger.NewNopLogger()
	}

	a := &Authorizer{
		store: store,
		exchange: func(app Pair) TokenExchanger {
			return OAuthConfig(app, oauthURL)
		},
		source: "the config file",
		in:     os.Stdin,
		out:    os.Stderr,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		logger: log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ensure returns credentials for user. Missing access credentials are
// obtained interactively and stored.
func (a *Authorizer) Ensure(ctx context.Context, user string) (*Credentials, error) {
	app, err := a.store.App()
	if err != nil {
		if errors.Is(err, ErrCredentialsNotFound) {
			return nil, errs.New(errs.ErrorTypeConfig, 0, "No API credentials found.  Please do the 'register-this-app' dance.")
		}
		return nil, errs.Wrap(errs.ErrorTypeConfig, err, "failed to read API credentials")
	}

	access, err := a.store.Retrieve(user)
	if err == nil {
		a.logger.WithField("user", user).Debug("Found access credentials")
		return &Credentials{User: user, App: app, Access: access}, nil
	}
	if !errors.Is(err, ErrCredentialsNotFound) {
		return nil, errs.Wrap(errs.ErrorTypeConfig, err, "failed to read credentials for %s", user)
	}

	access, err = a.authorize(ctx, user, app)
	if err != nil {
		return nil, err
	}

	if err := a.store.Store(user, access); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeAuthFlow, err, "failed to save credentials for %s", user)
	}
	a.logger.WithField("user", user).Info("Stored new access credentials")

	return &Credentials{User: user, App: app, Access: access}, nil
}

// authorize runs the PIN flow
func (a *Authorizer) authorize(ctx context.Context, user string, app Pair) (Pair, error) {
	if !a.interactive() {
		return Pair{}, errs.New(errs.ErrorTypeAuthFlow, 0,
			"access credentials for %s not found in %s and no terminal to authorize on", user, a.source)
	}

	ex := a.exchange(app)

	requestToken, requestSecret, err := ex.RequestToken()
	if err != nil {
		return Pair{}, errs.Wrap(errs.ErrorTypeAuthFlow, err, "failed to obtain request token")
	}

	authURL, err := ex.AuthorizationURL(requestToken)
	if err != nil {
		return Pair{}, errs.Wrap(errs.ErrorTypeAuthFlow, err, "failed to build authorization URL")
	}

	fmt.Fprintf(a.out, "Access credentials for %s not found in %s.\n", user, a.source)
	fmt.Fprintf(a.out, "Please log in on twitter.com as %s and then go to: \n", user)
	fmt.Fprintf(a.out, "  %s\n", authURL.String())
	fmt.Fprint(a.out, "Enter PIN: ")

	pin, err := readLine(ctx, a.in)
	if err != nil {
		return Pair{}, err
	}
	if pin == "" {
		return Pair{}, errs.New(errs.ErrorTypeAuthFlow, 0, "no PIN entered")
	}

	token, secret, err := ex.AccessToken(requestToken, requestSecret, pin)
	if err != nil {
		return Pair{}, errs.Wrap(errs.ErrorTypeAuthFlow, err, "failed to exchange PIN for access token")
	}

	return Pair{Key: token, Secret: secret}, nil
}

// readLine reads one trimmed line from in, giving up when ctx is done
func readLine(ctx context.Context, in io.Reader) (string, error) {
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		done <- result{strings.TrimSpace(line), err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", errs.Wrap(errs.ErrorTypeAuthFlow, r.err, "failed to read PIN")
		}
		return r.line, nil
	}
}

// OAuthConfig returns the OAuth 1.0a consumer for the application pair
func OAuthConfig(app Pair, oauthURL string) *oauth1.Config {
	base := strings.TrimRight(oauthURL, "/")
	return &oauth1.Config{
		ConsumerKey:    app.Key,
		ConsumerSecret: app.Secret,
		CallbackURL:    "oob",
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: base + "/request_token",
			AuthorizeURL:    base + "/authorize",
			AccessTokenURL:  base + "/access_token",
		},
	}
}

// NewHTTPClient returns an HTTP client that signs every request with creds
func NewHTTPClient(ctx context.Context, creds *Credentials, oauthURL string, timeout time.Duration) *http.Client {
	cfg := OAuthConfig(creds.App, oauthURL)
	client := cfg.Client(ctx, oauth1.NewToken(creds.Access.Key, creds.Access.Secret))
	client.Timeout = timeout
	return client
}
