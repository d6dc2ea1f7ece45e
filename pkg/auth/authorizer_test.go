package auth

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "twistory/pkg/errors"
	"twistory/pkg/logger"
)

type fakeExchanger struct {
	app          Pair
	gotVerifier  string
	accessErr    error
	requestCalls int
}

func (f *fakeExchanger) RequestToken() (string, string, error) {
	f.requestCalls++
	return "reqtok", "reqsecret", nil
}

func (f *fakeExchanger) AuthorizationURL(requestToken string) (*url.URL, error) {
	return url.Parse("https://api.example.com/oauth/authorize?oauth_token=" + requestToken)
}

func (f *fakeExchanger) AccessToken(requestToken, requestSecret, verifier string) (string, string, error) {
	f.gotVerifier = verifier
	if f.accessErr != nil {
		return "", "", f.accessErr
	}
	return "acc-" + requestToken, "accsecret", nil
}

func newTestAuthorizer(t *testing.T, content, pin string, interactive bool) (*Authorizer, *FileStore, *fakeExchanger, *bytes.Buffer) {
	t.Helper()

	store, err := LoadFileStore(writeFile(t, content))
	require.NoError(t, err)

	ex := &fakeExchanger{}
	out := &bytes.Buffer{}
	a := NewAuthorizer(store, "https://api.example.com/oauth", logger.NewNopLogger(),
		WithExchanger(func(app Pair) TokenExchanger {
			ex.app = app
			return ex
		}),
		WithPrompt(strings.NewReader(pin), out, func() bool { return interactive }),
		WithSource(store.Path()),
	)
	return a, store, ex, out
}

func TestEnsureExistingCredentials(t *testing.T) {
	a, _, ex, out := newTestAuthorizer(t, sampleFile, "", false)

	creds, err := a.Ensure(context.Background(), "jschauma")
	require.NoError(t, err)
	assert.Equal(t, "jschauma", creds.User)
	assert.Equal(t, Pair{Key: "appkey", Secret: "appsecret"}, creds.App)
	assert.Equal(t, Pair{Key: "1234-abcd", Secret: "s3cr3t"}, creds.Access)
	assert.Zero(t, ex.requestCalls)
	assert.Empty(t, out.String())
}

func TestEnsureMissingAppCredentials(t *testing.T) {
	a, _, _, _ := newTestAuthorizer(t, "bob_key = k\nbob_secret = s\n", "", true)

	_, err := a.Ensure(context.Background(), "bob")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "No API credentials found")
}

func TestEnsureRunsPinFlow(t *testing.T) {
	a, store, ex, out := newTestAuthorizer(t, sampleFile, " 424242 \n", true)

	creds, err := a.Ensure(context.Background(), "newbie")
	require.NoError(t, err)

	assert.Equal(t, "424242", ex.gotVerifier)
	assert.Equal(t, "appkey", ex.app.Key)
	assert.Equal(t, Pair{Key: "acc-reqtok", Secret: "accsecret"}, creds.Access)

	assert.Contains(t, out.String(), "Access credentials for newbie not found in")
	assert.Contains(t, out.String(), "oauth_token=reqtok")
	assert.Contains(t, out.String(), "Enter PIN: ")

	stored, err := store.Retrieve("newbie")
	require.NoError(t, err)
	assert.Equal(t, creds.Access, stored)
}

func TestEnsureWithoutTerminal(t *testing.T) {
	a, _, ex, _ := newTestAuthorizer(t, sampleFile, "1234\n", false)

	_, err := a.Ensure(context.Background(), "newbie")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeAuthFlow))
	assert.Zero(t, ex.requestCalls)
}

func TestEnsureEmptyPin(t *testing.T) {
	a, _, _, _ := newTestAuthorizer(t, sampleFile, "\n", true)

	_, err := a.Ensure(context.Background(), "newbie")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeAuthFlow))
}

func TestEnsureExchangeFailure(t *testing.T) {
	a, store, ex, _ := newTestAuthorizer(t, sampleFile, "1234\n", true)
	ex.accessErr = errors.New("invalid verifier")

	_, err := a.Ensure(context.Background(), "newbie")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeAuthFlow))

	_, err = store.Retrieve("newbie")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

type blockingReader struct{}

func (blockingReader) Read(p []byte) (int, error) {
	time.Sleep(time.Hour)
	return 0, nil
}

func TestEnsureCancelledWhileWaitingForPin(t *testing.T) {
	store, err := LoadFileStore(writeFile(t, sampleFile))
	require.NoError(t, err)

	a := NewAuthorizer(store, "https://api.example.com/oauth", nil,
		WithExchanger(func(Pair) TokenExchanger { return &fakeExchanger{} }),
		WithPrompt(blockingReader{}, &bytes.Buffer{}, func() bool { return true }),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = a.Ensure(ctx, "newbie")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOAuthConfig(t *testing.T) {
	cfg := OAuthConfig(Pair{Key: "ck", Secret: "cs"}, "https://api.twitter.com/oauth/")
	assert.Equal(t, "ck", cfg.ConsumerKey)
	assert.Equal(t, "oob", cfg.CallbackURL)
	assert.Equal(t, "https://api.twitter.com/oauth/request_token", cfg.Endpoint.RequestTokenURL)
	assert.Equal(t, "https://api.twitter.com/oauth/authorize", cfg.Endpoint.AuthorizeURL)
	assert.Equal(t, "https://api.twitter.com/oauth/access_token", cfg.Endpoint.AccessTokenURL)

	var _ TokenExchanger = cfg
}

func TestNewHTTPClient(t *testing.T) {
	creds := &Credentials{
		User:   "bob",
		App:    Pair{Key: "ck", Secret: "cs"},
		Access: Pair{Key: "tk", Secret: "ts"},
	}
	client := NewHTTPClient(context.Background(), creds, "https://api.twitter.com/oauth", 7*time.Second)
	assert.Equal(t, 7*time.Second, client.Timeout)
	assert.NotNil(t, client.Transport)
}
