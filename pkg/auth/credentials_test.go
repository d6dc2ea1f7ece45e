package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "twistory/pkg/errors"
)

const sampleFile = `# twistory credentials
<api>_key = appkey
<api>_secret = appsecret

jschauma_key = 1234-abcd
jschauma_secret = s3cr3t
#commented_key = nope
this line means nothing
half_key = only-a-key
`

func TestParse(t *testing.T) {
	app, users, err := Parse(strings.NewReader(sampleFile))
	require.NoError(t, err)

	assert.Equal(t, Pair{Key: "appkey", Secret: "appsecret"}, app)
	assert.Equal(t, Pair{Key: "1234-abcd", Secret: "s3cr3t"}, users["jschauma"])
	assert.NotContains(t, users, "#commented")
	assert.NotContains(t, users, APIUser)
	assert.False(t, users["half"].Complete())
}

func TestParseLaterValueWins(t *testing.T) {
	_, users, err := Parse(strings.NewReader("bob_key = old\nbob_secret = s\nbob_key = new\n"))
	require.NoError(t, err)
	assert.Equal(t, "new", users["bob"].Key)
}

func TestParseUnderscoreInUserName(t *testing.T) {
	_, users, err := Parse(strings.NewReader("some_user_key = k\nsome_user_secret = s\n"))
	require.NoError(t, err)
	assert.Equal(t, Pair{Key: "k", Secret: "s"}, users["some_user"])
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "twistory")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFileStore(t *testing.T) {
	path := writeFile(t, sampleFile)

	store, err := LoadFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	app, err := store.App()
	require.NoError(t, err)
	assert.Equal(t, "appkey", app.Key)

	p, err := store.Retrieve("jschauma")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", p.Secret)

	_, err = store.Retrieve("half")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	_, err = store.Retrieve("nobody")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestFileStoreAppends(t *testing.T) {
	path := writeFile(t, sampleFile)

	store, err := LoadFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Store("newuser", Pair{Key: "nk", Secret: "ns"}))

	p, err := store.Retrieve("newuser")
	require.NoError(t, err)
	assert.Equal(t, "nk", p.Key)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), sampleFile), "existing content must be preserved")
	assert.True(t, strings.HasSuffix(string(data), "newuser_key = nk\nnewuser_secret = ns\n"))

	reloaded, err := LoadFileStore(path)
	require.NoError(t, err)
	p, err = reloaded.Retrieve("newuser")
	require.NoError(t, err)
	assert.Equal(t, "ns", p.Secret)
}

func TestFileStoreRejectsIncomplete(t *testing.T) {
	store, err := LoadFileStore(writeFile(t, ""))
	require.NoError(t, err)

	assert.Error(t, store.Store("bob", Pair{Key: "k"}))
	assert.Error(t, store.Store(APIUser, Pair{Key: "k", Secret: "s"}))
	assert.Error(t, store.Store("", Pair{Key: "k", Secret: "s"}))
}

func TestFileStoreMissingApp(t *testing.T) {
	store, err := LoadFileStore(writeFile(t, "bob_key = k\nbob_secret = s\n"))
	require.NoError(t, err)

	_, err = store.App()
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestLoadFileStoreUnreadable(t *testing.T) {
	_, err := LoadFileStore(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "Unable to open config file")
}

func TestSanitizePair(t *testing.T) {
	s := SanitizePair(Pair{Key: "1234567890abcdef", Secret: "short"})
	assert.Equal(t, "1234...cdef", s.Key)
	assert.Equal(t, "****", s.Secret)
}
