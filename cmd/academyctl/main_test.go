package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, apiURL, dataDir string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--api-url", apiURL, "--data-dir", dataDir, "--demo"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestOfflineSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := httptest.NewServer(http.NotFoundHandler())
	apiURL := srv.URL + "/api"
	srv.Close()
	dataDir := t.TempDir()

	_, _, err := run(t, apiURL, dataDir, "progress")
	assert.Error(t, err)

	out, errOut, err := run(t, apiURL, dataDir, "login", "-e", "pablo@visualgrowth.info", "-p", "password123")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Pablo Admin")
	assert.Contains(t, errOut, "offline")

	out, _, err = run(t, apiURL, dataDir, "complete", "sustainability-essentials", "l1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 lesson(s) completed")

	out, _, err = run(t, apiURL, dataDir, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "25%")

	out, _, err = run(t, apiURL, dataDir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "offline")
	assert.Contains(t, out, "1 lesson(s)")

	out, _, err = run(t, apiURL, dataDir, "resources", "--category", "Tools")
	require.NoError(t, err)
	assert.Contains(t, out, "material-audit")
	assert.NotContains(t, out, "brand-guide")

	out, _, err = run(t, apiURL, dataDir, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "/login")

	_, _, err = run(t, apiURL, dataDir, "whoami")
	assert.Error(t, err)
}

func TestLoginRequiresEmail(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, _, err := run(t, "http://127.0.0.1:1/api", t.TempDir(), "login")
	assert.Error(t, err)
}
