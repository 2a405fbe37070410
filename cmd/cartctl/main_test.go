package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

type harness struct {
	flags []string
}

func newHarness(t *testing.T) harness {
	t.Helper()
	dir := t.TempDir()

	sale := int64(150)
	raw, err := json.Marshal([]domain.Product{
		{ID: "p1", Name: "Mug", PriceMinor: 1000},
		{ID: "p2", Name: "Tea", PriceMinor: 250, SalePriceMinor: &sale},
	})
	require.NoError(t, err)
	catalogPath := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(catalogPath, raw, 0o600))

	return harness{flags: []string{
		"--storage-driver", "leveldb",
		"--storage-path", filepath.Join(dir, "cart"),
		"--catalog-file", catalogPath,
	}}
}

func (h harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append(append([]string{}, h.flags...), args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestCartctl_LocalLifecycle(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "add", "p1")
	require.NoError(t, err)
	_, _, err = h.run(t, "add", "p2", "3")
	require.NoError(t, err)
	_, _, err = h.run(t, "add", "p1", "2")
	require.NoError(t, err)

	out, _, err := h.run(t, "summary")
	require.NoError(t, err)
	// 3*10.00 + 3*1.50
	assert.Equal(t, "items: 6\ntotal: 34.50\n", out)

	out, _, err = h.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Mug")
	assert.Contains(t, out, "30.00")

	_, _, err = h.run(t, "update", "p2", "0")
	require.NoError(t, err)
	out, _, err = h.run(t, "summary")
	require.NoError(t, err)
	assert.Equal(t, "items: 3\ntotal: 30.00\n", out)

	_, _, err = h.run(t, "remove", "p1")
	require.NoError(t, err)
	_, _, err = h.run(t, "add", "p2")
	require.NoError(t, err)
	_, _, err = h.run(t, "clear")
	require.NoError(t, err)

	out, _, err = h.run(t, "summary")
	require.NoError(t, err)
	assert.Equal(t, "items: 0\ntotal: 0.00\n", out)
}

func TestCartctl_DefaultStorageKeepsCartBetweenRuns(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	ctx := context.Background()

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(ctx, []string{"add", "p1", "2"}, &stdout, &stderr))

	stdout.Reset()
	require.NoError(t, run(ctx, []string{"summary"}, &stdout, &stderr))
	assert.Equal(t, "items: 2\ntotal: 0.00\n", stdout.String())

	_, err = os.Stat(filepath.Join("data", "cart"))
	require.NoError(t, err, "default leveldb directory must be created")
}

func TestCartctl_UsageErrors(t *testing.T) {
	h := newHarness(t)

	tests := [][]string{
		{},
		{"bogus"},
		{"add"},
		{"add", "p1", "two"},
		{"update", "p1"},
		{"remove"},
		{"login"},
	}
	for _, args := range tests {
		_, _, err := h.run(t, args...)
		assert.True(t, errors.Is(err, errUsage), "args %v: expected usage error, got %v", args, err)
	}
}

func TestCartctl_ValidationErrors(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "add", "p1", "0")
	require.ErrorIs(t, err, domain.ErrQuantityInvalid)

	_, _, err = h.run(t, "login", " ")
	require.ErrorIs(t, err, domain.ErrSessionRequired)
}

func TestCartctl_RemoteFallbackWarns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/products" {
			_ = json.NewEncoder(w).Encode([]domain.Product{})
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := newHarness(t)
	h.flags = append(h.flags, "--api-base-url", srv.URL)

	_, _, err := h.run(t, "login", "tok")
	require.NoError(t, err)

	out, stderr, err := h.run(t, "add", "p1", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning:")
	assert.Contains(t, out, "Mug")

	_, _, err = h.run(t, "sync")
	require.Error(t, err)

	_, _, err = h.run(t, "logout")
	require.NoError(t, err)
	out, _, err = h.run(t, "summary")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "items: 2"))
}

func TestCartctl_SyncRequiresSession(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run(t, "sync")
	require.Error(t, err)
}

func TestCartctl_Version(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"version"}, &stdout, &bytes.Buffer{}))
	assert.Contains(t, stdout.String(), "version=")
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "0.00", formatMinor(0))
	assert.Equal(t, "12.05", formatMinor(1205))
	assert.Equal(t, "-1.50", formatMinor(-150))
}
