package cli_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/relsum/pkg/cli"
	"github.com/m-mizutani/relsum/pkg/domain/types"
)

func newFakeGitHub(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	var ts *httptest.Server

	mux.HandleFunc("GET /repos/octo/hello/releases/tags/v1.0.0", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 1, "tag_name": "v1.0.0"}`)
	})
	mux.HandleFunc("GET /repos/octo/hello/releases/1/assets", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `[
			{"id": 10, "name": "a.zip", "size": 3, "browser_download_url": "%[1]s/download/a.zip"},
			{"id": 11, "name": "a.zip.sig", "size": 3, "browser_download_url": "%[1]s/download/a.zip.sig"},
			{"id": 12, "name": "checksum.txt", "size": 3, "browser_download_url": "%[1]s/download/checksum.txt"}
		]`, ts.URL)
	})
	mux.HandleFunc("GET /download/{name}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "content of "+r.PathValue("name"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRun_DryRun(t *testing.T) {
	ts := newFakeGitHub(t)
	dir := t.TempDir()
	t.Chdir(dir)

	err := cli.Run(context.Background(), []string{
		"relsum",
		"--log-level", "debug",
		"--log-output", filepath.Join(dir, "relsum.log"),
		"run",
		"--repo", "octo/hello",
		"--tag", "v1.0.0",
		"--patterns", "*.zip",
		"--dry-run",
		"--github-api-url", ts.URL + "/",
	})
	gt.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "checksum.txt"))
	gt.NoError(t, err)

	sum := sha256.Sum256([]byte("content of a.zip"))
	gt.Value(t, string(data)).Equal("a.zip\t" + hex.EncodeToString(sum[:]) + "\n")

	_, err = os.Stat(filepath.Join(dir, "a.zip"))
	gt.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_RepositoryFromActionsContext(t *testing.T) {
	ts := newFakeGitHub(t)
	dir := t.TempDir()
	t.Chdir(dir)

	// Composite actions export every declared input, so INPUT_REPO is set but empty
	t.Setenv("RELSUM_REPO", "")
	t.Setenv("INPUT_REPO", "")
	t.Setenv("GITHUB_REPOSITORY", "octo/hello")
	t.Setenv("INPUT_TAG", "v1.0.0")
	t.Setenv("INPUT_PATTERNS", "*.zip")
	t.Setenv("INPUT_DRY_RUN", "true")

	err := cli.Run(context.Background(), []string{
		"relsum",
		"--log-output", filepath.Join(dir, "relsum.log"),
		"run",
		"--github-api-url", ts.URL + "/",
	})
	gt.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "checksum.txt"))
	gt.NoError(t, err)
	gt.String(t, string(data)).Contains("a.zip\t")
}

func TestRun_RepositoryMissing(t *testing.T) {
	t.Setenv("RELSUM_REPO", "")
	t.Setenv("INPUT_REPO", "")
	t.Setenv("GITHUB_REPOSITORY", "")
	dir := t.TempDir()
	t.Chdir(dir)

	err := cli.Run(context.Background(), []string{
		"relsum",
		"--log-output", filepath.Join(dir, "relsum.log"),
		"run",
		"--tag", "v1.0.0",
		"--dry-run",
	})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrInvalidConfig))
}

func TestRun_InvalidAlgorithm(t *testing.T) {
	ts := newFakeGitHub(t)
	dir := t.TempDir()
	t.Chdir(dir)

	err := cli.Run(context.Background(), []string{
		"relsum",
		"--log-output", filepath.Join(dir, "relsum.log"),
		"run",
		"--repo", "octo/hello",
		"--algorithm", "crc32",
		"--dry-run",
		"--github-api-url", ts.URL + "/",
	})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrInvalidConfig))
}

func TestRun_TokenRequired(t *testing.T) {
	t.Setenv("RELSUM_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	dir := t.TempDir()
	t.Chdir(dir)

	err := cli.Run(context.Background(), []string{
		"relsum",
		"--log-output", filepath.Join(dir, "relsum.log"),
		"run",
		"--repo", "octo/hello",
		"--tag", "v1.0.0",
	})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrInvalidConfig))
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"relsum", "--log-level", "loud", "algorithms"})
	gt.Error(t, err)
}
