package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// ReleaseServer fakes both the GitHub Releases API and the release-asset
// download host.
type ReleaseServer struct {
	*httptest.Server

	mu       sync.Mutex
	latest   string
	assets   map[string][]byte
	requests []string
}

// NewReleaseServer starts a server whose latest release is tag. It is closed
// when the test ends.
func NewReleaseServer(t *testing.T, tag string) *ReleaseServer {
	t.Helper()

	rs := &ReleaseServer{latest: tag, assets: make(map[string][]byte)}
	rs.Server = httptest.NewServer(http.HandlerFunc(rs.serve))
	t.Cleanup(rs.Close)
	return rs
}

// AddAsset publishes data at /<repo>/releases/download/<tag>/<name>.
func (rs *ReleaseServer) AddAsset(repo, tag, name string, data []byte) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.assets[assetPath(repo, tag, name)] = data
}

// SetLatest changes the tag reported as latest. Empty makes the lookup 404.
func (rs *ReleaseServer) SetLatest(tag string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.latest = tag
}

// Requests returns the request paths served so far.
func (rs *ReleaseServer) Requests() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.requests...)
}

func (rs *ReleaseServer) serve(w http.ResponseWriter, r *http.Request) {
	rs.mu.Lock()
	rs.requests = append(rs.requests, r.URL.Path)
	latest := rs.latest
	data, ok := rs.assets[r.URL.Path]
	rs.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/repos/") && strings.HasSuffix(r.URL.Path, "/releases/latest") {
		if latest == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"tag_name":%q}`, latest)
		return
	}

	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(data)
}

func assetPath(repo, tag, name string) string {
	return "/" + strings.Trim(repo, "/") + "/releases/download/" + tag + "/" + name
}
