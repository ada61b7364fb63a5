package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"tunetalk/internal/config"
	"tunetalk/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	homeDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("TUNETALK_REDIS_URL", "")

	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(homeDir, ".config", "tunetalk", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, homeDir: homeDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type fakeVideo struct {
	id       string
	title    string
	disabled bool
	pages    [][]string
}

// newFakeYouTube serves playlistItems for a single playlist and
// commentThreads for the given videos. Page N>0 is requested with token "pN".
func newFakeYouTube(t *testing.T, playlistID string, videos []fakeVideo) *httptest.Server {
	t.Helper()
	byID := make(map[string]fakeVideo, len(videos))
	for _, v := range videos {
		byID[v.id] = v
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") == "" {
			writeJSON(w, http.StatusForbidden, map[string]any{"error": map[string]any{"code": 403, "message": "missing key"}})
			return
		}
		switch r.URL.Path {
		case "/playlistItems":
			if q.Get("playlistId") != playlistID {
				writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{
					"code": 404, "message": "not found",
					"errors": []map[string]any{{"reason": "playlistNotFound"}},
				}})
				return
			}
			items := make([]map[string]any, 0, len(videos))
			for i, v := range videos {
				items = append(items, map[string]any{"snippet": map[string]any{
					"title":      v.title,
					"position":   i,
					"resourceId": map[string]any{"videoId": v.id},
				}})
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": items})
		case "/commentThreads":
			v, ok := byID[q.Get("videoId")]
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{
					"code": 404, "message": "video not found",
					"errors": []map[string]any{{"reason": "videoNotFound"}},
				}})
				return
			}
			if v.disabled {
				writeJSON(w, http.StatusForbidden, map[string]any{"error": map[string]any{
					"code": 403, "message": "comments disabled",
					"errors": []map[string]any{{"reason": "commentsDisabled"}},
				}})
				return
			}
			page := 0
			if token := q.Get("pageToken"); token != "" {
				if _, err := fmt.Sscanf(token, "p%d", &page); err != nil {
					t.Errorf("bad page token %q", token)
				}
			}
			items := make([]map[string]any, 0)
			if page < len(v.pages) {
				for i, text := range v.pages[page] {
					items = append(items, map[string]any{
						"id": v.id + "-" + string(rune('a'+i)),
						"snippet": map[string]any{"topLevelComment": map[string]any{"snippet": map[string]any{
							"textDisplay":       text,
							"authorDisplayName": "listener" + string(rune('a'+i)),
							"publishedAt":       "2024-03-01T10:00:00Z",
						}}},
					})
				}
			}
			resp := map[string]any{"items": items}
			if page+1 < len(v.pages) {
				resp["nextPageToken"] = fmt.Sprintf("p%d", page+1)
			}
			writeJSON(w, http.StatusOK, resp)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// newFakeLyrics serves lyrics.ovh style responses keyed by "performer/title".
func newFakeLyrics(t *testing.T, songs map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/v1/")
		text, ok := songs[key]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "No lyrics found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"lyrics": text})
	}))
	t.Cleanup(server.Close)
	return server
}
