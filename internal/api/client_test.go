package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/five82/lookout/internal/detection"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL+"/" {
		t.Fatalf("url = %q, want %q", u.String(), defaultBaseURL+"/")
	}

	u, err = parseBaseURL("example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Path != "/api/" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL(http://) returned nil error, want error")
	}
}

func TestClient_FetchesEndpointsUnderPrefix(t *testing.T) {
	t.Parallel()

	var gotUserAgent string
	var paths []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/v1/detections":
			_, _ = w.Write([]byte(`[{"id":1,"timestamp":"2024-01-05T10:00:00.000Z","cameraId":"CAM001","objectType":"person","confidenceScore":0.9}]`))
		case "/v1/cameras":
			_ = json.NewEncoder(w).Encode([]detection.Camera{{ID: "CAM001", Name: "Gate", StreamURL: "http://cams/1.m3u8"}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/v1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	dets, err := c.FetchDetections(ctx)
	if err != nil {
		t.Fatalf("FetchDetections returned error: %v", err)
	}
	if len(dets) != 1 || dets[0].CameraID != "CAM001" || dets[0].ConfidenceScore != 0.9 {
		t.Fatalf("FetchDetections = %#v, want one CAM001 record", dets)
	}

	cams, err := c.FetchCameras(ctx)
	if err != nil {
		t.Fatalf("FetchCameras returned error: %v", err)
	}
	if len(cams) != 1 || cams[0].StreamURL != "http://cams/1.m3u8" {
		t.Fatalf("FetchCameras = %#v, want one camera with stream url", cams)
	}

	if strings.Join(paths, ",") != "/v1/detections,/v1/cameras" {
		t.Fatalf("paths = %v, want prefixed endpoints", paths)
	}
	if !strings.HasPrefix(gotUserAgent, "lookout/") {
		t.Fatalf("User-Agent = %q, want lookout/*", gotUserAgent)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/detections":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/cameras":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchDetections(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchDetections error = %v, want decode response error", err)
	}

	_, err = c.FetchCameras(context.Background())
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchCameras error = %v, want status 500 error", err)
	}
}

func TestClient_FetchDetectionsDropsMalformedRows(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"timestamp":"2024-01-05T10:00:00.000Z","cameraId":"CAM001","objectType":"person","confidenceScore":0.9},
			{"id":2,"timestamp":"2024-01-05T10:01:00.000Z","cameraId":"CAM001","objectType":"person","confidenceScore":null},
			{"id":3,"timestamp":"2024-01-05T10:02:00.000Z","cameraId":"CAM002","objectType":"vehicle","confidenceScore":"abc"},
			null,
			{"id":4,"timestamp":"2024-01-05T10:03:00.000Z","cameraId":"CAM002","objectType":"animal","confidenceScore":"0.75"}
		]`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	dets, err := c.FetchDetections(context.Background())
	if err != nil {
		t.Fatalf("FetchDetections returned error: %v", err)
	}
	if len(dets) != 2 {
		t.Fatalf("len(dets) = %d, want 2", len(dets))
	}
	if dets[0].ID != 1 || dets[1].ID != 4 || dets[1].ConfidenceScore != 0.75 {
		t.Fatalf("FetchDetections = %#v, want records 1 and 4", dets)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchDetections(context.Background()); err == nil {
		t.Fatalf("FetchDetections on nil client returned nil error")
	}
}
