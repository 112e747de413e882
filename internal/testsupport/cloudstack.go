package testsupport

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
)

// Credentials used by every fake server and the configs written for it.
const (
	APIKey    = "test-api-key"
	SecretKey = "test-secret-key"
)

// MigrateCall records one migrateVolume submission received by the fake.
type MigrateCall struct {
	VolumeID  string
	StorageID string
	Live      bool
	// LiveParamPresent distinguishes "livemigrate omitted" from
	// "livemigrate=false"; offline migrations must omit the parameter.
	LiveParamPresent bool
}

// Volume is a fake inventory entry. Attrs is served verbatim as the raw
// listVolumes record; ProjectID scopes it for project-filtered listings.
type Volume struct {
	ProjectID string
	Attrs     map[string]any
}

// FakeCloudStack serves a minimal CloudStack query API over httptest. It
// verifies request signatures with its own HMAC computation so client signing
// is exercised end to end.
type FakeCloudStack struct {
	Projects []map[string]string
	Pools    []map[string]string
	Volumes  []Volume
	Jobs     map[string]map[string]any

	// FailCommands forces an error envelope for the named API commands.
	FailCommands map[string]string

	mu           sync.Mutex
	migrateCalls []MigrateCall
	jobSequence  int
}

// NewServer starts an httptest server around the fake and registers cleanup.
func NewServer(t testing.TB, fake *FakeCloudStack) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return server
}

// MigrateCalls returns a copy of the received migrateVolume submissions.
func (f *FakeCloudStack) MigrateCalls() []MigrateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]MigrateCall, len(f.migrateCalls))
	copy(calls, f.migrateCalls)
	return calls
}

func (f *FakeCloudStack) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	command := query.Get("command")

	if !verifySignature(query) {
		writeEnvelope(w, http.StatusUnauthorized, "errorresponse", map[string]any{
			"errorcode": 401,
			"errortext": "unable to verify user credentials and/or request signature",
		})
		return
	}

	envelopeKey := strings.ToLower(command) + "response"
	if text, forced := f.FailCommands[command]; forced {
		writeEnvelope(w, http.StatusInternalServerError, envelopeKey, map[string]any{
			"errorcode": 530,
			"errortext": text,
		})
		return
	}

	switch command {
	case "listProjects":
		writeEnvelope(w, http.StatusOK, envelopeKey, map[string]any{
			"count":   len(f.Projects),
			"project": f.Projects,
		})
	case "listStoragePools":
		writeEnvelope(w, http.StatusOK, envelopeKey, map[string]any{
			"count":       len(f.Pools),
			"storagepool": f.Pools,
		})
	case "listVolumes":
		volumes := f.selectVolumes(query.Get("id"), query.Get("projectid"))
		body := map[string]any{"count": len(volumes)}
		if len(volumes) > 0 {
			body["volume"] = volumes
		}
		writeEnvelope(w, http.StatusOK, envelopeKey, body)
	case "migrateVolume":
		_, livePresent := query["livemigrate"]
		call := MigrateCall{
			VolumeID:         query.Get("volumeid"),
			StorageID:        query.Get("storageid"),
			Live:             query.Get("livemigrate") == "true",
			LiveParamPresent: livePresent,
		}
		f.mu.Lock()
		f.migrateCalls = append(f.migrateCalls, call)
		f.jobSequence++
		jobID := fmt.Sprintf("job-%04d", f.jobSequence)
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, envelopeKey, map[string]any{"jobid": jobID})
	case "queryAsyncJobResult":
		job, ok := f.Jobs[query.Get("jobid")]
		if !ok {
			writeEnvelope(w, http.StatusOK, envelopeKey, map[string]any{
				"errorcode": 431,
				"errortext": "unable to find async job",
			})
			return
		}
		writeEnvelope(w, http.StatusOK, envelopeKey, job)
	default:
		writeEnvelope(w, http.StatusUnprocessableEntity, "errorresponse", map[string]any{
			"errorcode": 432,
			"errortext": fmt.Sprintf("unknown command %q", command),
		})
	}
}

func (f *FakeCloudStack) selectVolumes(id, projectID string) []map[string]any {
	var out []map[string]any
	for _, volume := range f.Volumes {
		switch {
		case id != "":
			if volume.Attrs["id"] == id {
				out = append(out, volume.Attrs)
			}
		case projectID != "":
			if volume.ProjectID == projectID {
				out = append(out, volume.Attrs)
			}
		default:
			if volume.ProjectID == "" {
				out = append(out, volume.Attrs)
			}
		}
	}
	return out
}

func writeEnvelope(w http.ResponseWriter, status int, key string, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{key: body})
}

// verifySignature recomputes the CloudStack request signature independently of
// the client implementation under test.
func verifySignature(query url.Values) bool {
	presented := query.Get("signature")
	if presented == "" || query.Get("apikey") != APIKey {
		return false
	}

	keys := make([]string, 0, len(query))
	for key := range query {
		if key == "signature" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.ReplaceAll(url.QueryEscape(query.Get(key)), "+", "%20")
		pairs = append(pairs, key+"="+value)
	}

	mac := hmac.New(sha1.New, []byte(SecretKey))
	mac.Write([]byte(strings.ToLower(strings.Join(pairs, "&"))))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(presented))
}
