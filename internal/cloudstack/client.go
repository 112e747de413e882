package cloudstack

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Config describes the client configuration.
type Config struct {
	APIURL    string
	APIKey    string
	SecretKey string
	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout            time.Duration
	InsecureSkipVerify bool
	HTTPClient         *http.Client
}

// Client talks to one CloudStack management endpoint.
type Client struct {
	endpoint  *url.URL
	apiKey    string
	secretKey string
	http      *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiURL := strings.TrimSpace(cfg.APIURL)
	if apiURL == "" {
		return nil, errors.New("cloudstack: api url is required")
	}
	endpoint, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("cloudstack: parse api url: %w", err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("cloudstack: api key is required")
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("cloudstack: secret key is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
		if cfg.InsecureSkipVerify {
			client.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}

	return &Client{
		endpoint:  endpoint,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		secretKey: strings.TrimSpace(cfg.SecretKey),
		http:      client,
	}, nil
}

// ListProjects returns every project visible to the account.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	raw, err := c.call(ctx, "listProjects", url.Values{"listall": {"true"}})
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Project []Project `json:"project"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("cloudstack: decode listProjects response: %w", err)
	}
	return envelope.Project, nil
}

// ListVolumes returns raw volume records, optionally narrowed to a project or
// a single volume id.
func (c *Client) ListVolumes(ctx context.Context, opts VolumeListOptions) ([]VolumeAttrs, error) {
	params := url.Values{"listall": {"true"}}
	if opts.ProjectID != "" {
		params.Set("projectid", opts.ProjectID)
	}
	if opts.ID != "" {
		params.Set("id", opts.ID)
	}
	raw, err := c.call(ctx, "listVolumes", params)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Volume []VolumeAttrs `json:"volume"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("cloudstack: decode listVolumes response: %w", err)
	}
	return envelope.Volume, nil
}

// VolumeByID fetches the current record of a single volume.
func (c *Client) VolumeByID(ctx context.Context, id string) (VolumeAttrs, error) {
	volumes, err := c.ListVolumes(ctx, VolumeListOptions{ID: id})
	if err != nil {
		return nil, err
	}
	if len(volumes) == 0 {
		return nil, fmt.Errorf("cloudstack: volume %q not found", id)
	}
	return volumes[0], nil
}

// ListStoragePools returns every primary storage pool.
func (c *Client) ListStoragePools(ctx context.Context) ([]StoragePool, error) {
	raw, err := c.call(ctx, "listStoragePools", url.Values{"listall": {"true"}})
	if err != nil {
		return nil, err
	}
	var envelope struct {
		StoragePool []StoragePool `json:"storagepool"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("cloudstack: decode listStoragePools response: %w", err)
	}
	return envelope.StoragePool, nil
}

// MigrateVolume submits an asynchronous volume migration and returns the job
// id. The livemigrate parameter is only sent for live migrations; an offline
// migrateVolume call must omit it entirely.
func (c *Client) MigrateVolume(ctx context.Context, volumeID, storageID string, live bool) (string, error) {
	params := url.Values{
		"volumeid":  {volumeID},
		"storageid": {storageID},
	}
	if live {
		params.Set("livemigrate", "true")
	}
	raw, err := c.call(ctx, "migrateVolume", params)
	if err != nil {
		return "", err
	}
	var envelope struct {
		JobID string `json:"jobid"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("cloudstack: decode migrateVolume response: %w", err)
	}
	if envelope.JobID == "" {
		return "", errors.New("cloudstack: migrateVolume response carries no job id")
	}
	return envelope.JobID, nil
}

// QueryAsyncJobResult polls an async job.
func (c *Client) QueryAsyncJobResult(ctx context.Context, jobID string) (AsyncJobResult, error) {
	raw, err := c.call(ctx, "queryAsyncJobResult", url.Values{"jobid": {jobID}})
	if err != nil {
		return AsyncJobResult{}, err
	}
	var result AsyncJobResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return AsyncJobResult{}, fmt.Errorf("cloudstack: decode queryAsyncJobResult response: %w", err)
	}
	return result, nil
}

// ProjectIDByName resolves a project name with an exact, case-sensitive match.
// An unknown name produces an error listing every valid project name sorted.
func (c *Client) ProjectIDByName(ctx context.Context, name string) (string, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(projects))
	for _, project := range projects {
		if project.Name == name {
			return project.ID, nil
		}
		names = append(names, project.Name)
	}
	sort.Strings(names)
	return "", fmt.Errorf("project %q unknown; valid project names are: %s", name, strings.Join(names, ", "))
}

// StoragePoolIDByName resolves a storage pool name with an exact match.
func (c *Client) StoragePoolIDByName(ctx context.Context, name string) (string, error) {
	pools, err := c.ListStoragePools(ctx)
	if err != nil {
		return "", err
	}
	for _, pool := range pools {
		if pool.Name == name {
			return pool.ID, nil
		}
	}
	return "", fmt.Errorf("storage pool %q does not exist", name)
}

// call performs one signed API request and returns the inner response object.
func (c *Client) call(ctx context.Context, command string, params url.Values) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("command", command)
	params.Set("apikey", c.apiKey)
	params.Set("response", "json")
	params.Set("signature", c.sign(params))

	requestURL := *c.endpoint
	requestURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("cloudstack: build %s request: %w", command, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudstack: %s: %w", command, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudstack: read %s response: %w", command, err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("cloudstack: %s returned status %d with unparseable body", command, resp.StatusCode)
	}

	inner, ok := top[strings.ToLower(command)+"response"]
	if !ok {
		if errRaw, found := top["errorresponse"]; found {
			inner = errRaw
		} else {
			return nil, fmt.Errorf("cloudstack: %s response envelope missing (status %d)", command, resp.StatusCode)
		}
	}

	var fault struct {
		ErrorCode int    `json:"errorcode"`
		ErrorText string `json:"errortext"`
	}
	if err := json.Unmarshal(inner, &fault); err == nil && fault.ErrorCode != 0 {
		return nil, &APIError{Command: command, Code: fault.ErrorCode, Text: fault.ErrorText}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloudstack: %s returned status %d", command, resp.StatusCode)
	}
	return inner, nil
}

// sign computes the request signature: every parameter except the signature
// itself, sorted by key, percent-encoded with %20 for spaces, lowercased,
// HMAC-SHA1 with the secret key, base64.
func (c *Client) sign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		value := url.QueryEscape(params.Get(key))
		value = strings.ReplaceAll(value, "+", "%20")
		pairs = append(pairs, key+"="+value)
	}

	mac := hmac.New(sha1.New, []byte(c.secretKey))
	mac.Write([]byte(strings.ToLower(strings.Join(pairs, "&"))))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
