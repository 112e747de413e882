package cloudstack

import "fmt"

// Project identifies a CloudStack project (tenant).
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StoragePool identifies a primary storage pool.
type StoragePool struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VolumeAttrs is a raw volume record as returned by the API. CloudStack omits
// keys it has no value for (vmname on detached volumes, project on
// account-scoped ones), so the record stays a loose map until normalization.
type VolumeAttrs map[string]any

// VolumeListOptions narrows a listVolumes call. Zero values mean "no filter".
type VolumeListOptions struct {
	ProjectID string
	ID        string
}

// Async job status values as reported by queryAsyncJobResult.
const (
	JobPending = 0
	JobSuccess = 1
	JobFailure = 2
)

// AsyncJobResult is the outcome of polling a platform-side async job.
type AsyncJobResult struct {
	JobStatus     int `json:"jobstatus"`
	JobResultCode int `json:"jobresultcode"`
}

// StatusText renders the numeric job status for display.
func (r AsyncJobResult) StatusText() string {
	switch r.JobStatus {
	case JobPending:
		return "pending"
	case JobSuccess:
		return "success"
	case JobFailure:
		return "failure"
	default:
		return fmt.Sprintf("status-%d", r.JobStatus)
	}
}

// APIError is a CloudStack error envelope.
type APIError struct {
	Command string
	Code    int
	Text    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cloudstack: %s failed with code %d: %s", e.Command, e.Code, e.Text)
}
