package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FixRequest is a single remediation request: a code snippet plus the label
// of the weakness detected in it.
type FixRequest struct {
	Code      string `json:"code"`
	IssueType string `json:"issueType"`
}

// wireRequest distinguishes a missing field from an empty one.
type wireRequest struct {
	Code      *string `json:"code"`
	IssueType *string `json:"issueType"`
}

// DecodeFixRequest parses the serialized request. Both fields are required.
func DecodeFixRequest(data []byte) (FixRequest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return FixRequest{}, fmt.Errorf("%w: empty request", ErrRequestMalformed)
	}

	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return FixRequest{}, fmt.Errorf("%w: %v", ErrRequestMalformed, err)
	}
	if w.Code == nil {
		return FixRequest{}, fmt.Errorf("%w: missing field %q", ErrRequestMalformed, "code")
	}
	if w.IssueType == nil {
		return FixRequest{}, fmt.Errorf("%w: missing field %q", ErrRequestMalformed, "issueType")
	}

	return FixRequest{Code: *w.Code, IssueType: *w.IssueType}, nil
}
