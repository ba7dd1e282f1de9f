// AngelaMos | 2026
// metadata.go

package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	KeyRecruiterID      = "recruiter_id"
	KeyPendingID        = "pending_id"
	KeyRecruiterPayload = "recruiter_payload"
	KeyPackID           = "pack_id"

	maxMetadataValue = 500
)

// Owner says who a checkout session pays for. Exactly one of
// ExistingRecruiter, PendingRegistration or InlinePayload.
type Owner interface {
	encode(md map[string]string) error
}

type ExistingRecruiter struct {
	RecruiterID int64
}

type PendingRegistration struct {
	PendingID int64
}

type InlinePayload struct {
	Payload RecruiterPayload
}

// RecruiterPayload identifies a signed-in user and the company profile to
// attach when the payment clears.
type RecruiterPayload struct {
	UserID         int64  `json:"user_id"`
	CompanyName    string `json:"company_name,omitempty"`
	Industry       string `json:"industry,omitempty"`
	Description    string `json:"description,omitempty"`
	CompanyEmail   string `json:"company_email,omitempty"`
	CompanyAddress string `json:"company_address,omitempty"`
}

func (o ExistingRecruiter) encode(md map[string]string) error {
	if o.RecruiterID <= 0 {
		return fmt.Errorf("recruiter id must be positive: %w", ErrInvalidMetadata)
	}
	md[KeyRecruiterID] = strconv.FormatInt(o.RecruiterID, 10)
	return nil
}

func (o PendingRegistration) encode(md map[string]string) error {
	if o.PendingID <= 0 {
		return fmt.Errorf("pending id must be positive: %w", ErrInvalidMetadata)
	}
	md[KeyPendingID] = strconv.FormatInt(o.PendingID, 10)
	return nil
}

func (o InlinePayload) encode(md map[string]string) error {
	if o.Payload.UserID <= 0 {
		return fmt.Errorf("payload user id must be positive: %w", ErrInvalidMetadata)
	}

	raw, err := json.Marshal(o.Payload)
	if err != nil {
		return fmt.Errorf("encode recruiter payload: %w", err)
	}
	if len(raw) > maxMetadataValue {
		return fmt.Errorf("recruiter payload too large: %w", ErrInvalidMetadata)
	}

	md[KeyRecruiterPayload] = string(raw)
	return nil
}

// Metadata is the typed form of the string map stored on a session.
type Metadata struct {
	PackID int64
	Owner  Owner
}

func (m Metadata) Encode() (map[string]string, error) {
	if m.PackID <= 0 {
		return nil, fmt.Errorf("pack id must be positive: %w", ErrInvalidMetadata)
	}
	if m.Owner == nil {
		return nil, fmt.Errorf("owner required: %w", ErrInvalidMetadata)
	}

	md := map[string]string{KeyPackID: strconv.FormatInt(m.PackID, 10)}
	if err := m.Owner.encode(md); err != nil {
		return nil, err
	}

	return md, nil
}

// DecodeMetadata parses session metadata. A map with no owner key decodes
// to a nil Owner. When several owner keys are present the existing
// recruiter wins, then the pending registration.
func DecodeMetadata(md map[string]string) (Metadata, error) {
	var m Metadata

	packID, err := parseID(md, KeyPackID)
	if err != nil {
		return m, err
	}
	if packID == 0 {
		return m, fmt.Errorf("missing %s: %w", KeyPackID, ErrInvalidMetadata)
	}
	m.PackID = packID

	recruiterID, err := parseID(md, KeyRecruiterID)
	if err != nil {
		return m, err
	}
	if recruiterID != 0 {
		m.Owner = ExistingRecruiter{RecruiterID: recruiterID}
		return m, nil
	}

	pendingID, err := parseID(md, KeyPendingID)
	if err != nil {
		return m, err
	}
	if pendingID != 0 {
		m.Owner = PendingRegistration{PendingID: pendingID}
		return m, nil
	}

	if raw := strings.TrimSpace(md[KeyRecruiterPayload]); raw != "" {
		var payload RecruiterPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return m, fmt.Errorf("decode %s: %w", KeyRecruiterPayload, ErrInvalidMetadata)
		}
		m.Owner = InlinePayload{Payload: payload}
	}

	return m, nil
}

func parseID(md map[string]string, key string) (int64, error) {
	raw := strings.TrimSpace(md[key])
	if raw == "" {
		return 0, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("malformed %s %q: %w", key, raw, ErrInvalidMetadata)
	}

	return id, nil
}
