// AngelaMos | 2026
// metadata_test.go

package gateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataEncodeWritesOneOwnerKey(t *testing.T) {
	md, err := Metadata{PackID: 2, Owner: PendingRegistration{PendingID: 11}}.Encode()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"pack_id": "2", "pending_id": "11"}, md)
}

func TestMetadataRoundTripInlinePayload(t *testing.T) {
	in := Metadata{
		PackID: 3,
		Owner: InlinePayload{Payload: RecruiterPayload{
			UserID:      8,
			CompanyName: "Acme",
		}},
	}

	md, err := in.Encode()
	require.NoError(t, err)
	assert.NotContains(t, md, KeyRecruiterID)
	assert.NotContains(t, md, KeyPendingID)

	out, err := DecodeMetadata(md)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeMetadataParsesStrings(t *testing.T) {
	out, err := DecodeMetadata(map[string]string{"pack_id": "2", "recruiter_id": "5"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), out.PackID)
	assert.Equal(t, ExistingRecruiter{RecruiterID: 5}, out.Owner)
}

func TestDecodeMetadataWithoutOwner(t *testing.T) {
	out, err := DecodeMetadata(map[string]string{"pack_id": "1"})
	require.NoError(t, err)
	assert.Nil(t, out.Owner)
}

func TestDecodeMetadataRejectsMalformed(t *testing.T) {
	cases := []map[string]string{
		{},
		{"pack_id": "two"},
		{"pack_id": "1", "pending_id": "-4"},
		{"pack_id": "1", "recruiter_payload": "{not json"},
	}

	for _, md := range cases {
		_, err := DecodeMetadata(md)
		assert.ErrorIs(t, err, ErrInvalidMetadata, md)
	}
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	_, err := Metadata{
		PackID: 1,
		Owner: InlinePayload{Payload: RecruiterPayload{
			UserID:      1,
			Description: strings.Repeat("x", 600),
		}},
	}.Encode()

	assert.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestEncodeRequiresOwner(t *testing.T) {
	_, err := Metadata{PackID: 1}.Encode()
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}
