package filevault

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParentIDUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ParentID
	}{
		{"numeric zero", `{"parentId":0}`, ParentID("0")},
		{"string zero", `{"parentId":"0"}`, ParentID("0")},
		{"absent", `{}`, ParentID("")},
		{"identifier", `{"parentId":"6a5c9f6e-0906-4a61-a5ef-0a62c3f547be"}`, ParentID("6a5c9f6e-0906-4a61-a5ef-0a62c3f547be")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UploadRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.ParentID)
		})
	}
}

func TestParentIDResolve(t *testing.T) {
	id, err := ParentID("").Resolve()
	require.NoError(t, err)
	assert.Equal(t, RootParentID, id)

	id, err = ParentID("0").Resolve()
	require.NoError(t, err)
	assert.Equal(t, RootParentID, id)

	want := uuid.New()
	id, err = ParentID(want.String()).Resolve()
	require.NoError(t, err)
	assert.Equal(t, want, id)

	// A value that cannot name any entry behaves like a missing parent.
	_, err = ParentID("not-an-id").Resolve()
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestValidateShapePrecedence(t *testing.T) {
	tests := []struct {
		name string
		req  UploadRequest
		want error
	}{
		{"missing name", UploadRequest{Type: EntryTypeFile, Data: "eA=="}, ErrMissingName},
		{"missing name wins over type", UploadRequest{}, ErrMissingName},
		{"missing type", UploadRequest{Name: "a"}, ErrMissingType},
		{"invalid type indistinguishable", UploadRequest{Name: "a", Type: "archive"}, ErrMissingType},
		{"missing data for file", UploadRequest{Name: "a", Type: EntryTypeFile}, ErrMissingData},
		{"missing data for image", UploadRequest{Name: "a", Type: EntryTypeImage}, ErrMissingData},
		{"folder needs no data", UploadRequest{Name: "a", Type: EntryTypeFolder}, nil},
		{"valid file", UploadRequest{Name: "a", Type: EntryTypeFile, Data: "eA=="}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.ValidateShape()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestDecodeData(t *testing.T) {
	req := UploadRequest{Data: "aGVsbG8="}
	data, err := req.DecodeData()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	req = UploadRequest{Data: "not base64 !!"}
	_, err = req.DecodeData()
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestEntryTypeValid(t *testing.T) {
	assert.True(t, EntryTypeFolder.Valid())
	assert.True(t, EntryTypeFile.Valid())
	assert.True(t, EntryTypeImage.Valid())
	assert.False(t, EntryType("").Valid())
	assert.False(t, EntryType("archive").Valid())
}
