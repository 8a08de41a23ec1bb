package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_IsHelpersDistinguishCodes(t *testing.T) {
	leaseErr := newLeaseExhaustedError("boom")
	storageErr := newStorageUnavailableError("boom")
	malformedErr := newMalformedRequestError("boom")

	assert.True(t, IsLeaseExhausted(leaseErr))
	assert.False(t, IsLeaseExhausted(storageErr))
	assert.False(t, IsLeaseExhausted(malformedErr))

	assert.True(t, IsStorageUnavailable(storageErr))
	assert.False(t, IsStorageUnavailable(leaseErr))

	assert.True(t, IsMalformedRequest(malformedErr))
	assert.False(t, IsMalformedRequest(leaseErr))

	assert.False(t, IsLeaseExhausted(nil))
	assert.Contains(t, leaseErr.Error(), "LeaseExhausted")
}

func TestCode_String(t *testing.T) {
	assert.Equal(t, "LeaseExhausted", ErrLeaseExhausted.String())
	assert.Equal(t, "StorageUnavailable", ErrStorageUnavailable.String())
	assert.Equal(t, "MalformedRequest", ErrMalformedRequest.String())
}
