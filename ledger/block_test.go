package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexHash = regexp.MustCompile(`^[0-9a-f]{64}$`)

var testTime = time.Date(2024, time.March, 14, 9, 26, 53, 589793000, time.UTC)

// TestContentHashDeterministic verifies that hashing the same inputs twice yields the same digest.
func TestContentHashDeterministic(t *testing.T) {
	payload := ProductCreated{ProductID: 1, ProductName: "Apple Watch", Manufacturer: "Apple Inc.", ProductType: "electronics"}

	first, err := ContentHash(testTime, payload, "0")
	require.NoError(t, err)
	second, err := ContentHash(testTime, payload, "0")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Regexp(t, hexHash, first)
}

// TestContentHashInput verifies the digest is SHA-256 over timestamp, canonical payload and previous hash.
func TestContentHashInput(t *testing.T) {
	payload := Genesis{Message: DefaultGenesisMessage}
	encoded, err := EncodePayload(payload)
	require.NoError(t, err)

	input := append([]byte("2024-03-14T09:26:53.589793Z"), encoded...)
	input = append(input, []byte("prev")...)
	sum := sha256.Sum256(input)

	got, err := ContentHash(testTime, payload, "prev")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

// TestContentHashTimezone verifies that the same instant hashes identically in any location.
func TestContentHashTimezone(t *testing.T) {
	payload := Genesis{Message: "m"}
	loc := time.FixedZone("CET", 3600)

	utc, err := ContentHash(testTime, payload, "0")
	require.NoError(t, err)
	local, err := ContentHash(testTime.In(loc), payload, "0")
	require.NoError(t, err)

	assert.Equal(t, utc, local)
}

// TestContentHashSensitivity verifies that changing any single input changes the digest.
func TestContentHashSensitivity(t *testing.T) {
	base := ProductProcessed{ProductID: 7, Stage: "distributor", Entity: "Logistics d.o.o.", Successful: true}
	want, err := ContentHash(testTime, base, "abc")
	require.NoError(t, err)

	tests := []struct {
		name      string
		timestamp time.Time
		payload   Payload
		prev      string
	}{
		{"timestamp", testTime.Add(time.Nanosecond), base, "abc"},
		{"payload entity", testTime, ProductProcessed{ProductID: 7, Stage: "distributor", Entity: "Logistics d.o.o", Successful: true}, "abc"},
		{"payload flag", testTime, ProductProcessed{ProductID: 7, Stage: "distributor", Entity: "Logistics d.o.o.", Successful: false}, "abc"},
		{"payload id", testTime, ProductProcessed{ProductID: 8, Stage: "distributor", Entity: "Logistics d.o.o.", Successful: true}, "abc"},
		{"previous hash", testTime, base, "abd"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ContentHash(test.timestamp, test.payload, test.prev)
			require.NoError(t, err)
			assert.NotEqual(t, want, got)
		})
	}
}

// TestEncodePayloadCanonical verifies that structurally equal payloads encode to identical bytes
// regardless of how their maps were built.
func TestEncodePayloadCanonical(t *testing.T) {
	first := Event{Type: "inspection", Attributes: map[string]interface{}{}}
	first.Attributes["zeta"] = 1
	first.Attributes["alpha"] = "x"
	first.Attributes["nested"] = map[string]interface{}{"b": true, "a": []interface{}{"1", 2}}

	second := Event{Type: "inspection", Attributes: map[string]interface{}{}}
	second.Attributes["nested"] = map[string]interface{}{"a": []interface{}{"1", 2}, "b": true}
	second.Attributes["alpha"] = "x"
	second.Attributes["zeta"] = 1

	a, err := EncodePayload(first)
	require.NoError(t, err)
	b, err := EncodePayload(second)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

// TestEncodePayloadKinds verifies that the payload kind is part of the encoding.
func TestEncodePayloadKinds(t *testing.T) {
	created, err := EncodePayload(ProductCreated{ProductID: 1})
	require.NoError(t, err)
	processed, err := EncodePayload(ProductProcessed{ProductID: 1})
	require.NoError(t, err)

	assert.NotEqual(t, created, processed)
}

// TestContentHashUnsupportedValue verifies that a payload which cannot be serialized
// surfaces as a hashing failure.
func TestContentHashUnsupportedValue(t *testing.T) {
	payload := Event{Type: "broken", Attributes: map[string]interface{}{"ch": make(chan int)}}

	_, err := ContentHash(testTime, payload, "0")
	assert.ErrorIs(t, err, ErrHashing)
}

// TestContentHashNilPayload verifies that a missing payload cannot be hashed.
func TestContentHashNilPayload(t *testing.T) {
	_, err := ContentHash(testTime, nil, "0")
	assert.ErrorIs(t, err, ErrHashing)
	assert.ErrorIs(t, err, ErrNilPayload)
}

// TestDetachKeepsContentHash verifies that storing attributes in decoded form
// does not change the content hash of an event.
func TestDetachKeepsContentHash(t *testing.T) {
	original := Event{Type: "t", Attributes: map[string]interface{}{
		"tags":  []string{"a", "b"},
		"dims":  map[string]int{"w": 1, "h": -2},
		"ratio": 1.5,
		"raw":   []byte{1, 2},
		"when":  testTime,
	}}
	detached, err := original.detach()
	require.NoError(t, err)

	want, err := ContentHash(testTime, original, "0")
	require.NoError(t, err)
	got, err := ContentHash(testTime, detached, "0")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, map[string]interface{}{"w": uint64(1), "h": int64(-2)}, detached.Attributes["dims"])
}

// TestBlockCopyIsolatesAttributes verifies that a copied block shares no attribute maps with the original.
func TestBlockCopyIsolatesAttributes(t *testing.T) {
	original := Event{Type: "t", Attributes: map[string]interface{}{
		"nested": map[string]interface{}{"k": "v"},
		"list":   []interface{}{"a"},
	}}
	b, err := newBlock(testTime, original, "0")
	require.NoError(t, err)

	dup := b.copy()
	attrs := dup.Payload.(Event).Attributes
	attrs["nested"].(map[string]interface{})["k"] = "changed"
	attrs["list"].([]interface{})[0] = "changed"
	attrs["extra"] = 1

	recalculated, err := b.CalculateHash()
	require.NoError(t, err)
	assert.Equal(t, b.Hash, recalculated)
	assert.Equal(t, "v", original.Attributes["nested"].(map[string]interface{})["k"])
}
