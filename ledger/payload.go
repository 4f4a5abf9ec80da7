package ledger

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Kind identifies the variant of a payload. It is part of the hashed envelope,
// so two variants with identical fields never collide.
type Kind string

const (
	KindGenesis          Kind = "genesis"
	KindProductCreated   Kind = "product_created"
	KindProductProcessed Kind = "product_processed"
	KindEvent            Kind = "event"
)

// Payload is the business event carried by a block. The set of variants is
// closed: Genesis, ProductCreated, ProductProcessed and Event.
type Payload interface {
	Kind() Kind
	clone() Payload
}

// Genesis marks the origin of the chain.
type Genesis struct {
	Message string `cbor:"message" json:"message"`
}

func (Genesis) Kind() Kind { return KindGenesis }
func (g Genesis) clone() Payload { return g }

// ProductCreated records the registration of a new product at its manufacturer.
type ProductCreated struct {
	ProductID    uint64 `cbor:"productId" json:"productId"`
	ProductName  string `cbor:"productName" json:"productName"`
	Manufacturer string `cbor:"manufacturer" json:"manufacturer"`
	ProductType  string `cbor:"productType" json:"productType"`
}

func (ProductCreated) Kind() Kind { return KindProductCreated }
func (p ProductCreated) clone() Payload { return p }

// ProductProcessed records a custody transition of a product to a new stage.
type ProductProcessed struct {
	ProductID  uint64 `cbor:"productId" json:"productId"`
	Stage      string `cbor:"stage" json:"stage"`
	Entity     string `cbor:"entity" json:"entity"`
	Successful bool   `cbor:"successful" json:"successful"`
}

func (ProductProcessed) Kind() Kind { return KindProductProcessed }
func (p ProductProcessed) clone() Payload { return p }

// Event is a free-form structured payload for events that have no dedicated
// variant. Attribute values must be CBOR encodable (strings, numbers, booleans,
// byte slices, times, slices and string-keyed maps of those).
//
// Once appended, attributes are stored in their decoded CBOR form: integers
// become uint64 or int64, floats become float64, times become RFC 3339
// strings, slices become []interface{} and maps become map[string]interface{}.
type Event struct {
	Type       string                 `cbor:"type" json:"type"`
	Attributes map[string]interface{} `cbor:"attributes" json:"attributes,omitempty"`
}

func (Event) Kind() Kind { return KindEvent }

func (e Event) clone() Payload {
	return Event{
		Type:       e.Type,
		Attributes: cloneMap(e.Attributes),
	}
}

// detach returns an Event whose attributes share no memory with e. The
// attributes go through the canonical encoding and back, so any value the
// encoder accepts is copied, whatever its Go type.
func (e Event) detach() (Event, error) {
	if e.Attributes == nil {
		return Event{Type: e.Type}, nil
	}
	data, err := encoder.Marshal(e.Attributes)
	if err != nil {
		return Event{}, err
	}
	var attrs map[string]interface{}
	err = decoder.Unmarshal(data, &attrs)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: e.Type, Attributes: attrs}, nil
}

// cloneMap copies attributes already in decoded form.
func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	dup := make(map[string]interface{}, len(m))
	for k, v := range m {
		dup[k] = cloneValue(v)
	}
	return dup
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return cloneMap(val)
	case []interface{}:
		dup := make([]interface{}, len(val))
		for i, item := range val {
			dup[i] = cloneValue(item)
		}
		return dup
	case []byte:
		dup := make([]byte, len(val))
		copy(dup, val)
		return dup
	default:
		return val
	}
}

// envelope is the canonical hashed form of a payload.
type envelope struct {
	Type Kind    `cbor:"type"`
	Data Payload `cbor:"data"`
}

var (
	encoder = mustEncMode()
	decoder = mustDecMode()
)

// We should never fail here since the options are static, so panic to keep
// the encoder a plain package value.
func mustEncMode() cbor.EncMode {
	options := cbor.CoreDetEncOptions()
	options.Time = cbor.TimeRFC3339Nano
	mode, err := options.EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}

func mustDecMode() cbor.DecMode {
	options := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}
	mode, err := options.DecMode()
	if err != nil {
		panic(err)
	}
	return mode
}

// EncodePayload returns the canonical serialization of a payload: the
// envelope {type, data} encoded with CBOR Core Deterministic Encoding. Map keys
// and struct fields are sorted, so the output does not depend on insertion
// order.
func EncodePayload(payload Payload) ([]byte, error) {
	if payload == nil {
		return nil, ErrNilPayload
	}
	return encoder.Marshal(envelope{Type: payload.Kind(), Data: payload})
}
