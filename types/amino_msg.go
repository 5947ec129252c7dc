package types

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrUnknownMsgType   = errors.New("unknown amino msg type")
	ErrDuplicateMsgType = errors.New("amino msg type already registered")
)

// AminoMsg is a tagged message: Type discriminates, Value is decoded by the
// codec registered for Type. Unregistered types keep their raw payload.
type AminoMsg struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// NewAminoMsg encodes value as the payload of a msg of the given type.
func NewAminoMsg(msgType string, value interface{}) (AminoMsg, error) {
	bz, err := json.Marshal(value)
	if err != nil {
		return AminoMsg{}, errors.Wrapf(err, "encode %s", msgType)
	}
	return AminoMsg{Type: msgType, Value: bz}, nil
}

type AminoCodec interface {
	Decode(value json.RawMessage) (interface{}, error)
}

// AminoCodecFunc adapts a function to AminoCodec.
type AminoCodecFunc func(value json.RawMessage) (interface{}, error)

func (f AminoCodecFunc) Decode(value json.RawMessage) (interface{}, error) {
	return f(value)
}

// JSONCodec decodes the payload into the value returned by newValue.
func JSONCodec(newValue func() interface{}) AminoCodec {
	return AminoCodecFunc(func(value json.RawMessage) (interface{}, error) {
		v := newValue()
		if err := json.Unmarshal(value, v); err != nil {
			return nil, err
		}
		return v, nil
	})
}

type AminoRegistry struct {
	mu     sync.RWMutex
	codecs map[string]AminoCodec
}

func NewAminoRegistry() *AminoRegistry {
	return &AminoRegistry{codecs: make(map[string]AminoCodec)}
}

func (r *AminoRegistry) Register(msgType string, codec AminoCodec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codecs[msgType]; ok {
		return errors.Wrap(ErrDuplicateMsgType, msgType)
	}
	r.codecs[msgType] = codec
	return nil
}

func (r *AminoRegistry) Decode(msg AminoMsg) (interface{}, error) {
	r.mu.RLock()
	codec, ok := r.codecs[msg.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrap(ErrUnknownMsgType, msg.Type)
	}
	v, err := codec.Decode(msg.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", msg.Type)
	}
	return v, nil
}

// Types lists the registered discriminators, sorted.
func (r *AminoRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.codecs))
	for t := range r.codecs {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

const MsgSendType = "cosmos-sdk/MsgSend"

// MsgSend is the amino form of a bank send.
type MsgSend struct {
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Amount      []Coin `json:"amount"`
}

var DefaultAminoRegistry = NewAminoRegistry()

func init() {
	_ = DefaultAminoRegistry.Register(MsgSendType, JSONCodec(func() interface{} { return &MsgSend{} }))
}
