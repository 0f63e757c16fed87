package realtime

import "encoding/json"

// Message kinds carried in the wire envelope. KindNotification is reserved
// for server-originated pushes; client frames claiming it are discarded.
const (
	KindEcho         = "echo"
	KindBroadcast    = "broadcast"
	KindNotification = "notification"
)

// Envelope is the two-key wire message wrapper used for client traffic.
type Envelope struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// Push is the envelope for server-originated notification pushes.
type Push struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// NewNotificationPush wraps serialized notification data in the reserved
// push envelope.
func NewNotificationPush(data any) Push {
	return Push{Kind: KindNotification, Data: data}
}

// DecodeEnvelope interprets one raw text frame. Anything that does not
// decode as an envelope degrades to an echo of the raw text instead of
// failing the connection.
func DecodeEnvelope(raw []byte) Envelope {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{Kind: KindEcho, Payload: string(raw)}
	}
	if env.Kind == "" {
		env.Kind = KindEcho
	}
	return env
}
