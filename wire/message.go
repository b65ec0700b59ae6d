// Package wire implements the on-the-wire record format used by the
// routing daemon's control protocol: six self-describing, JSON-encoded
// message kinds carried over UDP datagrams.
package wire

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxDatagramSize is the largest payload this package will encode or
// accept; it matches the practical UDP payload ceiling.
const MaxDatagramSize = 65535

// Type identifies the kind of a Message.
type Type string

// Message kinds, as described in spec §4.1.
const (
	TypeHello         Type = "HELLO"
	TypeHelloAck      Type = "HELLO_ACK"
	TypeLSALink       Type = "LSA_LINK"
	TypeRequestRoute  Type = "REQUEST_ROUTE"
	TypeInstallRoute  Type = "INSTALL_ROUTE"
	TypeRequestReply  Type = "REQUEST_REPLY"
)

// A Message is any of the six wire record kinds.
type Message interface {
	Kind() Type
}

// envelope is the shape every record takes on the wire: a type tag plus
// a body specific to that type. Only the field matching Type is
// populated.
type envelope struct {
	Type Type `json:"type"`

	Hello        *Hello        `json:"hello,omitempty"`
	HelloAck     *HelloAck     `json:"hello_ack,omitempty"`
	LSALink      *LSALink      `json:"lsa_link,omitempty"`
	RequestRoute *RequestRoute `json:"request_route,omitempty"`
	InstallRoute *InstallRoute `json:"install_route,omitempty"`
	RequestReply *RequestReply `json:"request_reply,omitempty"`
}

// Hello is sent periodically by every router to each configured neighbor.
type Hello struct {
	From string `json:"from"`
}

// Kind implements Message.
func (*Hello) Kind() Type { return TypeHello }

// HelloAck is sent in reply to a Hello; it carries no state obligation
// for the receiver (spec §4.2).
type HelloAck struct {
	From string `json:"from"`
}

// Kind implements Message.
func (*HelloAck) Kind() Type { return TypeHelloAck }

// Link is a single LSDB record as carried inside an LSA.
//
// For a router-to-router adjacency, A and B name the two endpoint
// routers and IPA/IPB carry their respective interface addresses. For a
// NET pseudo-link, B is always "NET" and Network carries the attached
// CIDR; Capacity, Delay, Cost, IPA and IPB are meaningless in that case.
type Link struct {
	ID       string `json:"id"`
	A        string `json:"a"`
	B        string `json:"b"`
	Capacity int    `json:"capacity,omitempty"`
	Delay    int    `json:"delay,omitempty"`
	Cost     int    `json:"cost,omitempty"`
	IPA      string `json:"ip_a,omitempty"`
	IPB      string `json:"ip_b,omitempty"`
	Network  string `json:"network,omitempty"`
}

// IsNetPseudoLink reports whether l associates a router with one of its
// attached networks rather than describing a router-to-router adjacency.
func (l Link) IsNetPseudoLink() bool { return l.B == "NET" }

// LSALink is a link-state advertisement: an origin router's view of its
// own adjacencies and attached networks at sequence number Seq.
type LSALink struct {
	Origin string `json:"origin"`
	Seq    int64  `json:"seq"`
	Links  []Link `json:"links"`
}

// Kind implements Message.
func (*LSALink) Kind() Type { return TypeLSALink }

// RequestRoute asks the receiving router to compute and install a path
// to Dest honoring a minimum bandwidth reservation of BW.
type RequestRoute struct {
	Dest string `json:"dest"`
	BW   int    `json:"bw"`
}

// Kind implements Message.
func (*RequestRoute) Kind() Type { return TypeRequestRoute }

// InstallRoute directs the receiving router to install a kernel
// forwarding entry for Dest via Next.
type InstallRoute struct {
	Dest string `json:"dest"`
	Next string `json:"next"`
}

// Kind implements Message.
func (*InstallRoute) Kind() Type { return TypeInstallRoute }

// Hop is one entry of a computed path, as returned in a RequestReply.
type Hop struct {
	Router string `json:"router"`
	// LinkID is the link toward the previous hop; empty for the source.
	LinkID string `json:"link_id,omitempty"`
	// IfaceIP is this router's interface address on that link.
	IfaceIP string `json:"iface_ip"`
}

// RequestReply answers a RequestRoute. Path is nil when no feasible path
// was found.
type RequestReply struct {
	Path []Hop `json:"path"`
}

// Kind implements Message.
func (*RequestReply) Kind() Type { return TypeRequestReply }

// ErrTooLarge is returned by Encode when a message would not fit in a
// single UDP datagram.
var ErrTooLarge = fmt.Errorf("wire: encoded message exceeds %d bytes", MaxDatagramSize)

// ErrUnknownType is returned by Decode when a record's type tag does not
// match any known Message kind, or the matching body is absent.
var ErrUnknownType = fmt.Errorf("wire: unknown or malformed message type")

// Encode serializes m as a self-describing JSON record.
func Encode(m Message) ([]byte, error) {
	env := envelope{Type: m.Kind()}

	switch v := m.(type) {
	case *Hello:
		env.Hello = v
	case *HelloAck:
		env.HelloAck = v
	case *LSALink:
		env.LSALink = v
	case *RequestRoute:
		env.RequestRoute = v
	case *InstallRoute:
		env.InstallRoute = v
	case *RequestReply:
		env.RequestReply = v
	default:
		return nil, fmt.Errorf("wire: unsupported message type %T", m)
	}

	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	if len(b) > MaxDatagramSize {
		return nil, ErrTooLarge
	}
	return b, nil
}

// Decode parses a datagram payload into its concrete Message type,
// dispatching on the record's type tag before unmarshaling its body.
func Decode(b []byte) (Message, error) {
	if len(b) > MaxDatagramSize {
		return nil, ErrTooLarge
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("wire: decode: %w", err)
	}

	switch env.Type {
	case TypeHello:
		if env.Hello == nil {
			return nil, ErrUnknownType
		}
		return env.Hello, nil
	case TypeHelloAck:
		if env.HelloAck == nil {
			return nil, ErrUnknownType
		}
		return env.HelloAck, nil
	case TypeLSALink:
		if env.LSALink == nil {
			return nil, ErrUnknownType
		}
		return env.LSALink, nil
	case TypeRequestRoute:
		if env.RequestRoute == nil {
			return nil, ErrUnknownType
		}
		return env.RequestRoute, nil
	case TypeInstallRoute:
		if env.InstallRoute == nil {
			return nil, ErrUnknownType
		}
		return env.InstallRoute, nil
	case TypeRequestReply:
		// RequestReply.Path may legitimately be nil (no path found), so
		// unlike the other kinds an absent body pointer still means
		// "present but empty" as long as the type tag matched.
		if env.RequestReply == nil {
			return &RequestReply{}, nil
		}
		return env.RequestReply, nil
	default:
		return nil, ErrUnknownType
	}
}
