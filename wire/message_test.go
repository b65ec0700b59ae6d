package wire_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lstoned/lsrd/wire"
)

// roundTrip exercises the encoding round-trip law: decode(encode(m)) must
// be structurally equal to m, field-by-field.
func roundTrip(t *testing.T, m wire.Message) {
	t.Helper()

	b, err := wire.Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := wire.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if diff := cmp.Diff(m, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []wire.Message{
		&wire.Hello{From: "r1"},
		&wire.HelloAck{From: "r2"},
		&wire.LSALink{
			Origin: "r1",
			Seq:    1234,
			Links: []wire.Link{
				{ID: "r1-r2", A: "r1", B: "r2", Capacity: 50, Delay: 20, Cost: 1, IPA: "10.0.0.1", IPB: "10.0.0.2"},
				{ID: "r1-net-10.0.1.0/24", A: "r1", B: "NET", Network: "10.0.1.0/24"},
			},
		},
		&wire.RequestRoute{Dest: "10.0.3.10", BW: 5},
		&wire.InstallRoute{Dest: "10.0.3.0/24", Next: "10.0.0.3"},
		&wire.RequestReply{Path: []wire.Hop{
			{Router: "r1", IfaceIP: "10.0.0.1"},
			{Router: "r3", LinkID: "r1-r3", IfaceIP: "10.0.0.3"},
		}},
		&wire.RequestReply{Path: nil},
	}

	for _, m := range tests {
		m := m
		t.Run(string(m.Kind()), func(t *testing.T) {
			roundTrip(t, m)
		})
	}
}

func TestNetPseudoLink(t *testing.T) {
	l := wire.Link{ID: "r1-net-10.0.1.0/24", A: "r1", B: "NET", Network: "10.0.1.0/24"}
	if !l.IsNetPseudoLink() {
		t.Fatalf("expected NET pseudo-link to report true")
	}

	l2 := wire.Link{ID: "r1-r2", A: "r1", B: "r2"}
	if l2.IsNetPseudoLink() {
		t.Fatalf("expected router-to-router link to report false")
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := wire.Decode([]byte(`{"type":"BOGUS"}`))
	if err != wire.ErrUnknownType {
		t.Fatalf("got err %v, want ErrUnknownType", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := wire.Decode([]byte(`not json`))
	if err == nil {
		t.Fatalf("expected an error decoding malformed input")
	}
}

func TestEncodeTooLarge(t *testing.T) {
	links := make([]wire.Link, 0, 5000)
	for i := 0; i < 5000; i++ {
		links = append(links, wire.Link{
			ID: "r1-r2", A: "r1", B: "r2",
			IPA: strings.Repeat("9", 16), IPB: strings.Repeat("9", 16),
		})
	}

	_, err := wire.Encode(&wire.LSALink{Origin: "r1", Seq: 1, Links: links})
	if err != wire.ErrTooLarge {
		t.Fatalf("got err %v, want ErrTooLarge", err)
	}
}
