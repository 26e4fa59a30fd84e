// Copyright 2025 Certen Protocol

package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/codec"
	"github.com/certen/ots-engine/pkg/timestamp"
	"github.com/certen/ots-engine/pkg/wire"
)

// fakeHTTP serves canned responses keyed by URL prefix, standing in
// for collab.HTTPClient in tests.
type fakeHTTP struct {
	get  map[string][]byte
	post map[string][]byte
	err  map[string]error
}

func (f *fakeHTTP) Get(_ context.Context, url string, _ time.Duration) ([]byte, error) {
	if err, ok := f.err[url]; ok {
		return nil, err
	}
	return f.get[url], nil
}

func (f *fakeHTTP) Post(_ context.Context, url string, _ []byte, _ string, _ time.Duration) ([]byte, error) {
	if err, ok := f.err[url]; ok {
		return nil, err
	}
	return f.post[url], nil
}

func encodeNodeBytes(n *timestamp.Node) []byte {
	w := wire.NewWriter()
	codec.EncodeNode(n, w)
	return w.Bytes()
}

func TestSubmitQuorum(t *testing.T) {
	pendingNode := timestamp.NewNode()
	pendingNode.AddAttestation(attestation.Pending{URI: []byte("https://a.example/cal/x")})
	body := encodeNodeBytes(pendingNode)

	http := &fakeHTTP{
		post: map[string][]byte{
			"https://a.example/digest": body,
			"https://b.example/digest": body,
		},
		err: map[string]error{
			"https://c.example/digest": errUnreachable,
		},
	}
	client := NewClient(http, SubmissionPolicy{
		Calendars:         []string{"https://a.example", "https://b.example", "https://c.example"},
		Strategy:          StrategyQuorum,
		RequestsPerSecond: 1000,
		Timeout:           time.Second,
	})

	results, err := client.Submit(context.Background(), []byte("digest"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestSubmitFailsBelowQuorum(t *testing.T) {
	http := &fakeHTTP{
		err: map[string]error{
			"https://a.example/digest": errUnreachable,
			"https://b.example/digest": errUnreachable,
			"https://c.example/digest": errUnreachable,
		},
	}
	client := NewClient(http, SubmissionPolicy{
		Calendars:         []string{"https://a.example", "https://b.example", "https://c.example"},
		Strategy:          StrategyQuorum,
		RequestsPerSecond: 1000,
		Timeout:           time.Second,
	})

	if _, err := client.Submit(context.Background(), []byte("digest")); err == nil {
		t.Fatal("expected an error when no calendar accepts the digest")
	}
}

// TestSubmitMinSuccessfulDistinguishesQuorumCount covers spec §8
// scenario S5: 3 calendars, 2 accept and 1 times out; quorum(2)
// succeeds but quorum(3) over the identical pool does not.
func TestSubmitMinSuccessfulDistinguishesQuorumCount(t *testing.T) {
	pendingNode := timestamp.NewNode()
	pendingNode.AddAttestation(attestation.Pending{URI: []byte("https://a.example/cal/x")})
	body := encodeNodeBytes(pendingNode)

	http := &fakeHTTP{
		post: map[string][]byte{
			"https://a.example/digest": body,
			"https://b.example/digest": body,
		},
		err: map[string]error{
			"https://c.example/digest": errUnreachable,
		},
	}
	calendars := []string{"https://a.example", "https://b.example", "https://c.example"}

	quorumOfTwo := NewClient(http, SubmissionPolicy{
		Calendars: calendars, Strategy: StrategyQuorum, MinSuccessful: 2,
		RequestsPerSecond: 1000, Timeout: time.Second,
	})
	if _, err := quorumOfTwo.Submit(context.Background(), []byte("digest")); err != nil {
		t.Fatalf("quorum(2): expected success, got %v", err)
	}

	quorumOfThree := NewClient(http, SubmissionPolicy{
		Calendars: calendars, Strategy: StrategyQuorum, MinSuccessful: 3,
		RequestsPerSecond: 1000, Timeout: time.Second,
	})
	if _, err := quorumOfThree.Submit(context.Background(), []byte("digest")); err == nil {
		t.Fatal("quorum(3): expected an error, only 2 of 3 calendars accepted")
	}
}

func TestUpgradeStillPending(t *testing.T) {
	node := timestamp.NewNode()
	node.AddAttestation(attestation.Pending{URI: []byte("https://a.example/cal/x")})
	http := &fakeHTTP{get: map[string][]byte{
		"https://a.example/cal/x": encodeNodeBytes(node),
	}}
	client := NewClient(http, DefaultPolicy())

	got, pending, err := client.Upgrade(context.Background(), "https://a.example/cal/x")
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if !pending {
		t.Fatal("expected still-pending result")
	}
	if len(got.Attestations) != 1 {
		t.Fatalf("expected 1 attestation, got %d", len(got.Attestations))
	}
}

func TestUpgradeResolved(t *testing.T) {
	node := timestamp.NewNode()
	node.AddAttestation(attestation.BitcoinBlockHeader{Height: 800000})
	http := &fakeHTTP{get: map[string][]byte{
		"https://a.example/cal/x": encodeNodeBytes(node),
	}}
	client := NewClient(http, DefaultPolicy())

	_, pending, err := client.Upgrade(context.Background(), "https://a.example/cal/x")
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if pending {
		t.Fatal("expected a resolved (non-pending) result")
	}
}

var errUnreachable = errors.New("calendar unreachable")
