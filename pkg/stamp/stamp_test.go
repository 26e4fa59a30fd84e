// Copyright 2025 Certen Protocol

package stamp

import (
	"context"
	"testing"
	"time"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/calendar"
	"github.com/certen/ots-engine/pkg/codec"
	"github.com/certen/ots-engine/pkg/collab/collabtest"
	"github.com/certen/ots-engine/pkg/timestamp"
	"github.com/certen/ots-engine/pkg/verifier"
	"github.com/certen/ots-engine/pkg/wire"
)

// fakeHTTP serves canned responses keyed by exact URL, standing in
// for collab.HTTPClient.
type fakeHTTP struct {
	get  map[string][]byte
	post map[string][]byte
}

func (f *fakeHTTP) Get(_ context.Context, url string, _ time.Duration) ([]byte, error) {
	return f.get[url], nil
}

func (f *fakeHTTP) Post(_ context.Context, url string, _ []byte, _ string, _ time.Duration) ([]byte, error) {
	return f.post[url], nil
}

func encodeNodeBytes(n *timestamp.Node) []byte {
	w := wire.NewWriter()
	codec.EncodeNode(n, w)
	return w.Bytes()
}

func TestEngineStampAndVerifyDetachedPending(t *testing.T) {
	pendingNode := timestamp.NewNode()
	pendingNode.AddAttestation(attestation.Pending{URI: []byte("https://a.example/cal/x")})
	body := encodeNodeBytes(pendingNode)

	http := &fakeHTTP{
		post: map[string][]byte{"https://a.example/digest": body},
		get:  map[string][]byte{"https://a.example/cal/x": body},
	}
	cal := calendar.NewClient(http, calendar.SubmissionPolicy{
		Calendars:         []string{"https://a.example"},
		Strategy:          calendar.StrategyAll,
		RequestsPerSecond: 1000,
		Timeout:           time.Second,
	})

	engine := NewEngine()
	engine.RNG = collabtest.FixedRNG{Value: [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}}
	engine.Calendar = cal

	document := []byte("hello world")
	result, err := engine.Stamp(context.Background(), document)
	if err != nil {
		t.Fatalf("stamp: %v", err)
	}
	if len(result.Accepted) != 1 || result.Accepted[0].Err != nil {
		t.Fatalf("expected 1 accepted calendar, got %+v", result.Accepted)
	}

	vctx := verifier.NewContext()
	vctx.Calendar = cal
	vresult, err := VerifyDetached(context.Background(), vctx, document, result.Envelope)
	if err != nil {
		t.Fatalf("verify detached: %v", err)
	}
	if !vresult.CommitmentMatched {
		t.Fatal("expected commitment to match, it is derived fresh from the same nonce/document pair")
	}
	if len(vresult.Attestations) != 1 || vresult.Attestations[0].Verdict.Kind != attestation.KindPending {
		t.Fatalf("expected a single pending verdict, got %+v", vresult.Attestations)
	}
}

func TestEngineStampFailsWhenNoCalendarAccepts(t *testing.T) {
	http := &fakeHTTP{} // no responses registered, submitOne will fail to decode empty body
	cal := calendar.NewClient(http, calendar.SubmissionPolicy{
		Calendars:         []string{"https://a.example"},
		Strategy:          calendar.StrategyAll,
		RequestsPerSecond: 1000,
		Timeout:           time.Second,
	})

	engine := NewEngine()
	engine.RNG = collabtest.CryptoRNG{}
	engine.Calendar = cal

	if _, err := engine.Stamp(context.Background(), []byte("doc")); err == nil {
		t.Fatal("expected an error when every calendar submission fails")
	}
}

func TestEngineUpgradeResolvesPending(t *testing.T) {
	resolvedNode := timestamp.NewNode()
	resolvedNode.AddAttestation(attestation.BitcoinBlockHeader{Height: 800000})

	http := &fakeHTTP{get: map[string][]byte{
		"https://a.example/cal/x": encodeNodeBytes(resolvedNode),
	}}
	cal := calendar.NewClient(http, calendar.DefaultPolicy())

	engine := NewEngine()
	engine.Calendar = cal

	root := timestamp.NewNode()
	root.AddAttestation(attestation.Pending{URI: []byte("https://a.example/cal/x")})
	tree := &timestamp.Tree{RootMessage: []byte("commitment"), Root: root}

	result, err := engine.Upgrade(context.Background(), tree)
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if result.Found != 1 || result.Upgraded != 1 {
		t.Fatalf("expected 1 found and 1 upgraded, got %+v", result)
	}
	if !result.Any() {
		t.Fatal("expected Any() to report true once a pending leaf resolved")
	}
}

func TestEngineUpgradeStillOpen(t *testing.T) {
	pendingNode := timestamp.NewNode()
	pendingNode.AddAttestation(attestation.Pending{URI: []byte("https://a.example/cal/x")})

	http := &fakeHTTP{get: map[string][]byte{
		"https://a.example/cal/x": encodeNodeBytes(pendingNode),
	}}
	cal := calendar.NewClient(http, calendar.DefaultPolicy())

	engine := NewEngine()
	engine.Calendar = cal

	root := timestamp.NewNode()
	root.AddAttestation(attestation.Pending{URI: []byte("https://a.example/cal/x")})
	tree := &timestamp.Tree{RootMessage: []byte("commitment"), Root: root}

	result, err := engine.Upgrade(context.Background(), tree)
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if result.StillOpen != 1 || result.Any() {
		t.Fatalf("expected still-open with no upgrade, got %+v", result)
	}
}

func TestDescribeReportsPendingAndChains(t *testing.T) {
	root := timestamp.NewNode()
	root.AddAttestation(attestation.Pending{URI: []byte("https://a.example/cal/x")})
	root.AddAttestation(attestation.BitcoinBlockHeader{Height: 800000})

	nonce := [16]byte{1, 2, 3}
	document := []byte("doc")

	env := &codec.Envelope{Version: codec.VersionNonce, Nonce: nonce[:], Node: root}
	envelope := codec.EncodeEnvelope(env)

	info, err := Describe(envelope, document)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if len(info.PendingURIs) != 1 {
		t.Fatalf("expected 1 pending uri, got %v", info.PendingURIs)
	}
	if len(info.AttestedChains) != 1 || info.AttestedChains[0] != "bitcoin" {
		t.Fatalf("expected [bitcoin], got %v", info.AttestedChains)
	}
}

func TestDescribeWithoutDocumentOmitsSummary(t *testing.T) {
	root := timestamp.NewNode()
	env := &codec.Envelope{Version: codec.VersionLegacy, Node: root}
	envelope := codec.EncodeEnvelope(env)

	info, err := Describe(envelope, nil)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if info.HasNonce {
		t.Fatal("legacy version envelope should report HasNonce false")
	}
	if info.PendingURIs != nil || info.AttestedChains != nil {
		t.Fatalf("expected no summary without a document, got %+v", info)
	}
}
