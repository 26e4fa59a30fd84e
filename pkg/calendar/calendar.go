// Copyright 2025 Certen Protocol
//
// Calendar submission/upgrade protocol (spec §4.6): submits a leaf
// digest to one or more remote calendars and later polls them for the
// concrete attestation that replaces a Pending placeholder.

package calendar

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/certen/ots-engine/pkg/codec"
	"github.com/certen/ots-engine/pkg/collab"
	"github.com/certen/ots-engine/pkg/timestamp"
	"github.com/certen/ots-engine/pkg/wire"
)

// Strategy selects how many calendar responses a Submit call requires
// before it returns successfully (spec §4.6).
type Strategy string

const (
	// StrategyAll requires every configured calendar to accept the
	// digest.
	StrategyAll Strategy = "all"
	// StrategyQuorum requires more than half.
	StrategyQuorum Strategy = "quorum"
	// StrategyFirstSuccess requires one calendar to accept.
	StrategyFirstSuccess Strategy = "first_success"
)

// SubmissionPolicy is a small, yaml-tagged policy struct (spec §5's
// configuration style): the calendar set, the acceptance strategy, and
// per-calendar throttling.
type SubmissionPolicy struct {
	Calendars []string `yaml:"calendars"`
	Strategy  Strategy `yaml:"strategy"`
	// MinSuccessful overrides the number of calendar acceptances
	// Strategy requires before Submit succeeds (spec §4.6's
	// `quorum(N)` notation, §5's configurable minimum-successful
	// threshold). Zero falls back to Strategy's own default: all
	// calendars for StrategyAll, one for StrategyFirstSuccess, more
	// than half for StrategyQuorum.
	MinSuccessful     int           `yaml:"min_successful"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
}

// DefaultPolicy mirrors the OpenTimestamps public calendar pool's
// conventional "quorum of well-known calendars" default.
func DefaultPolicy() SubmissionPolicy {
	return SubmissionPolicy{
		Calendars: []string{
			"https://alice.btc.calendar.opentimestamps.org",
			"https://bob.btc.calendar.opentimestamps.org",
			"https://finney.calendar.eternitywall.com",
		},
		Strategy:          StrategyQuorum,
		RequestsPerSecond: 5,
		Timeout:           15 * time.Second,
	}
}

// Client submits digests to, and polls upgrades from, a calendar pool.
type Client struct {
	HTTP    collab.HTTPClient
	Policy  SubmissionPolicy
	Logger  *log.Logger
	limiter *rate.Limiter
	once    sync.Once
}

// NewClient returns a Client with the given HTTP collaborator and
// policy.
func NewClient(http collab.HTTPClient, policy SubmissionPolicy) *Client {
	return &Client{
		HTTP:   http,
		Policy: policy,
		Logger: log.New(os.Stderr, "[calendar] ", log.LstdFlags),
	}
}

func (c *Client) rateLimiter() *rate.Limiter {
	c.once.Do(func() {
		rps := c.Policy.RequestsPerSecond
		if rps <= 0 {
			rps = 5
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	})
	return c.limiter
}

// SubmissionResult is one calendar's response to a Submit call.
type SubmissionResult struct {
	Calendar string
	Node     *timestamp.Node // nil on failure
	Err      error
}

// Submit posts digest to every configured calendar in parallel
// (bounded by the policy's rate limiter), each request independently
// timed out, waits for every request to finish, and then checks
// Policy.Strategy's acceptance condition; it does not return early
// once that condition is met. The returned results include every
// calendar's outcome, not
// just the ones that satisfied the strategy, so callers can log
// stragglers. The batch is tagged with a correlation ID so a single
// submission's log lines can be grepped together across calendars.
func (c *Client) Submit(ctx context.Context, digest []byte) ([]SubmissionResult, error) {
	if len(c.Policy.Calendars) == 0 {
		return nil, fmt.Errorf("calendar: no calendars configured")
	}

	batchID := uuid.NewString()
	results := make([]SubmissionResult, len(c.Policy.Calendars))
	g, gctx := errgroup.WithContext(ctx)

	var (
		mu        sync.Mutex
		successes int
	)
	required := requiredSuccesses(c.Policy, len(c.Policy.Calendars))

	for i, cal := range c.Policy.Calendars {
		i, cal := i, cal
		g.Go(func() error {
			if err := c.rateLimiter().Wait(gctx); err != nil {
				results[i] = SubmissionResult{Calendar: cal, Err: err}
				return nil
			}
			node, err := c.submitOne(gctx, cal, digest)
			results[i] = SubmissionResult{Calendar: cal, Node: node, Err: err}
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				c.Logger.Printf("[%s] submit to %s failed: %v", batchID, cal, err)
			}
			return nil
		})
	}
	_ = g.Wait() // the goroutines never return a non-nil error, failures are recorded per-result

	mu.Lock()
	ok := successes >= required
	mu.Unlock()
	if !ok {
		return results, fmt.Errorf("calendar: batch %s: only %d/%d calendars accepted the digest, strategy %s required %d",
			batchID, successes, len(c.Policy.Calendars), c.Policy.Strategy, required)
	}
	return results, nil
}

func requiredSuccesses(p SubmissionPolicy, n int) int {
	if p.MinSuccessful > 0 {
		return p.MinSuccessful
	}
	switch p.Strategy {
	case StrategyAll:
		return n
	case StrategyFirstSuccess:
		return 1
	case StrategyQuorum:
		return n/2 + 1
	default:
		return n/2 + 1
	}
}

func (c *Client) submitOne(ctx context.Context, calendarURL string, digest []byte) (*timestamp.Node, error) {
	url := calendarURL + "/digest"
	resp, err := c.HTTP.Post(ctx, url, digest, "application/x-opentimestamps", c.Policy.Timeout)
	if err != nil {
		return nil, fmt.Errorf("calendar: post to %s: %w", calendarURL, err)
	}
	node, err := codec.DecodeNode(wire.NewReader(resp))
	if err != nil {
		return nil, fmt.Errorf("calendar: decode response from %s: %w", calendarURL, err)
	}
	return node, nil
}

// Upgrade polls uri for the subtree replacing a Pending attestation
// (spec §4.6's upgrade protocol). It returns the decoded node and
// whether it is itself still pending (the calendar hasn't produced a
// concrete attestation yet).
func (c *Client) Upgrade(ctx context.Context, uri string) (node *timestamp.Node, stillPending bool, err error) {
	requestID := uuid.NewString()
	body, err := c.HTTP.Get(ctx, uri, c.Policy.Timeout)
	if err != nil {
		return nil, false, fmt.Errorf("calendar: upgrade %s: get %s: %w", requestID, uri, err)
	}
	node, err = codec.DecodeNode(wire.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("calendar: upgrade %s: decode response from %s: %w", requestID, uri, err)
	}
	if node.StillPending() {
		return node, true, nil
	}
	return node, false, nil
}

// DigestHex renders a digest for logging, matching the teacher's
// convention of hex-encoding binary identifiers in log lines.
func DigestHex(digest []byte) string {
	return hex.EncodeToString(digest)
}
