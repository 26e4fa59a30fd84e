// Copyright 2025 Certen Protocol
//
// ots is the thin CLI collaborator spec §6 names: it parses
// `stamp | verify | upgrade | info | status | server` and the
// documented flags, wires the concrete collaborators (pkg/collab's
// httpclient/btcrpc backends, a crypto/rand nonce source) into
// pkg/stamp's library functions, and prints their structured result.
// Formatting here is deliberately minimal; it is not part of the core.
package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/certen/ots-engine/pkg/attestation"
	"github.com/certen/ots-engine/pkg/calendar"
	"github.com/certen/ots-engine/pkg/codec"
	"github.com/certen/ots-engine/pkg/collab/btcrpc"
	"github.com/certen/ots-engine/pkg/collab/httpclient"
	"github.com/certen/ots-engine/pkg/stamp"
	"github.com/certen/ots-engine/pkg/verifier"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitNoUpgrade = 2

	envBitcoinRPC      = "OTS_BITCOIN_RPC"
	envBitcoinUser     = "OTS_BITCOIN_RPC_USER"
	envBitcoinPass     = "OTS_BITCOIN_RPC_PASS"
	envEthereumRPC     = "OTS_ETHEREUM_RPC"
	envBitcoinXplorer  = "OTS_BITCOIN_EXPLORER"
	envLitecoinXplorer = "OTS_LITECOIN_EXPLORER"
)

func main() {
	logger := log.New(os.Stderr, "[ots] ", log.LstdFlags)
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitFailure)
	}

	var err error
	code := exitOK
	switch os.Args[1] {
	case "stamp":
		err = runStamp(logger, os.Args[2:])
	case "verify":
		err = runVerify(logger, os.Args[2:])
	case "upgrade":
		code, err = runUpgrade(logger, os.Args[2:])
	case "info", "status":
		err = runInfo(logger, os.Args[2:])
	case "server":
		err = fmt.Errorf("server mode is a calendar-side collaborator, not part of this engine's core")
	default:
		usage()
		os.Exit(exitFailure)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if code == exitOK {
			code = exitFailure
		}
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ots <stamp|verify|upgrade|info|status|server> [flags]")
}

// flagSet returns a FlagSet bound to the documented short flags (spec
// §6): -o output file, -w detached ots file ("with"), -a attached
// file mode, -c comma-separated calendar URLs, -t per-request timeout,
// -v verbose logging, -j JSON output, -f input file.
func flagSet(name string) (*flag.FlagSet, *string, *string, *bool, *string, *time.Duration, *bool, *bool, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	output := fs.String("o", "", "output file")
	withFile := fs.String("w", "", "detached .ots file")
	attached := fs.Bool("a", false, "treat -f as an attached timestamp file")
	calendars := fs.String("c", "", "comma-separated calendar URLs (default: well-known pool)")
	timeout := fs.Duration("t", 15*time.Second, "per-request timeout")
	verbose := fs.Bool("v", false, "verbose logging")
	jsonOut := fs.Bool("j", false, "JSON output")
	inputFile := fs.String("f", "", "input file")
	return fs, output, withFile, attached, calendars, timeout, verbose, jsonOut, inputFile
}

func runStamp(logger *log.Logger, args []string) error {
	fs, output, _, _, calendars, timeout, verbose, _, inputFile := flagSet("stamp")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inputFile == "" {
		return fmt.Errorf("stamp: -f <document> is required")
	}
	document, err := os.ReadFile(*inputFile)
	if err != nil {
		return fmt.Errorf("stamp: read %s: %w", *inputFile, err)
	}

	policy := calendar.DefaultPolicy()
	policy.Timeout = *timeout
	if *calendars != "" {
		policy.Calendars = strings.Split(*calendars, ",")
	}

	engine := stamp.NewEngine()
	engine.RNG = cryptoRNG{}
	engine.Calendar = calendar.NewClient(httpclient.New(), policy)
	if *verbose {
		engine.Logger = logger
	}

	result, err := engine.Stamp(context.Background(), document)
	if err != nil {
		return fmt.Errorf("stamp: %w", err)
	}

	out := *output
	if out == "" {
		out = *inputFile + ".ots"
	}
	if err := os.WriteFile(out, result.Envelope, 0o644); err != nil {
		return fmt.Errorf("stamp: write %s: %w", out, err)
	}
	fmt.Printf("wrote %s (%d/%d calendars accepted)\n", out, countAccepted(result.Accepted), len(result.Accepted))
	return nil
}

func countAccepted(results []calendar.SubmissionResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

func runVerify(logger *log.Logger, args []string) error {
	fs, _, withFile, attached, calendars, timeout, verbose, jsonOut, inputFile := flagSet("verify")
	if err := fs.Parse(args); err != nil {
		return err
	}

	vctx := newVerifierContext(*timeout, *calendars, logger, *verbose)

	var result *verifier.Result
	var err error
	switch {
	case *attached:
		if *inputFile == "" {
			return fmt.Errorf("verify: -f <attached-file> is required with -a")
		}
		data, readErr := os.ReadFile(*inputFile)
		if readErr != nil {
			return fmt.Errorf("verify: read %s: %w", *inputFile, readErr)
		}
		result, err = stamp.VerifyAttached(context.Background(), vctx, data)
	default:
		if *inputFile == "" || *withFile == "" {
			return fmt.Errorf("verify: -f <document> and -w <ots-file> are required")
		}
		document, readErr := os.ReadFile(*inputFile)
		if readErr != nil {
			return fmt.Errorf("verify: read %s: %w", *inputFile, readErr)
		}
		envelope, readErr := os.ReadFile(*withFile)
		if readErr != nil {
			return fmt.Errorf("verify: read %s: %w", *withFile, readErr)
		}
		result, err = stamp.VerifyDetached(context.Background(), vctx, document, envelope)
	}
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	if *jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printVerifyResult(result)
	}
	if !result.Consensus.OverallValid {
		return fmt.Errorf("verify: timestamp did not validate")
	}
	return nil
}

func printVerifyResult(r *verifier.Result) {
	if !r.CommitmentMatched {
		fmt.Println("CommitmentMismatch: document does not match this timestamp")
		return
	}
	for _, a := range r.Attestations {
		fmt.Printf("%-10s %s\n", kindName(a.Attestation), a.Verdict.Kind)
	}
	fmt.Printf("score=%.2f level=%s consistency=%s overall_valid=%v\n",
		r.Consensus.Score, r.Consensus.Level, r.Consistency, r.Consensus.OverallValid)
}

func kindName(a attestation.Attestation) string {
	switch a.(type) {
	case attestation.BitcoinBlockHeader:
		return "bitcoin"
	case attestation.LitecoinBlockHeader:
		return "litecoin"
	case attestation.Ethereum:
		return "ethereum"
	case attestation.Pending:
		return "pending"
	default:
		return "unknown"
	}
}

func runUpgrade(logger *log.Logger, args []string) (int, error) {
	fs, output, withFile, _, calendars, timeout, verbose, _, inputFile := flagSet("upgrade")
	if err := fs.Parse(args); err != nil {
		return exitFailure, err
	}
	if *withFile == "" || *inputFile == "" {
		return exitFailure, fmt.Errorf("upgrade: -w <ots-file> and -f <document> are required")
	}
	envelopeBytes, err := os.ReadFile(*withFile)
	if err != nil {
		return exitFailure, fmt.Errorf("upgrade: read %s: %w", *withFile, err)
	}
	document, err := os.ReadFile(*inputFile)
	if err != nil {
		return exitFailure, fmt.Errorf("upgrade: read %s: %w", *inputFile, err)
	}
	env, err := codec.DecodeEnvelope(envelopeBytes)
	if err != nil {
		return exitFailure, fmt.Errorf("upgrade: decode %s: %w", *withFile, err)
	}
	tree, _, err := stamp.DecodeTree(envelopeBytes, document)
	if err != nil {
		return exitFailure, fmt.Errorf("upgrade: %w", err)
	}

	policy := calendar.DefaultPolicy()
	policy.Timeout = *timeout
	if *calendars != "" {
		policy.Calendars = strings.Split(*calendars, ",")
	}
	engine := stamp.NewEngine()
	engine.Calendar = calendar.NewClient(httpclient.New(), policy)
	if *verbose {
		engine.Logger = logger
	}

	result, err := engine.Upgrade(context.Background(), tree)
	if err != nil {
		return exitFailure, fmt.Errorf("upgrade: %w", err)
	}

	fmt.Printf("found=%d upgraded=%d still_open=%d failed=%d\n",
		result.Found, result.Upgraded, result.StillOpen, result.Failed)
	if !result.Any() {
		return exitNoUpgrade, nil
	}

	out := *output
	if out == "" {
		out = *withFile
	}
	env.Node = tree.Root
	if err := os.WriteFile(out, codec.EncodeEnvelope(env), 0o644); err != nil {
		return exitFailure, fmt.Errorf("upgrade: write %s: %w", out, err)
	}
	return exitOK, nil
}

func runInfo(logger *log.Logger, args []string) error {
	fs, _, withFile, _, _, _, _, jsonOut, inputFile := flagSet("info")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *withFile == "" {
		return fmt.Errorf("info: -w <ots-file> is required")
	}
	envelope, err := os.ReadFile(*withFile)
	if err != nil {
		return fmt.Errorf("info: read %s: %w", *withFile, err)
	}

	var document []byte
	if *inputFile != "" {
		document, err = os.ReadFile(*inputFile)
		if err != nil {
			return fmt.Errorf("info: read %s: %w", *inputFile, err)
		}
	}

	result, err := stamp.Describe(envelope, document)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	if *jsonOut {
		return printJSON(result)
	}
	fmt.Printf("version=0x%02x has_nonce=%v\n", result.Version, result.HasNonce)
	if len(result.PendingURIs) > 0 {
		fmt.Printf("pending: %s\n", strings.Join(result.PendingURIs, ", "))
	}
	if len(result.AttestedChains) > 0 {
		fmt.Printf("attested: %s\n", strings.Join(result.AttestedChains, ", "))
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVerifierContext(timeout time.Duration, calendarsFlag string, logger *log.Logger, verbose bool) *verifier.Context {
	vctx := verifier.NewContext()
	vctx.RequestTimeout = timeout
	vctx.HTTP = httpclient.New()
	vctx.Clock = systemClock{}
	vctx.BitcoinExplorerURL = os.Getenv(envBitcoinXplorer)
	vctx.LitecoinExplorerURL = os.Getenv(envLitecoinXplorer)
	vctx.EthereumRPCURL = os.Getenv(envEthereumRPC)
	if verbose {
		vctx.Logger = logger
	}

	if host := os.Getenv(envBitcoinRPC); host != "" {
		client, err := btcrpc.Dial(btcrpc.Config{
			Host: host,
			User: os.Getenv(envBitcoinUser),
			Pass: os.Getenv(envBitcoinPass),
		})
		if err != nil {
			logger.Printf("bitcoin rpc unavailable, falling back to explorer only: %v", err)
		} else {
			vctx.BTCRPC = client
		}
	}

	policy := calendar.DefaultPolicy()
	policy.Timeout = timeout
	if calendarsFlag != "" {
		policy.Calendars = strings.Split(calendarsFlag, ",")
	}
	vctx.Calendar = calendar.NewClient(httpclient.New(), policy)
	return vctx
}

// cryptoRNG is the production collab.RNG backend: a thin crypto/rand
// wrapper, wired here rather than in pkg/collab since concrete
// collaborator backends live at the edge (spec §1).
type cryptoRNG struct{}

func (cryptoRNG) RandomBytes16() ([16]byte, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return b, fmt.Errorf("ots: read random bytes: %w", err)
	}
	return b, nil
}

// systemClock is the production collab.Clock backend, wired here for
// the same reason cryptoRNG is: concrete collaborator backends live
// at the edge, not in pkg/collab.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
