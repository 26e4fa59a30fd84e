// Copyright 2025 Certen Protocol

package stamp

import (
	"context"
	"fmt"

	"github.com/certen/ots-engine/pkg/codec"
	"github.com/certen/ots-engine/pkg/timestamp"
	"github.com/certen/ots-engine/pkg/verifier"
)

// VerifyDetached decodes envelope, recomputes document's commitment
// from the envelope's nonce, and verifies the resulting tree. The
// commitment is derived fresh from the same (nonce, document) pair the
// envelope was built from, so this entry point can never trigger a
// CommitmentMismatch — that check belongs to VerifyTree, the one entry
// point taking an explicit, independently-known expected commitment
// (spec §8 property 12, scenario S6).
func VerifyDetached(ctx context.Context, vctx *verifier.Context, document []byte, envelope []byte) (*verifier.Result, error) {
	tree, commitment, err := DecodeTree(envelope, document)
	if err != nil {
		return nil, err
	}
	return vctx.VerifyAll(ctx, tree, commitment)
}

// DecodeTree decodes envelope and rebuilds the in-memory tree rooted
// at document's recomputed commitment, for callers (the CLI's
// upgrade/info commands) that need the tree itself rather than a
// verify verdict.
func DecodeTree(envelope []byte, document []byte) (*timestamp.Tree, []byte, error) {
	env, err := codec.DecodeEnvelope(envelope)
	if err != nil {
		return nil, nil, fmt.Errorf("stamp: decode envelope: %w", err)
	}
	commitment := recomputeCommitment(env, document)
	return &timestamp.Tree{RootMessage: commitment, Root: env.Node}, commitment, nil
}

// VerifyTree verifies an in-memory tree against an independently-known
// expected commitment, short-circuiting with CommitmentMatched == false
// before any network call if they disagree (spec §8 property 12).
func VerifyTree(ctx context.Context, vctx *verifier.Context, tree *timestamp.Tree, commitment []byte) (*verifier.Result, error) {
	return vctx.VerifyAll(ctx, tree, commitment)
}

// VerifyAttached splits document and envelope out of an attached
// timestamp file's bytes and verifies them.
func VerifyAttached(ctx context.Context, vctx *verifier.Context, attachedFile []byte) (*verifier.Result, error) {
	document, env, err := codec.SplitAttached(attachedFile)
	if err != nil {
		return nil, fmt.Errorf("stamp: split attached file: %w", err)
	}
	return VerifyDetached(ctx, vctx, document, codec.EncodeEnvelope(env))
}
