// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/mapprotocol/ori/block"
	"github.com/mapprotocol/ori/chain"
)

// verifyChain re-checks linkage, certificates and the tx index of every stored block.
func verifyChain(ctx context.Context, repo *chain.Repository, workers int, out io.Writer) error {
	head := repo.Head().Header().Height()
	if head == 0 {
		return nil
	}

	fmt.Fprintln(out, ">> Verifying chain <<")
	bar := pb.New64(int64(head)).
		Set64(0).
		SetMaxWidth(90)
	bar.Output = out
	bar.Start()
	defer func() { bar.NotPrint = true }()

	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for h := uint64(1); h <= head && gctx.Err() == nil; h++ {
		g.Go(func() error {
			if err := verifyBlock(repo, h, out); err != nil {
				return errors.WithMessagef(err, "block #%d", h)
			}
			bar.Add64(1)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	bar.Finish()
	return nil
}

func verifyBlock(repo *chain.Repository, height uint64, out io.Writer) error {
	blk, err := repo.GetByHeight(height)
	if err != nil {
		return err
	}
	parent, err := repo.GetByHeight(height - 1)
	if err != nil {
		return errors.WithMessage(err, "parent")
	}

	if err := chain.ValidateHeader(blk, parent.Header()); err != nil {
		return err
	}
	if err := chain.ValidateCertificate(blk, repo.Schedule().SetFor(height)); err != nil {
		return err
	}
	return verifyTxIndex(repo, blk, out)
}

func verifyTxIndex(repo *chain.Repository, blk *block.Block, out io.Writer) error {
	var (
		id       = blk.Header().ID()
		expected = make([]*chain.TxMeta, 0, len(blk.Transactions()))
		actual   = make([]*chain.TxMeta, 0, len(blk.Transactions()))
	)
	for i, trx := range blk.Transactions() {
		expected = append(expected, &chain.TxMeta{BlockHash: id, Height: blk.Header().Height(), Index: uint64(i)})

		meta, err := repo.GetTransactionMeta(trx.ID())
		if err != nil && !chain.IsNotFound(err) {
			return err
		}
		actual = append(actual, meta)
	}

	if !reflect.DeepEqual(expected, actual) {
		fmt.Fprintln(out, "\nDiff tx index")
		fmt.Fprintln(out, jsonDiff(expected, actual))
		return errors.New("incorrect tx index")
	}
	return nil
}

func jsonDiff(expected, actual any) string {
	e, _ := json.MarshalIndent(expected, "", "  ")
	a, _ := json.MarshalIndent(actual, "", "  ")
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(e)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	return diff
}
