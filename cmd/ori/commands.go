// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/mapprotocol/ori/cry"
)

func keygenAction(ctx *cli.Context) error {
	key, err := cry.GenerateKey()
	if err != nil {
		return err
	}
	fmt.Printf("key:     %v\naddress: %v\npubkey:  %v\n",
		cry.KeyToHex(key),
		cry.PubkeyToAddress(&key.PublicKey),
		hexutil.Encode(cry.CompressPubkey(&key.PublicKey)))
	return nil
}

func accountAction(ctx *cli.Context) error {
	key := loadMasterKey(ctx)
	fmt.Printf("address: %v\npubkey:  %v\n",
		cry.PubkeyToAddress(&key.PublicKey),
		hexutil.Encode(cry.CompressPubkey(&key.PublicKey)))
	return nil
}

func cleanAction(ctx *cli.Context) error {
	initLogger(ctx)

	gene := selectGenesis(ctx, loadMasterKey(ctx))
	dir := instanceDir(makeDataDir(ctx), gene)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			logger.Info("nothing to clean", "dir", dir)
			return nil
		}
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "remove instance dir [%v]", dir)
	}
	logger.Info("instance removed", "network", gene.Name(), "dir", dir)
	return nil
}

func verifyAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	initLogger(ctx)

	gene := selectGenesis(ctx, loadMasterKey(ctx))
	dir := instanceDir(makeDataDir(ctx), gene)
	if _, err := os.Stat(dir); err != nil {
		return errors.Wrapf(err, "open instance dir [%v]", dir)
	}

	mainDB := openMainDB(ctx, dir)
	defer mainDB.Close()

	repo, _ := initChain(gene, mainDB)
	if err := verifyChain(exitSignal, repo, ctx.Int(verifyWorkersFlag.Name), os.Stdout); err != nil {
		return err
	}
	logger.Info("chain verified", "head", repo.Head().Header().Height())
	return nil
}
