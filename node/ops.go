// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/builtin/prover"
	"github.com/xiaodino/minimal-rollup/builtin/publication"
	"github.com/xiaodino/minimal-rollup/builtin/reverts"
	"github.com/xiaodino/minimal-rollup/rollup"
)

// Publish submits a publication for proposer through the inbox.
func (n *Node) Publish(ctx context.Context, proposer rollup.Address, attributes [][]byte, isDelayed bool, payment *big.Int) (*publication.Header, error) {
	var header *publication.Header
	err := n.Exec(ctx, func(c *Context) (err error) {
		header, err = c.Inbox.Publish(proposer, attributes, isDelayed, payment, c.Now, c.Height)
		return err
	})
	return header, err
}

// Deposit moves amount of account's native balance into the prover manager.
func (n *Node) Deposit(ctx context.Context, account rollup.Address, amount *big.Int) error {
	return n.Exec(ctx, func(c *Context) error {
		if amount.Sign() < 0 {
			return reverts.Errorf(prover.ErrInvalidAmount, "negative deposit %v", amount)
		}
		native, err := c.State.GetBalance(account)
		if err != nil {
			return err
		}
		if native.Cmp(amount) < 0 {
			return reverts.Errorf(prover.ErrInsufficientFunds, "native balance %v below deposit %v", native, amount)
		}
		if err := c.State.Transfer(account, c.Manager.Address(), amount); err != nil {
			return errors.Wrap(err, "deposit")
		}
		return c.Manager.Deposit(account, amount)
	})
}

// Withdraw pays amount of account's prover manager balance back to its native balance.
func (n *Node) Withdraw(ctx context.Context, account rollup.Address, amount *big.Int) error {
	return n.Exec(ctx, func(c *Context) error {
		return c.Manager.Withdraw(account, amount)
	})
}

func (n *Node) Bid(ctx context.Context, bidder rollup.Address, fee *big.Int) error {
	return n.Exec(ctx, func(c *Context) error {
		return c.Manager.Bid(bidder, fee, c.Now)
	})
}

func (n *Node) Exit(ctx context.Context, prover rollup.Address) error {
	return n.Exec(ctx, func(c *Context) error {
		return c.Manager.Exit(prover, c.Now)
	})
}

// EvictProver evicts the current prover, citing the stored publication id.
func (n *Node) EvictProver(ctx context.Context, evictor rollup.Address, publicationID uint64) error {
	return n.Exec(ctx, func(c *Context) error {
		header, err := c.Feed.GetHeader(publicationID)
		if err != nil {
			return err
		}
		return c.Manager.EvictProver(evictor, publicationID, header, c.Now)
	})
}

// Prove submits a proof by the period's own prover with headers taken from
// the feed. With settle set, the publication after end is cited to settle
// the period.
func (n *Node) Prove(ctx context.Context, caller rollup.Address, periodID uint64, start, end prover.Checkpoint, settle bool, proof []byte) error {
	return n.Exec(ctx, func(c *Context) error {
		startHeader, err := c.Feed.GetHeader(start.PublicationID)
		if err != nil {
			return err
		}
		endHeader, err := c.Feed.GetHeader(end.PublicationID)
		if err != nil {
			return err
		}
		var nextHeader *publication.Header
		if settle {
			if nextHeader, err = c.Feed.GetHeader(end.PublicationID + 1); err != nil {
				return err
			}
			if nextHeader == nil {
				return errors.Wrapf(prover.ErrInvalidPublication, "publication %d does not exist yet", end.PublicationID+1)
			}
		}
		return c.Manager.Prove(caller, periodID, start, end, startHeader, endHeader, nextHeader, proof, c.Now)
	})
}

// ProveAdverse settles a period on behalf of a failed prover with every
// header from start to end, plus the following one, taken from the feed.
func (n *Node) ProveAdverse(ctx context.Context, caller rollup.Address, periodID uint64, start, end prover.Checkpoint, proof []byte) error {
	return n.Exec(ctx, func(c *Context) error {
		if end.PublicationID < start.PublicationID {
			return errors.Wrap(prover.ErrInvalidPublication, "end before start")
		}
		next, err := c.Feed.NextPublicationID()
		if err != nil {
			return err
		}
		// the header after end must exist too
		if end.PublicationID >= next || next-end.PublicationID < 2 {
			return errors.Wrapf(prover.ErrInvalidPublication, "publication %d has no successor", end.PublicationID)
		}
		headers := make([]*publication.Header, 0, end.PublicationID-start.PublicationID+2)
		for id := start.PublicationID; id <= end.PublicationID+1; id++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, err := c.Feed.GetHeader(id)
			if err != nil {
				return err
			}
			if h == nil {
				return errors.Wrapf(prover.ErrInvalidPublication, "publication %d does not exist", id)
			}
			headers = append(headers, h)
		}
		nextHeader := headers[len(headers)-1]
		return c.Manager.ProveAdverse(caller, periodID, start, end, headers[:len(headers)-1], nextHeader, proof, c.Now)
	})
}
