// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package inbox

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xiaodino/minimal-rollup/builtin/prover"
	"github.com/xiaodino/minimal-rollup/builtin/publication"
	"github.com/xiaodino/minimal-rollup/builtin/reverts"
	"github.com/xiaodino/minimal-rollup/log"
	"github.com/xiaodino/minimal-rollup/rollup"
	"github.com/xiaodino/minimal-rollup/state"
)

var logger = log.WithContext("pkg", "inbox")

// ErrNoAttributes is returned for a publication without any attributes.
var ErrNoAttributes = reverts.New("publication has no attributes")

// Inbox is the entry point for proposers. Each publication is appended to the
// feed and paid for in one step.
type Inbox struct {
	addr    rollup.Address
	state   *state.State
	feed    *publication.Feed
	manager *prover.Manager
}

func New(addr rollup.Address, state *state.State, feed *publication.Feed, manager *prover.Manager) *Inbox {
	return &Inbox{
		addr:    addr,
		state:   state,
		feed:    feed,
		manager: manager,
	}
}

func (i *Inbox) Address() rollup.Address { return i.addr }

// Publish appends a publication for proposer and charges its fee. A non-zero
// payment is taken from the proposer's native balance and deposited to its
// prover manager balance before the fee is charged. Nothing is recorded if
// any step fails.
func (i *Inbox) Publish(
	proposer rollup.Address,
	attributes [][]byte,
	isDelayed bool,
	payment *big.Int,
	now, blockNumber uint64,
) (*publication.Header, error) {
	if len(attributes) == 0 {
		return nil, ErrNoAttributes
	}
	if payment == nil {
		payment = new(big.Int)
	}

	chk := i.state.NewCheckpoint()
	header, err := i.publish(proposer, attributes, isDelayed, payment, now, blockNumber)
	if err != nil {
		i.state.RevertTo(chk)
		return nil, err
	}
	logger.Debug("publication accepted", "id", header.ID, "proposer", proposer, "delayed", isDelayed)
	return header, nil
}

func (i *Inbox) publish(
	proposer rollup.Address,
	attributes [][]byte,
	isDelayed bool,
	payment *big.Int,
	now, blockNumber uint64,
) (*publication.Header, error) {
	if payment.Sign() > 0 {
		native, err := i.state.GetBalance(proposer)
		if err != nil {
			return nil, err
		}
		if native.Cmp(payment) < 0 {
			return nil, reverts.Errorf(prover.ErrInsufficientFunds, "native balance %v below payment %v", native, payment)
		}
		if err := i.state.Transfer(proposer, i.manager.Address(), payment); err != nil {
			return nil, errors.Wrap(err, "pay publication")
		}
	}
	header, err := i.feed.Publish(proposer, attributes, now, blockNumber)
	if err != nil {
		return nil, err
	}
	if err := i.manager.PayPublicationFee(i.addr, proposer, isDelayed, payment, now); err != nil {
		return nil, err
	}
	return header, nil
}
