// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"encoding/binary"
	"math"

	"github.com/mapprotocol/ori/ori"
	"github.com/pkg/errors"
)

// ValidatorSet is the ordered roster of an epoch, valid for heights [from, to].
// It's immutable.
type ValidatorSet struct {
	from, to   uint64
	validators []Validator
	total      uint64
	indices    map[ori.Address]uint32
}

// NewValidatorSet creates a validator set covering heights [from, to].
// Validator order is kept, the position in the slice is the validator index.
func NewValidatorSet(from, to uint64, validators []Validator) (*ValidatorSet, error) {
	if from > to {
		return nil, errors.Errorf("invalid epoch range [%d, %d]", from, to)
	}
	if len(validators) == 0 {
		return nil, errors.New("empty validator set")
	}
	if uint64(len(validators)) > math.MaxUint32 {
		return nil, errors.New("too many validators")
	}

	set := &ValidatorSet{
		from:       from,
		to:         to,
		validators: make([]Validator, 0, len(validators)),
		indices:    make(map[ori.Address]uint32, len(validators)),
	}
	for i, v := range validators {
		v.PubKey = append([]byte(nil), v.PubKey...)
		if err := v.check(); err != nil {
			return nil, errors.WithMessagef(err, "validator #%d", i)
		}
		if _, dup := set.indices[v.Address]; dup {
			return nil, errors.Errorf("duplicated validator %v", v.Address)
		}
		if set.total > math.MaxUint64-v.Weight {
			return nil, errors.New("total weight overflow")
		}
		set.total += v.Weight
		set.indices[v.Address] = uint32(i)
		set.validators = append(set.validators, v)
	}
	if set.total == 0 {
		return nil, errors.New("zero total weight")
	}
	return set, nil
}

// From returns the first height of the epoch.
func (s *ValidatorSet) From() uint64 { return s.from }

// To returns the last height of the epoch.
func (s *ValidatorSet) To() uint64 { return s.to }

// Contains returns whether the height falls in the epoch.
func (s *ValidatorSet) Contains(height uint64) bool {
	return height >= s.from && height <= s.to
}

// Len returns count of validators.
func (s *ValidatorSet) Len() int { return len(s.validators) }

// TotalWeight returns sum of all stake weights.
func (s *ValidatorSet) TotalWeight() uint64 { return s.total }

// Validator returns the validator at index.
func (s *ValidatorSet) Validator(index uint32) (Validator, bool) {
	if int(index) >= len(s.validators) {
		return Validator{}, false
	}
	v := s.validators[index]
	v.PubKey = append([]byte(nil), v.PubKey...)
	return v, true
}

// Validators returns a copy of the roster.
func (s *ValidatorSet) Validators() []Validator {
	cpy := make([]Validator, len(s.validators))
	for i := range s.validators {
		cpy[i], _ = s.Validator(uint32(i))
	}
	return cpy
}

// IsMember returns the index of the validator with the address.
func (s *ValidatorSet) IsMember(addr ori.Address) (uint32, bool) {
	index, ok := s.indices[addr]
	return index, ok
}

// QuorumThreshold returns the minimum stake, ceil(2/3 * total), a certificate must carry.
func (s *ValidatorSet) QuorumThreshold() uint64 {
	// ceil(2t/3) without overflowing 2t: 2*(t/3) + ceil(2*(t%3)/3), the latter equals t%3.
	return s.total/3*2 + s.total%3
}

// WeightOf sums weights of the distinct, valid indices.
func (s *ValidatorSet) WeightOf(indices []uint32) uint64 {
	seen := make(map[uint32]struct{}, len(indices))
	var sum uint64
	for _, i := range indices {
		if int(i) >= len(s.validators) {
			continue
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		sum += s.validators[i].Weight
	}
	return sum
}

// HasQuorum returns whether the distinct signers reach the quorum threshold.
func (s *ValidatorSet) HasQuorum(indices []uint32) bool {
	return s.WeightOf(indices) >= s.QuorumThreshold()
}

// LeaderFor returns the index of the leader proposing the block at height on top of parentHash.
func (s *ValidatorSet) LeaderFor(height uint64, parentHash ori.Bytes32) uint32 {
	return s.LeaderForRound(height, parentHash, 0)
}

// LeaderForRound is LeaderFor with the round number mixed into the entropy,
// so a failed round hands leadership to another pick.
func (s *ValidatorSet) LeaderForRound(height uint64, parentHash ori.Bytes32, round uint32) uint32 {
	var (
		num [8]byte
		rnd [4]byte
	)
	binary.BigEndian.PutUint64(num[:], height)
	binary.BigEndian.PutUint32(rnd[:], round)

	seed := ori.Blake2b(parentHash[:], num[:], rnd[:])
	target := binary.BigEndian.Uint64(seed[24:]) % s.total

	// cumulative weight walk, zero weight validators are never picked
	var acc uint64
	for i, v := range s.validators {
		acc += v.Weight
		if target < acc {
			return uint32(i)
		}
	}
	// unreachable, target < total
	panic("leader selection out of range")
}
