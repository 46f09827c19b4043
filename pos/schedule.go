// Copyright (c) 2026 The Ori developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pos

import (
	"math"
	"slices"
	"sort"

	"github.com/pkg/errors"
)

// Epoch declares the roster that takes effect from a height.
type Epoch struct {
	From       uint64
	Validators []Validator
}

// Schedule maps heights to validator sets. Epochs are contiguous and the last one is open ended.
type Schedule struct {
	sets []*ValidatorSet
}

// NewSchedule builds a schedule from epochs. The first epoch must start at height 0.
func NewSchedule(epochs []Epoch) (*Schedule, error) {
	if len(epochs) == 0 {
		return nil, errors.New("no epoch")
	}
	sorted := slices.Clone(epochs)
	slices.SortStableFunc(sorted, func(a, b Epoch) int {
		switch {
		case a.From < b.From:
			return -1
		case a.From > b.From:
			return 1
		}
		return 0
	})
	if sorted[0].From != 0 {
		return nil, errors.New("first epoch must start at height 0")
	}

	sets := make([]*ValidatorSet, 0, len(sorted))
	for i, e := range sorted {
		to := uint64(math.MaxUint64)
		if i+1 < len(sorted) {
			if sorted[i+1].From == e.From {
				return nil, errors.Errorf("duplicated epoch at height %d", e.From)
			}
			to = sorted[i+1].From - 1
		}
		set, err := NewValidatorSet(e.From, to, e.Validators)
		if err != nil {
			return nil, errors.WithMessagef(err, "epoch from %d", e.From)
		}
		sets = append(sets, set)
	}
	return &Schedule{sets}, nil
}

// SetFor returns the validator set whose range contains height.
func (s *Schedule) SetFor(height uint64) *ValidatorSet {
	i := sort.Search(len(s.sets), func(i int) bool {
		return s.sets[i].to >= height
	})
	// the last set is open ended, so i is always in range
	return s.sets[i]
}

// Sets returns all validator sets in height order.
func (s *Schedule) Sets() []*ValidatorSet {
	return slices.Clone(s.sets)
}
