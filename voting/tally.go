// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"math"

	"github.com/gatednet/server/models"
)

// ComputeTally sums the option counts and derives each option's share of
// the total, rounded to two decimals. A poll with no votes yields 0% for
// every option.
func ComputeTally(pollID string, options []models.Option) models.Tally {
	total := 0
	for _, opt := range options {
		total += opt.VoteCount
	}

	tally := models.Tally{
		PollID:     pollID,
		TotalVotes: total,
		Options:    make([]models.OptionTally, len(options)),
	}
	for i, opt := range options {
		tally.Options[i] = models.OptionTally{
			Index:      opt.Index,
			Label:      opt.Label,
			VoteCount:  opt.VoteCount,
			Percentage: Percentage(opt.VoteCount, total),
		}
	}

	return tally
}

// Percentage returns count/total*100 rounded to two decimals, or 0 when
// total is not positive.
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)*10000/float64(total)) / 100
}
