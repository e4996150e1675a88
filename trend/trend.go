// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package trend fits a long-window linear trend channel over a
// company's close history and classifies where the current price sits
// relative to the channel's standard-deviation bands.
package trend

import (
	"math"
	"time"

	"github.com/chiachunli08/stock-analysis/data"
)

const (
	// MaxWindow is roughly five trading years of closes.
	MaxWindow = 1278

	// MinWindow is roughly one trading year; companies with a shorter
	// priced history are skipped rather than fitted badly.
	MinWindow = 252
)

// Band position labels, outermost first.
const (
	PositionPlus2  = "+2SD"
	PositionPlus1  = "+1SD"
	PositionTrend  = "TL"
	PositionMinus1 = "-1SD"
	PositionMinus2 = "-2SD"
)

// fit is an ordinary least-squares line over (ordinal, close) pairs.
type fit struct {
	slope     float64
	intercept float64
	sd        float64
	rSquared  float64
}

// olsFit regresses close against the trading-day ordinal 0..n-1.
// Calendar gaps between trading days carry no weight; only the order
// of observations matters. The residual spread is the population
// standard deviation.
func olsFit(closes []float64) fit {
	n := float64(len(closes))

	var sumX, sumY, sumXX, sumXY float64
	for i, y := range closes {
		x := float64(i)
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	meanX := sumX / n
	meanY := sumY / n

	slope := 0.0
	if denom := sumXX - n*meanX*meanX; denom != 0 {
		slope = (sumXY - n*meanX*meanY) / denom
	}
	intercept := meanY - slope*meanX

	var ssRes, ssTot float64
	for i, y := range closes {
		fitted := intercept + slope*float64(i)
		ssRes += (y - fitted) * (y - fitted)
		ssTot += (y - meanY) * (y - meanY)
	}

	rSquared := 0.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}

	return fit{
		slope:     slope,
		intercept: intercept,
		sd:        math.Sqrt(ssRes / n),
		rSquared:  rSquared,
	}
}

// Classify places a price relative to the channel bands. Upper bands
// are checked before lower and outer before inner, all inclusive, so a
// price exactly on a boundary lands in the outer band. A degenerate
// channel whose residual spread is zero up to float rounding is the
// trend line itself.
func Classify(price, trendLine, sd float64) string {
	if sd < 1e-9 {
		return PositionTrend
	}
	switch {
	case price >= trendLine+2*sd:
		return PositionPlus2
	case price >= trendLine+sd:
		return PositionPlus1
	case price <= trendLine-2*sd:
		return PositionMinus2
	case price <= trendLine-sd:
		return PositionMinus1
	default:
		return PositionTrend
	}
}

// Analyze fits the trend channel over an ascending close window and
// returns the calculation row, or nil when the history is too short.
// closes longer than MaxWindow keep only the newest MaxWindow points.
func Analyze(stockCode string, closes []float64, calculationDate time.Time) *data.Trend {
	if len(closes) < MinWindow {
		return nil
	}
	if len(closes) > MaxWindow {
		closes = closes[len(closes)-MaxWindow:]
	}

	line := olsFit(closes)

	last := float64(len(closes) - 1)
	trendLine := line.intercept + line.slope*last
	currentPrice := closes[len(closes)-1]

	return &data.Trend{
		StockCode:       stockCode,
		CalculationDate: calculationDate,
		PeriodDays:      len(closes),
		TrendLine:       trendLine,
		SDPlus2:         trendLine + 2*line.sd,
		SDPlus1:         trendLine + line.sd,
		SDMinus1:        trendLine - line.sd,
		SDMinus2:        trendLine - 2*line.sd,
		CurrentPrice:    currentPrice,
		Position:        Classify(currentPrice, trendLine, line.sd),
		RSquared:        line.rSquared,
	}
}
