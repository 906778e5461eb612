package pricing

import (
	"github.com/shopspring/decimal"
)

// Rates are IDR per day of ad placement.
const (
	RateShortSurvey  int64 = 150_000
	RateMediumSurvey int64 = 200_000
	RateLongSurvey   int64 = 300_000

	ShortSurveyMaxQuestions  = 15
	MediumSurveyMaxQuestions = 30
)

type CostInput struct {
	QuestionCount  int    `json:"questionCount" validate:"gte=0"`
	Duration       int    `json:"duration" validate:"gte=0"`
	WinnerCount    int    `json:"winnerCount" validate:"gte=0"`
	PrizePerWinner int64  `json:"prizePerWinner" validate:"gte=0"`
	VoucherCode    string `json:"voucherCode"`
}

type CostCalculation struct {
	RatePerDay     int64  `json:"ratePerDay"`
	AdCost         int64  `json:"adCost"`
	IncentiveCost  int64  `json:"incentiveCost"`
	Discount       int64  `json:"discount"`
	TotalCost      int64  `json:"totalCost"`
	VoucherCode    string `json:"voucherCode,omitempty"`
	VoucherPercent int64  `json:"voucherPercent,omitempty"`
	VoucherMessage string `json:"voucherMessage,omitempty"`
}

// RatePerDay maps a question count onto the daily ad rate.
func RatePerDay(questionCount int) int64 {
	switch {
	case questionCount <= 0:
		return 0
	case questionCount <= ShortSurveyMaxQuestions:
		return RateShortSurvey
	case questionCount <= MediumSurveyMaxQuestions:
		return RateMediumSurvey
	default:
		return RateLongSurvey
	}
}

func AdCost(questionCount, duration int) int64 {
	return RatePerDay(questionCount) * int64(nonNegative(duration))
}

func IncentiveCost(winnerCount int, prizePerWinner int64) int64 {
	if prizePerWinner < 0 {
		prizePerWinner = 0
	}
	return int64(nonNegative(winnerCount)) * prizePerWinner
}

// VoucherDiscount is the whole-rupiah discount a code grants on adCost; unknown codes give 0.
func VoucherDiscount(code string, adCost int64) int64 {
	voucher, ok := LookupVoucher(code)
	if !ok || adCost <= 0 {
		return 0
	}
	return voucher.Discount(adCost)
}

// Calculate never fails: callers clamp inputs, negative values count as zero.
func Calculate(in CostInput) CostCalculation {
	rate := RatePerDay(in.QuestionCount)
	adCost := AdCost(in.QuestionCount, in.Duration)
	incentive := IncentiveCost(in.WinnerCount, in.PrizePerWinner)

	calc := CostCalculation{
		RatePerDay:    rate,
		AdCost:        adCost,
		IncentiveCost: incentive,
	}

	if in.VoucherCode != "" {
		if voucher, ok := LookupVoucher(in.VoucherCode); ok {
			calc.VoucherCode = voucher.Code
			calc.VoucherPercent = voucher.Percent
			calc.VoucherMessage = voucher.Message
			calc.Discount = voucher.Discount(adCost)
		} else {
			calc.VoucherMessage = MessageUnknownVoucher
		}
	}

	calc.TotalCost = adCost + incentive - calc.Discount
	if calc.TotalCost < 0 {
		calc.TotalCost = 0
	}

	return calc
}

func (v Voucher) Discount(adCost int64) int64 {
	if adCost <= 0 {
		return 0
	}
	return decimal.NewFromInt(adCost).
		Mul(decimal.NewFromInt(v.Percent)).
		Div(decimal.NewFromInt(100)).
		Floor().
		IntPart()
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
