package constants

type AbandonmentReason string

const (
	AbandonOther           AbandonmentReason = "OTHER"
	AbandonCropFailure     AbandonmentReason = "CROP_FAILURE"
	AbandonLabourIssue     AbandonmentReason = "LABOUR_ISSUE"
	AbandonMarketProblem   AbandonmentReason = "MARKET_PROBLEM"
	AbandonWeather         AbandonmentReason = "WEATHER"
	AbandonMachineryIssue  AbandonmentReason = "MACHINERY_ISSUE"
	AbandonSchedulingIssue AbandonmentReason = "SCHEDULING_ISSUE"
)

func (r AbandonmentReason) Valid() bool {
	switch r {
	case AbandonOther, AbandonCropFailure, AbandonLabourIssue, AbandonMarketProblem,
		AbandonWeather, AbandonMachineryIssue, AbandonSchedulingIssue:
		return true
	}
	return false
}
