package models

// Indicator names accepted by IndicatorSet.Lookup. These match the JSON
// field names of IndicatorSet.
const (
	IndSMA10            = "sma_10"
	IndSMA20            = "sma_20"
	IndSMA50            = "sma_50"
	IndSMA150           = "sma_150"
	IndSMA200           = "sma_200"
	IndEMA8             = "ema_8"
	IndEMA21            = "ema_21"
	IndMACD             = "macd"
	IndMACDSignal       = "macd_signal"
	IndMACDHistogram    = "macd_histogram"
	IndRSI14            = "rsi_14"
	IndStochK           = "stoch_k"
	IndStochD           = "stoch_d"
	IndBBUpper          = "bb_upper"
	IndBBMiddle         = "bb_middle"
	IndBBLower          = "bb_lower"
	IndBBWidth          = "bb_width"
	IndATR14            = "atr_14"
	IndADX14            = "adx_14"
	IndPlusDI           = "plus_di"
	IndMinusDI          = "minus_di"
	IndVolumeSMA20      = "volume_sma_20"
	IndVolumeSMA50      = "volume_sma_50"
	IndOBV              = "obv"
	IndOBVSMA           = "obv_sma"
	IndRelativeStrength = "relative_strength"
)

// IndicatorSet is the snapshot of indicator values for the most recent bar.
// Every field is optional: nil means the indicator could not be computed
// from the available history.
type IndicatorSet struct {
	SMA10  *float64 `json:"sma_10,omitempty"`
	SMA20  *float64 `json:"sma_20,omitempty"`
	SMA50  *float64 `json:"sma_50,omitempty"`
	SMA150 *float64 `json:"sma_150,omitempty"`
	SMA200 *float64 `json:"sma_200,omitempty"`

	EMA8  *float64 `json:"ema_8,omitempty"`
	EMA21 *float64 `json:"ema_21,omitempty"`

	MACD          *float64 `json:"macd,omitempty"`
	MACDSignal    *float64 `json:"macd_signal,omitempty"`
	MACDHistogram *float64 `json:"macd_histogram,omitempty"`

	RSI14  *float64 `json:"rsi_14,omitempty"`
	StochK *float64 `json:"stoch_k,omitempty"`
	StochD *float64 `json:"stoch_d,omitempty"`

	BBUpper  *float64 `json:"bb_upper,omitempty"`
	BBMiddle *float64 `json:"bb_middle,omitempty"`
	BBLower  *float64 `json:"bb_lower,omitempty"`
	BBWidth  *float64 `json:"bb_width,omitempty"`

	ATR14   *float64 `json:"atr_14,omitempty"`
	ADX14   *float64 `json:"adx_14,omitempty"`
	PlusDI  *float64 `json:"plus_di,omitempty"`
	MinusDI *float64 `json:"minus_di,omitempty"`

	VolumeSMA20 *float64 `json:"volume_sma_20,omitempty"`
	VolumeSMA50 *float64 `json:"volume_sma_50,omitempty"`
	OBV         *float64 `json:"obv,omitempty"`
	OBVSMA      *float64 `json:"obv_sma,omitempty"`

	RelativeStrength *float64 `json:"relative_strength,omitempty"`
}

// Lookup returns the named indicator value and whether it is present.
// This is the single accessor the strategy scorers use, so missing
// values are handled uniformly.
func (s *IndicatorSet) Lookup(name string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	var p *float64
	switch name {
	case IndSMA10:
		p = s.SMA10
	case IndSMA20:
		p = s.SMA20
	case IndSMA50:
		p = s.SMA50
	case IndSMA150:
		p = s.SMA150
	case IndSMA200:
		p = s.SMA200
	case IndEMA8:
		p = s.EMA8
	case IndEMA21:
		p = s.EMA21
	case IndMACD:
		p = s.MACD
	case IndMACDSignal:
		p = s.MACDSignal
	case IndMACDHistogram:
		p = s.MACDHistogram
	case IndRSI14:
		p = s.RSI14
	case IndStochK:
		p = s.StochK
	case IndStochD:
		p = s.StochD
	case IndBBUpper:
		p = s.BBUpper
	case IndBBMiddle:
		p = s.BBMiddle
	case IndBBLower:
		p = s.BBLower
	case IndBBWidth:
		p = s.BBWidth
	case IndATR14:
		p = s.ATR14
	case IndADX14:
		p = s.ADX14
	case IndPlusDI:
		p = s.PlusDI
	case IndMinusDI:
		p = s.MinusDI
	case IndVolumeSMA20:
		p = s.VolumeSMA20
	case IndVolumeSMA50:
		p = s.VolumeSMA50
	case IndOBV:
		p = s.OBV
	case IndOBVSMA:
		p = s.OBVSMA
	case IndRelativeStrength:
		p = s.RelativeStrength
	default:
		return 0, false
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Float64Ptr returns a pointer to v. Convenience for building indicator
// sets in tests and providers.
func Float64Ptr(v float64) *float64 {
	return &v
}
