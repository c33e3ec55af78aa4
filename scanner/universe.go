package scanner

// Built-in scan universes. Symbols carry the NSE suffix the market data
// provider expects.

var nifty50Symbols = []string{
	"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "ICICIBANK.NS", "INFY.NS",
	"HINDUNILVR.NS", "ITC.NS", "SBIN.NS", "BHARTIARTL.NS", "KOTAKBANK.NS",
	"LT.NS", "AXISBANK.NS", "ASIANPAINT.NS", "MARUTI.NS", "SUNPHARMA.NS",
	"TITAN.NS", "BAJFINANCE.NS", "WIPRO.NS", "ULTRACEMCO.NS", "NESTLEIND.NS",
	"ONGC.NS", "NTPC.NS", "POWERGRID.NS", "SHRIRAMFIN.NS", "TATAMOTORS.NS",
	"TATASTEEL.NS", "JSWSTEEL.NS", "ADANIENT.NS", "ADANIPORTS.NS", "COALINDIA.NS",
	"HCLTECH.NS", "TECHM.NS", "BAJAJFINSV.NS", "DRREDDY.NS", "CIPLA.NS",
	"DIVISLAB.NS", "GRASIM.NS", "HINDALCO.NS", "EICHERMOT.NS", "HEROMOTOCO.NS",
	"BAJAJ-AUTO.NS", "BRITANNIA.NS", "APOLLOHOSP.NS", "INDUSINDBK.NS", "SBILIFE.NS",
	"HDFCLIFE.NS", "TATACONSUM.NS", "BPCL.NS", "UPL.NS", "LTIM.NS",
}

var niftyNext50Symbols = []string{
	"DLF.NS", "SIEMENS.NS", "PIDILITIND.NS", "GODREJCP.NS", "AMBUJACEM.NS",
	"BANKBARODA.NS", "CANBK.NS", "CHOLAFIN.NS", "DABUR.NS", "GAIL.NS",
	"HAVELLS.NS", "ICICIPRULI.NS", "INDIGO.NS", "IOC.NS", "IRCTC.NS",
	"JINDALSTEL.NS", "LICI.NS", "MARICO.NS", "MOTHERSON.NS", "NAUKRI.NS",
	"PNB.NS", "RECLTD.NS", "SAIL.NS", "SRF.NS", "TATAPOWER.NS",
	"TORNTPHARM.NS", "TRENT.NS", "TVSMOTOR.NS", "VEDL.NS", "ZOMATO.NS",
	"ABB.NS", "ADANIGREEN.NS", "ADANIPOWER.NS", "ATGL.NS", "BAJAJHLDNG.NS",
	"BEL.NS", "BOSCHLTD.NS", "COLPAL.NS", "DMART.NS", "HAL.NS",
	"ICICIGI.NS", "LODHA.NS", "LUPIN.NS", "PFC.NS", "SHREECEM.NS",
	"UNITDSPR.NS", "VBL.NS", "YESBANK.NS", "ZYDUSLIFE.NS", "IDFCFIRSTB.NS",
}

// UniverseWatchlist is the universe name resolved through the watchlist
// store instead of a built-in symbol list.
const UniverseWatchlist = "watchlist"

// Universes returns the names of the built-in universes plus the watchlist.
func Universes() []string {
	return []string{"nifty50", "nifty100", UniverseWatchlist}
}

// builtinUniverse returns the symbol list for a built-in universe name.
func builtinUniverse(name string) ([]string, bool) {
	switch name {
	case "nifty50":
		return nifty50Symbols, true
	case "nifty100":
		symbols := make([]string, 0, len(nifty50Symbols)+len(niftyNext50Symbols))
		symbols = append(symbols, nifty50Symbols...)
		symbols = append(symbols, niftyNext50Symbols...)
		return symbols, true
	default:
		return nil, false
	}
}
