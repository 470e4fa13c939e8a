package marketdata

import "errors"

// Error kinds from spec §7. Decoders never return these directly — they
// signal absence via a nil *PriceResult — but the surrounding components
// (Account Fetcher, Snapshot Cache, OHLCV engine) surface them where the
// spec calls for a caller-visible error rather than silent degradation.
var (
	ErrInvalidMint          = errors.New("marketdata: invalid mint")
	ErrAccountNotFound      = errors.New("marketdata: account not found")
	ErrDecodeSizeMismatch   = errors.New("marketdata: account data size mismatch")
	ErrDecodeMissingDecimals = errors.New("marketdata: token decimals unknown")
	ErrPriceOutOfRange      = errors.New("marketdata: price out of range")
	ErrRPC                  = errors.New("marketdata: rpc transport failure")
	ErrRateLimit            = errors.New("marketdata: rate limit denied")
	ErrCache                = errors.New("marketdata: cache error")
)
