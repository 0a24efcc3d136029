// Package throttle provides a token-bucket [Governor] that caps the rate of
// outbound requests.
//
// The pool starts full at capacity tokens. A background replenisher returns
// one token every period/capacity, never exceeding capacity, so bursts up to
// capacity go straight through and sustained traffic settles at
// capacity/period.
//
// # Usage
//
//	gov, err := throttle.New(10, time.Second, func() *slog.Logger { return slog.Default() })
//	if err != nil {
//		return err
//	}
//	defer gov.Close()
//
//	if err := gov.Acquire(ctx); err != nil {
//		return err
//	}
//	// issue the request
//
// Tokens are consumed, never handed back by callers. A caller that gives up
// waiting takes nothing from the pool.
package throttle
