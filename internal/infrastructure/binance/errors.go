package binance

import "errors"

var (
	errNonPositivePrice = errors.New("price must be positive")
	errNonFiniteAmount  = errors.New("amount is not finite")
)
