package i2cdec

import "errors"

var (
	ErrorInvalidAddress   = errors.New("Device address does not fit in 7 bits")
	ErrorNoFreshnessCheck = errors.New("Profile has no freshness check")
)
