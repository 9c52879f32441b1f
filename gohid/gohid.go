package gohid

// Device is the transfer surface a HID bridge driver needs. Write and
// Read move whole reports, with the report number prepended to written
// data (zero for devices using unnumbered reports).
type Device interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

func OpenHID(path string) (Device, error) {
	return openHIDInternal(path)
}
