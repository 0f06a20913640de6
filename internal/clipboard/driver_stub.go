//go:build !cgo && !windows && !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

func openDriver() (driver, error) {
	return nil, ErrUnsupported
}
