//go:build !opencl

package compute

import (
	"errors"
	"log/slog"
)

var ErrOpenCLDisabled = errors.New("compute: OpenCL support is not enabled; rebuild with -tags opencl")

func NewOpenCLDevice(_ *slog.Logger) (Device, error) {
	return nil, ErrOpenCLDisabled
}
