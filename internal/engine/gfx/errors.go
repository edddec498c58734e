package gfx

import "errors"

var (
	// ErrDeviceLost means every GPU resource is gone and must be recreated.
	ErrDeviceLost = errors.New("gfx: device lost")

	// ErrResourceCreation wraps backend failures while creating a resource.
	ErrResourceCreation = errors.New("gfx: resource creation failed")
)
