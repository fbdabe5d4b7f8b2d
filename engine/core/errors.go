package core

import (
	"errors"
)

var (
	ErrSwapchainBooting            = errors.New("swapchain resized or recreated, booting")
	ErrSwapchainOutOfDate          = errors.New("swapchain is out of date")
	ErrNoSuitableDevice            = errors.New("no physical device satisfies the renderer requirements")
	ErrNoSuitableMemoryType        = errors.New("unable to find a suitable memory type")
	ErrUnsupportedLayoutTransition = errors.New("unsupported image layout transition")
	ErrValidationLayerMissing      = errors.New("required validation layer is missing")
	ErrMalformedMesh               = errors.New("malformed mesh file")
	ErrInvalidShaderBinary         = errors.New("invalid SPIR-V binary")
	ErrEmptyFill                   = errors.New("cannot fill a buffer with zero bytes")
	ErrShortFill                   = errors.New("fill data is shorter than the requested size")
	ErrTooManyLights               = errors.New("too many point lights")
	ErrInvalidConfig               = errors.New("invalid configuration")
	ErrUnknownAsset                = errors.New("unknown asset")
	ErrUnknown                     = errors.New("unknown")
)
