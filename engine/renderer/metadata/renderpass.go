package metadata

import (
	"errors"
	"fmt"
)

/** @brief Index used by dependencies to reference work outside the render pass. */
const SubpassExternal = -1

/** @brief No depth attachment referenced by the subpass. */
const NoAttachment = -1

var ErrInvalidRenderPass = errors.New("invalid render pass description")

/** @brief Clear value of an attachment, colour or depth/stencil. */
type ClearValue struct {
	Color   [4]float32
	Depth   float32
	Stencil uint32
}

/** @brief Describes one attachment of a render pass. */
type AttachmentDescription struct {
	Name          string
	Format        Format
	Load          LoadOp
	Store         StoreOp
	StencilLoad   LoadOp
	StencilStore  StoreOp
	InitialLayout ImageLayout
	FinalLayout   ImageLayout
	Clear         ClearValue
}

/**
 * @brief The single subpass of a render pass. Color and Depth index into the
 * attachment list of the owning render pass.
 */
type SubpassDescription struct {
	Color         []int
	Depth         int
	DepthReadOnly bool
}

type SubpassDependency struct {
	Src       int
	Dst       int
	SrcStage  PipelineStage
	DstStage  PipelineStage
	SrcAccess Access
	DstAccess Access
	ByRegion  bool
}

/** @brief Static description of a render pass, translated by the backend once. */
type RenderPassDescription struct {
	Name         string
	Attachments  []AttachmentDescription
	Subpass      SubpassDescription
	Dependencies []SubpassDependency
}

// ClearValues returns one clear value per attachment, in attachment order.
func (r *RenderPassDescription) ClearValues() []ClearValue {
	values := make([]ClearValue, len(r.Attachments))
	for i, a := range r.Attachments {
		values[i] = a.Clear
	}
	return values
}

// AttachmentIndex returns the position of the named attachment or -1.
func (r *RenderPassDescription) AttachmentIndex(name string) int {
	for i, a := range r.Attachments {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// SubpassLayout returns the layout the subpass uses for attachment i.
func (r *RenderPassDescription) SubpassLayout(i int) ImageLayout {
	if i == r.Subpass.Depth {
		if r.Subpass.DepthReadOnly {
			return ImageLayoutDepthStencilReadOnly
		}
		return ImageLayoutDepthStencilAttachment
	}
	return ImageLayoutColorAttachment
}

func (r *RenderPassDescription) Validate() error {
	if len(r.Attachments) == 0 {
		return fmt.Errorf("%w: `%s` has no attachments", ErrInvalidRenderPass, r.Name)
	}
	for _, c := range r.Subpass.Color {
		if c < 0 || c >= len(r.Attachments) {
			return fmt.Errorf("%w: `%s` colour reference %d out of range", ErrInvalidRenderPass, r.Name, c)
		}
		if r.Attachments[c].Format.IsDepth() {
			return fmt.Errorf("%w: `%s` colour reference %d is a depth attachment", ErrInvalidRenderPass, r.Name, c)
		}
	}
	if d := r.Subpass.Depth; d != NoAttachment {
		if d < 0 || d >= len(r.Attachments) {
			return fmt.Errorf("%w: `%s` depth reference %d out of range", ErrInvalidRenderPass, r.Name, d)
		}
		if !r.Attachments[d].Format.IsDepth() {
			return fmt.Errorf("%w: `%s` depth reference %d is not a depth format", ErrInvalidRenderPass, r.Name, d)
		}
	}
	for i, a := range r.Attachments {
		if a.Format.IsDepth() && i != r.Subpass.Depth {
			return fmt.Errorf("%w: `%s` depth attachment `%s` is not referenced as depth", ErrInvalidRenderPass, r.Name, a.Name)
		}
		if a.Load == LoadOpLoad && a.InitialLayout == ImageLayoutUndefined {
			return fmt.Errorf("%w: `%s` attachment `%s` loads from an undefined layout", ErrInvalidRenderPass, r.Name, a.Name)
		}
	}
	for _, dep := range r.Dependencies {
		if dep.Src == SubpassExternal && dep.Dst == SubpassExternal {
			return fmt.Errorf("%w: `%s` dependency between two external scopes", ErrInvalidRenderPass, r.Name)
		}
	}
	return nil
}
