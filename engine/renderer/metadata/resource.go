package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Text resource type. */
	ResourceTypeText ResourceType = iota
	/** @brief Binary resource type. */
	ResourceTypeBinary
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief Shader resource type, a SPIR-V module. */
	ResourceTypeShader
	/** @brief Mesh resource type, an indexed triangle list. */
	ResourceTypeMesh
)

func (r ResourceType) String() string {
	switch r {
	case ResourceTypeText:
		return "text"
	case ResourceTypeBinary:
		return "binary"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeMesh:
		return "mesh"
	}
	return "unknown"
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	Type     ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data, *Mesh, *ImageData, *ShaderData or []byte. */
	Data interface{}
}

/** @brief Decoded RGBA8 pixels, rows top to bottom unless flipped on load. */
type ImageData struct {
	Width    uint32
	Height   uint32
	Channels uint8
	Pixels   []byte
}

/** @brief A compiled SPIR-V module. Code holds the raw bytes, Words the decoded stream. */
type ShaderData struct {
	Stage ShaderStage
	Code  []byte
	Words []uint32
}
