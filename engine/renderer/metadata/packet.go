package metadata

/** @brief Everything the renderer needs to draw one frame. */
type FramePacket struct {
	DeltaTime float64
	Uniforms  GeneralRenderUniforms
	Lights    Lights
	Skybox    SkyboxUniforms
}

/** @brief The long lived scene content uploaded once before the first frame. */
type SceneData struct {
	Mesh *Mesh
	/** @brief Equirectangular environment, nil when the skybox is disabled. */
	Environment *ImageData
}
