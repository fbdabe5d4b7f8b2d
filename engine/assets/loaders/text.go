package loaders

import (
	"os"
	"path/filepath"

	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

type TextLoader struct{}

func (tl *TextLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     metadata.ResourceTypeText,
		DataSize: uint64(len(data)),
		Data:     string(data),
	}, nil
}

func (tl *TextLoader) Unload(r *metadata.Resource) error {
	r.Data = nil
	return nil
}
