package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/deferred/engine/assets/loaders"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

var ErrManagerClosed = errors.New("asset manager already started or closed")

type AssetInfo struct {
	// Name is the slash separated path relative to the assets directory.
	Name       string
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes every known file under the assets directory and keeps
// the index current through fsnotify. A write to an indexed file fires
// EVENT_CODE_ASSET_CHANGED from the watcher goroutine.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	started  bool
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	if am.isClosed || am.started {
		return ErrManagerClosed
	}
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.root = root

	am.registerLoader(metadata.ResourceTypeText, &loaders.TextLoader{})
	am.registerLoader(metadata.ResourceTypeBinary, &loaders.BinaryLoader{})
	am.registerLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})
	am.registerLoader(metadata.ResourceTypeMesh, &loaders.MeshLoader{})
	am.registerLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})

	if err := am.watchRecursive(root, false); err != nil {
		return err
	}
	am.started = true
	go am.start()

	core.LogInfo("indexed %d assets under %s", am.Len(), root)
	return nil
}

// Shutdown stops the watcher. Safe to call more than once.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	if !am.started {
		return am.fsnotify.Close()
	}
	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// AssetPath maps a logical name to its location under the assets directory.
func AssetPath(name string, resourceType metadata.ResourceType) string {
	switch resourceType {
	case metadata.ResourceTypeShader:
		return fmt.Sprintf("shaders/%s.spv", name)
	case metadata.ResourceTypeMesh:
		return fmt.Sprintf("meshes/%s.ply", name)
	case metadata.ResourceTypeImage:
		return fmt.Sprintf("textures/%s", name)
	default:
		return name
	}
}

// LoadAsset loads an indexed asset with the loader registered for its type.
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	key := AssetPath(name, resourceType)

	am.mutex.Lock()
	asset, exists := am.assets[key]
	if exists {
		asset.LastLoaded = time.Now()
		am.assets[key] = asset
	}
	am.mutex.Unlock()
	if !exists {
		err := fmt.Errorf("%w: %s", core.ErrUnknownAsset, key)
		core.LogError("%s", err)
		return nil, err
	}

	// binary and text loaders can read any file
	loader, loaderExists := am.loaders[resourceType]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}
	if resourceType != metadata.ResourceTypeBinary && resourceType != metadata.ResourceTypeText && resourceType != asset.Type {
		return nil, fmt.Errorf("%s is a %s asset, not %s", key, asset.Type, resourceType)
	}

	return loader.Load(asset.Path, resourceType, params)
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	loader, ok := am.loaders[asset.Type]
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}
	return loader.Unload(asset)
}

func (am *AssetManager) Asset(name string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	a, ok := am.assets[name]
	return a, ok
}

// Assets returns the index sorted by name.
func (am *AssetManager) Assets() []AssetInfo {
	am.mutex.RLock()
	out := make([]AssetInfo, 0, len(am.assets))
	for _, a := range am.assets {
		out = append(out, a)
	}
	am.mutex.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (am *AssetManager) Len() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if info, ok := am.handleFileEvent(e.Name); ok {
					core.LogDebug("asset changed: %s", info.Name)
					core.EventFire(core.EventContext{
						Type: core.EVENT_CODE_ASSET_CHANGED,
						Data: core.AssetEvent{Name: info.Name, Path: info.Path},
					})
				}
			}
			// a removed directory can't be stat'ed, dropping the watch is harmless either way
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found on the way.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// handleFileEvent indexes a created or modified file. It returns false for
// files of an unknown type.
func (am *AssetManager) handleFileEvent(path string) (AssetInfo, bool) {
	assetType, ok := determineAssetType(path)
	if !ok {
		return AssetInfo{}, false
	}
	name, err := filepath.Rel(am.root, path)
	if err != nil {
		return AssetInfo{}, false
	}
	info := AssetInfo{
		Name: filepath.ToSlash(name),
		Path: path,
		Type: assetType,
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if prev, ok := am.assets[info.Name]; ok {
		info.LastLoaded = prev.LastLoaded
	}
	am.assets[info.Name] = info
	return info, true
}

func (am *AssetManager) removeAsset(path string) {
	name, err := filepath.Rel(am.root, path)
	if err != nil {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, filepath.ToSlash(name))
}

func determineAssetType(path string) (metadata.ResourceType, bool) {
	switch filepath.Ext(path) {
	case ".spv":
		return metadata.ResourceTypeShader, true
	case ".ply":
		return metadata.ResourceTypeMesh, true
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage, true
	case ".txt", ".toml", ".vert", ".frag", ".glsl":
		return metadata.ResourceTypeText, true
	default:
		return 0, false
	}
}
