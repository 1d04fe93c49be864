package models

import (
	"errors"
	"fmt"
)

// Asset kinds stored in Post.AssetTypes.
const (
	AssetTypeImage = "image"
	AssetTypeVideo = "video"
)

var ErrAssetIndexOutOfRange = errors.New("asset index out of range")

// AddAsset appends one asset, keeping AssetURLs and AssetTypes in lockstep.
func (p *Post) AddAsset(url, assetType string) error {
	if assetType != AssetTypeImage && assetType != AssetTypeVideo {
		return fmt.Errorf("unknown asset type %q", assetType)
	}
	p.AssetURLs = append(p.AssetURLs, url)
	p.AssetTypes = append(p.AssetTypes, assetType)
	return nil
}

// RemoveAsset removes the asset at index i from both slices.
func (p *Post) RemoveAsset(i int) error {
	if i < 0 || i >= len(p.AssetURLs) || len(p.AssetURLs) != len(p.AssetTypes) {
		return ErrAssetIndexOutOfRange
	}
	p.AssetURLs = append(p.AssetURLs[:i], p.AssetURLs[i+1:]...)
	p.AssetTypes = append(p.AssetTypes[:i], p.AssetTypes[i+1:]...)
	return nil
}

// AssetsConsistent reports whether the parallel asset slices line up.
// Write paths reject posts that fail this check.
func (p *Post) AssetsConsistent() bool {
	return len(p.AssetURLs) == len(p.AssetTypes)
}
