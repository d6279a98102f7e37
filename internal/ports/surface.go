package ports

import "route-alternatives/internal/domain"

// Port: the map rendering surface that draws route layers and answers hit queries.
type Surface interface {
	// Declare the full set of route layers in paint order, replacing earlier declarations.
	SetRouteLayers(layers []domain.RenderLayer) error
	// Report whether a layer with the given key currently exists.
	HasLayer(key string) bool
	// Return features under the pixel restricted to layerKeys, topmost first.
	QueryRenderedFeatures(point domain.Pixel, layerKeys []string) []domain.RenderedFeature
	// Subscribe to clicks anywhere on the surface. The returned func unsubscribes.
	OnClick(handler func(domain.ClickEvent)) (off func())
}
