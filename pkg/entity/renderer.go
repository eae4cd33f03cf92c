package entity

// Renderer draws scene entities. Clear and Present bracket one frame.
type Renderer interface {
	Clear()
	RenderPlanet(planet *Planet)
	RenderPlane(plane *Plane)
	RenderFlag(flag *Flag)
	Present()
}
