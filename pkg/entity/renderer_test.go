package entity

import (
	"testing"
)

// MockRenderer records calls made through the Renderer interface.
type MockRenderer struct {
	Calls            []string
	RenderPlaneCalls []*Plane
	RenderFlagCalls  []*Flag
	RenderPlanetCall []*Planet
	ClearCallCount   int
	PresentCallCount int
}

func (m *MockRenderer) Clear() {
	m.ClearCallCount++
	m.Calls = append(m.Calls, "Clear")
}

func (m *MockRenderer) RenderPlanet(planet *Planet) {
	m.RenderPlanetCall = append(m.RenderPlanetCall, planet)
	m.Calls = append(m.Calls, "RenderPlanet")
}

func (m *MockRenderer) RenderPlane(plane *Plane) {
	m.RenderPlaneCalls = append(m.RenderPlaneCalls, plane)
	m.Calls = append(m.Calls, "RenderPlane")
}

func (m *MockRenderer) RenderFlag(flag *Flag) {
	m.RenderFlagCalls = append(m.RenderFlagCalls, flag)
	m.Calls = append(m.Calls, "RenderFlag")
}

func (m *MockRenderer) Present() {
	m.PresentCallCount++
	m.Calls = append(m.Calls, "Present")
}

func TestRenderer_InterfaceCompliance(t *testing.T) {
	var _ Renderer = &MockRenderer{}
}

func TestRender_Dispatch(t *testing.T) {
	plane := newTestPlane(t)
	planet := newTestPlanet(t)
	renderer := &MockRenderer{}

	renderer.Clear()
	planet.Render(renderer)
	plane.Render(renderer)
	renderer.Present()

	want := []string{"Clear", "RenderPlanet", "RenderPlane", "RenderFlag", "Present"}
	if len(renderer.Calls) != len(want) {
		t.Fatalf("Calls = %v, want %v", renderer.Calls, want)
	}
	for i := range want {
		if renderer.Calls[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, renderer.Calls[i], want[i])
		}
	}
	if renderer.RenderPlaneCalls[0] != plane {
		t.Error("RenderPlane received a different plane")
	}
	if renderer.RenderFlagCalls[0] != plane.Flag {
		t.Error("RenderFlag received a different flag")
	}
	if renderer.RenderPlanetCall[0] != planet {
		t.Error("RenderPlanet received a different planet")
	}
}

func TestRender_PlaneWithoutFlag(t *testing.T) {
	plane := newTestPlane(t)
	plane.Flag = nil
	renderer := &MockRenderer{}

	plane.Render(renderer)
	if len(renderer.RenderFlagCalls) != 0 {
		t.Errorf("RenderFlag called %d times for a plane without flag", len(renderer.RenderFlagCalls))
	}
}

func TestBaseEntity_RenderIsNoop(t *testing.T) {
	renderer := &MockRenderer{}
	base := newBaseEntity(9)
	base.Render(renderer)
	if len(renderer.Calls) != 0 {
		t.Errorf("BaseEntity.Render made calls: %v", renderer.Calls)
	}
}
