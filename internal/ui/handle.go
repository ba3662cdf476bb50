package ui

// Handle is returned by Engine.Register and renders its definition.
type Handle struct {
	engine *Engine
	def    *Definition
}

// Name returns the definition name.
func (h *Handle) Name() string { return h.def.Name }

// Definition returns the definition as registered.
func (h *Handle) Definition() *Definition { return h.def }

// Resolve returns the flattened definition.
func (h *Handle) Resolve() (*Resolved, error) {
	return h.engine.registry.Resolve(h.def.Name)
}

// Render materializes the definition.
func (h *Handle) Render(params Params) (*Instance, error) {
	return h.engine.Render(h.def.Name, params)
}

// RenderWithData materializes the definition and loads data into it.
func (h *Handle) RenderWithData(params Params, data map[string]any) (*Instance, error) {
	return h.engine.RenderWithData(h.def.Name, params, data)
}
