package hexfield

// AppBuilder collects modules and installs them into a fresh App with the
// default stages. Nothing is installed until Build.
type AppBuilder struct {
	app     *App
	modules []Module
}

// NewAppBuilder starts an App with the eight default stages and no resources.
func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: newApp()}
}

// UseModule queues modules. Order matters: a module may look up resources
// added by the ones queued before it, as HexGridModule does for GpuState.
func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build installs the modules in the order they were added.
func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}

	for _, module := range b.modules {
		module.Install(app, commands)
	}
	app.modules = append(app.modules, b.modules...)

	return app
}
