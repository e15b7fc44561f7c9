// Package loader registers and loads the gateway's features.
//
// Each feature implements Feature and mounts its routes in Load. The Manager
// keeps registration order and skips features reporting IsEnabled false.
//
//	mgr := loader.NewManager(logger)
//	mgr.Register(gateway.NewFeature(client, logger, nil))
//	err := mgr.LoadAll(app.Group("/api/v1"))
package loader
