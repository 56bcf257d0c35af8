// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to driven
// ports (adapters): repairing files, loading corpora on a worker pool,
// watching for changes, and reading back what was stored.
package services
