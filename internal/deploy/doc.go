// Package deploy reads pyrite.toml and pyrite.json manifests and turns each
// declared service into an UpsertService call.
package deploy
