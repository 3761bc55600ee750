// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): IndexService runs the one-time
// load, format, chunk, embed and index build, and RetrievalService
// answers queries against the result.
//
// Services are pure Go with no CGO or external dependencies.
package services
