// Package services holds shared plumbing for external tool integrations:
// sentinel error markers and the Wrap helper that tags failures with
// stage/operation context for classification by the batch runner.
package services
