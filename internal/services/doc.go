// Package services holds the failure taxonomy and shared HTTP plumbing for
// the external metadata providers.
package services
