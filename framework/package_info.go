// Package framework contains non-domain-specific infrastructure shared by the
// interception server, the mock API services, and the dev server CLI.
package framework
