// Package registry implements the app version registry core: label
// admission, hierarchical node ownership, and the strictly monotonic
// version-publishing protocol with its latest-alias invariant.
//
// The Directory and Resolver collaborators are injected at
// construction and never reassigned; substitute in-memory fakes for
// testing.
package registry
