// Package externalize holds the rules that suggest loading bundled runtime
// dependencies from a CDN, and the resolver contract they probe.
package externalize
