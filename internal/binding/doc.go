// Package binding assigns application roles to the nodes of a network and
// resolves the application's inputs into per-role values.
//
// A binding is checked in a fixed order. The node count guard runs first and
// stops the check on its own: a network with fewer nodes than roles can never
// host the application, so no per-role finding would help. After that every
// problem is collected: unbound roles, roles the application does not
// declare, nodes outside the network and nodes claimed by more than one role.
// Input resolution runs last and reports against the document the value came
// from, the application for defaults and the experiment for overrides.
package binding
