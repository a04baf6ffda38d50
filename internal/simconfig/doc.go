// Package simconfig renders a composed asset into the YAML input files a
// simulator run reads: network.yaml, roles.yaml and one <role>.yaml per role.
package simconfig
