// Package system reports host utilisation for the sysinfo command and
// runtime facts for the health endpoint.
package system
