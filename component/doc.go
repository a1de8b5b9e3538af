// Package component defines lifecycle-managed infrastructure for wirekit
// applications.
//
// Components are started in registration order by the bootstrap package and
// stopped in reverse order on shutdown. Their Health feeds the inspection
// server's /health endpoint.
package component
