// Package mcpserver exposes a guide as a Model Context Protocol
// server. Tools cover searching, search history and note and bookmark
// management; transports include stdio (Run) and streamable HTTP
// (Handler).
package mcpserver
