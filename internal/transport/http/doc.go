// Package http contains the chi HTTP handlers for the attendance API. Every
// failure path renders an RFC 7807 problem document through the shared
// error handler; success paths use go-chi/render for JSON.
package http
