// Package logger provides structured logging for aopkit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. The proxy engine logs
// through component loggers ("proxy", "advisor", "container") obtained
// via Get, so embedding applications can reroute or silence them.
//
// # Usage
//
//	log := logger.Get("proxy")
//	log.Debug("chain resolved", logger.Fields("method", "Hello"))
package logger
