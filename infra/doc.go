// Package infra contains technical adapters: the zerolog logger, metrics
// sinks, and the MQTT and webhook announcers. These packages depend only on
// the interfaces defined in the core packages.
package infra
