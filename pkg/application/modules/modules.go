// Package modules contains errgroup-driven application modules: long-running
// servers that start with the application and stop on context cancellation.
package modules

import "p2p_market/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
