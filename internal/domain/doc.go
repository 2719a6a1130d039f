// Package domain contains the core model of the OpenCV setup pipeline.
//
// The domain is transport- and persistence-agnostic: it does not depend on HTTP,
// zip parsing or the filesystem. Infra adapters perform the I/O and report
// failures through OpError.
package domain
