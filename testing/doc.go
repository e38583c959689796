// Package testing provides testing utilities for the noclist module.
//
// # Mocks
//
// The mocks subpackage provides testify-based mock implementations of the
// transport-facing interfaces:
//   - httpclient.Executor, for driving badsec.Client without HTTP
//   - httpclient.Doer, for scripting transport failures and responses
//
// # Fixtures
//
// The fixtures subpackage provides an in-process BADSEC server with
// scripted status sequences and request counters.
//
// # Usage
//
//	import (
//		"github.com/gaborage/noclist/testing/fixtures"
//		"github.com/gaborage/noclist/testing/mocks"
//	)
package testing
