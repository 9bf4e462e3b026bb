//go:build tools

// Package tooling pins the CI/lint tool versions used by this module's
// build pipeline (golangci-lint, gocov, grpcurl, actionlint, gotestsum) so
// `go mod tidy` doesn't drop them — none of them are imported by
// application code.
package tooling

import (
	_ "github.com/AlekSi/gocov-xml"
	_ "github.com/axw/gocov"
	_ "github.com/edaniels/golinters"
	_ "github.com/fullstorydev/grpcurl"
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/rhysd/actionlint/cmd/actionlint"
	_ "gotest.tools/gotestsum"
)
