package build

import "errors"

// Sentinel domain errors used to classify pipeline failures. They are
// always wrapped with contextual information at the call site, so use
// errors.Is to test for them.
var (
	ErrConfigRequired = errors.New("blogbuild: config required")
	ErrSiteResolve    = errors.New("blogbuild: site resolve error")
	ErrHugoBuild      = errors.New("blogbuild: hugo build error")
	ErrGeminiBuild    = errors.New("blogbuild: gemini conversion error")
	ErrLinkCheck      = errors.New("blogbuild: link check error")
	ErrHistory        = errors.New("blogbuild: history error")
)
