package domain

import "errors"

var (
	ErrServiceNotFound     = errors.New("service not found")
	ErrDependencyNotFound  = errors.New("dependency not found")
	ErrInvalidDepth        = errors.New("max depth must be a positive integer within the configured limit")
	ErrInvalidAnalysisType = errors.New("analysis type must be one of downstream, upstream, full")
	ErrSelfDependency      = errors.New("a service cannot depend on itself")
	ErrDuplicateService    = errors.New("service with this name already exists for the team")
	ErrDuplicateDependency = errors.New("dependency of this type already exists between the services")
	ErrInvalidCriticality  = errors.New("invalid criticality")
	ErrInvalidStatus       = errors.New("invalid service status")
	ErrInvalidDependency   = errors.New("invalid dependency type")
	ErrInvalidService      = errors.New("service requires a name and a team")
	ErrCacheMiss           = errors.New("impact analysis cache miss")
	ErrGraphTooLarge       = errors.New("dependency graph exceeds cycle search limit")
)
