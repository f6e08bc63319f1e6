package outcome

import "fmt"

// ValidationError reports a structural violation in measure content. The
// reason names the offending field or index and blocks persistence entirely.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports a missing user, measure, response, or client file.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found", e.Resource) }

// ForbiddenError reports an ownership or access-control violation.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

// BadRequestError reports a structurally valid request that violates a
// business precondition.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string { return e.Reason }
