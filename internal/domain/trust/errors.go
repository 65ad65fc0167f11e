package trust

import "errors"

var (
	// Spammer errors
	ErrUserNotFound = errors.New("user not found")

	// Pending-account errors
	ErrPendingNotFound = errors.New("pending account record not found")
	ErrNotPending      = errors.New("account is not awaiting review")
	ErrAlreadyPending  = errors.New("account is already awaiting review")

	// Report errors
	ErrReportNotFound   = errors.New("report not found")
	ErrReportResolved   = errors.New("report is already resolved")
	ErrCannotReportSelf = errors.New("cannot report your own content")
	ErrRateLimited      = errors.New("too many reports, slow down")
)
