package model

import "errors"

var (
	// ErrUpstreamUnavailable is wrapped by every error caused by the wiki
	// content service or the analytics service being unreachable or
	// returning a fault. It is not recoverable locally.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrInvalidDate is returned when a page-view date is not YYYYMMDD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrDateRangeOrder is returned when the start date is after the end date.
	ErrDateRangeOrder = errors.New("start date is after end date")
)
