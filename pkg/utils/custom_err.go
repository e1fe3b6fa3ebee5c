package utils

import "errors"

var (
	ErrPlaceNotFound      = errors.New("place not found")
	ErrInvalidPlaceID     = errors.New("invalid place id")
	ErrInvalidPage        = errors.New("invalid page parameter")
	ErrInvalidPageSize    = errors.New("invalid page size parameter")
	ErrDatabaseError      = errors.New("database error")
	ErrRefreshInProgress  = errors.New("refresh already in progress for place")
	ErrCrawlerUnavailable = errors.New("crawler unavailable")
)
