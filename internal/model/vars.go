package model

import "github.com/zeromicro/go-zero/core/stores/sqlx"

// ErrNotFound is returned when a row is absent.
var ErrNotFound = sqlx.ErrNotFound
