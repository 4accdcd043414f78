package api

import "github.com/Meet5113/greencart-backend/internal/pkg/errs"

// errUnauthenticated means a handler was mounted without RequireAuth.
var errUnauthenticated = errs.New("no authenticated user in context")
