package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types
)

// errs builds the machine-stable error envelope used across the API: an
// "errors" array of objects each carrying a single "msg".  The frontend
// renders the first message as a toast and never retries.
func errs(msgs ...string) echo.Map {
    arr := make([]echo.Map, 0, len(msgs))
    for _, m := range msgs {
        arr = append(arr, echo.Map{"msg": m})
    }
    return echo.Map{"errors": arr}
}

// getUserID extracts the user_id placed in echo.Context by the JWT
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// maxPageSize caps the limit query parameter so a single listing request
// cannot pull the whole archive.
const maxPageSize = 100

// parsePagination reads page/limit query parameters with sane defaults
// and the hard page-size cap.
func parsePagination(c echo.Context) (page, limit int) {
    page = 1
    limit = 20
    if v := c.QueryParam("page"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            page = n
        }
    }
    if v := c.QueryParam("limit"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            limit = n
        }
    }
    if limit > maxPageSize {
        limit = maxPageSize
    }
    return page, limit
}
