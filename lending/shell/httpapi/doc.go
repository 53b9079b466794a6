// Package httpapi exposes the circulation coordinator as a JSON REST API built on echo.
//
// Business rejections map to 404 (not found), 409 (lifecycle conflict or no capacity),
// 422 (ineligible borrower) and 400 (invalid input). Invariant violations and infrastructure
// failures map to 500.
package httpapi
