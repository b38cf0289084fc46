// Package types defines the Plan document, the board Column enumeration,
// project references, the PlanStore interface and the standard errors
// shared by every Woolly backend.
package types
