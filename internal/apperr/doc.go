// Package apperr defines the sentinel errors shared across monitors and the
// resolution core. Keeping them in a dedicated leaf package avoids import
// cycles between the CLI, the monitors, and the core.
package apperr
